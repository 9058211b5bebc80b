package ecgfusion

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDataType(t *testing.T) {
	for name, v := range map[string]struct {
		head []byte
		want DataType
	}{
		"gzip":  {[]byte{0x1f, 0x8b, 0x08, 0x00}, DataTypeGzip},
		"zip":   {[]byte{0x50, 0x4b, 0x03, 0x04, 0x14}, DataTypeZip},
		"xz":    {[]byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, DataTypeXZ},
		"zlib":  {[]byte{0x1f, 0x9d, 0x90}, DataTypeZ},
		"bzip2": {[]byte("BZh91AY"), DataTypeBZip2},
		"text":  {[]byte("1 -1 1\n"), DataTypeNoCompression},
		"empty": {nil, DataTypeNoCompression},
		"short": {[]byte{0x1f}, DataTypeNoCompression},
	} {
		assert.Equal(t, v.want, DetectDataType(v.head), name)
	}

	assert.Equal(t, "gzip", DataTypeGzip.String())
	assert.Equal(t, "invalid", DataTypeInvalid.String())
}

func TestMaybeDecompress(t *testing.T) {
	body := "0.7,0.1,0.1,0.1\n0.2,0.6,0.1,0.1\n"

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	for name, raw := range map[string][]byte{
		"plain": []byte(body),
		"gzip":  gz.Bytes(),
	} {
		rc, err := MaybeDecompress(io.NopCloser(bytes.NewReader(raw)))
		require.NoError(t, err, name)

		got, err := io.ReadAll(rc)
		require.NoError(t, err, name)
		require.NoError(t, rc.Close())

		assert.Equal(t, body, string(got), name)
	}

	// Files shorter than the longest signature are fine.
	rc, err := MaybeDecompress(io.NopCloser(strings.NewReader("1")))
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))
}

func TestDetermineDelimiterBytes(t *testing.T) {
	assert.Equal(t, ' ', DetermineDelimiterBytes([]byte("1 2 3\n4 5 6\n")))
	assert.Equal(t, ',', DetermineDelimiterBytes([]byte("1,2,3\n4,5,6\n")))
	assert.Equal(t, '\t', DetermineDelimiterBytes([]byte("1\t2\t3\n4\t5\t6\n")))
	assert.Equal(t, ',', DetermineDelimiterBytes([]byte("\n\n")))
}

func TestExpandHome(t *testing.T) {
	usr, err := user.Current()
	require.NoError(t, err)

	assert.Equal(t, usr.HomeDir, ExpandHome("~"))
	assert.Equal(t, filepath.Join(usr.HomeDir, "data", "labels.txt"), ExpandHome("~/data/labels.txt"))
	assert.Equal(t, "/data/~/labels.txt", ExpandHome("/data/~/labels.txt"))
	assert.Equal(t, "relative.txt", ExpandHome("relative.txt"))
}

func TestReadAllLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("0\n1\n"), 0644))

	ctx := context.Background()

	client, err := NewStorageClientIfNeeded(ctx, path)
	require.NoError(t, err)
	assert.Nil(t, client)

	b, err := ReadAll(ctx, path, client)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n", string(b))

	assert.True(t, IsGoogleStoragePath("gs://bucket/labels.txt"))
	assert.False(t, IsGoogleStoragePath(path))

	_, err = Open(ctx, "gs://bucket/labels.txt", nil)
	assert.Error(t, err)
}
