package resultstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/carbocation/ecgfusion/aami"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func measures(t *testing.T, preds, labels []int) aami.Measures {
	t.Helper()
	m, err := aami.Score(preds, labels)
	require.NoError(t, err)
	return m
}

func TestInsertAndList(t *testing.T) {
	ctx := context.Background()

	store, err := Open(filepath.Join(t.TempDir(), "results.sqlite"))
	require.NoError(t, err)
	defer store.Close()

	perfect := measures(t, []int{0, 1, 2, 3}, []int{0, 1, 2, 3})
	rec, err := RecordFromMeasures("exp1", "vote", "rr", perfect)
	require.NoError(t, err)

	id, err := store.Insert(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	// Every prediction is N, so expected agreement is 1 and kappa is
	// undefined.
	allN := measures(t, []int{0, 0}, []int{0, 0})
	require.False(t, allN.Kappa.Valid)
	rec, err = RecordFromMeasures("exp2", "fusion", "product", allN)
	require.NoError(t, err)
	_, err = store.Insert(ctx, rec)
	require.NoError(t, err)

	got, err := store.List(ctx, "exp1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "vote", got[0].Kind)
	assert.Equal(t, "rr", got[0].Name)
	assert.Equal(t, 4, got[0].Instances)
	assert.True(t, got[0].Kappa.Valid)
	assert.InDelta(t, 1.0, got[0].Kappa.Float64, 1e-8)
	assert.InDelta(t, 1.0, got[0].Ijk.Float64, 1e-8)
	assert.False(t, got[0].CreatedAt.IsZero())

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(got[0].Report), &report))

	got, err = store.List(ctx, "exp2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Kappa.Valid)
	assert.False(t, got[0].Ijk.Valid)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	names, err := store.Experiments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"exp1", "exp2"}, names)

	none, err := store.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.sqlite")

	store, err := Open(path)
	require.NoError(t, err)
	rec, err := RecordFromMeasures("exp", "ds", "mlii+rr", measures(t, []int{0, 1}, []int{0, 1}))
	require.NoError(t, err)
	_, err = store.Insert(ctx, rec)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.List(ctx, "exp")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
