package tabular

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/carbocation/ecgfusion"
	"github.com/carbocation/pfx"
)

// ReadLabels parses one integer class label per line. Labels written as
// floats ("2.000000000000000000e+00") are accepted as long as they are whole
// numbers.
func ReadLabels(r io.Reader) ([]int, error) {
	table, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return parseLabels(table)
}

// ReadLabelsFile is ReadLabels for a local, gs:// or compressed path.
func ReadLabelsFile(ctx context.Context, path string, client *storage.Client) ([]int, error) {
	table, err := ecgfusion.ReadAll(ctx, path, client)
	if err != nil {
		return nil, err
	}

	labels, err := parseLabels(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return labels, nil
}

func parseLabels(table []byte) ([]int, error) {
	rows, err := splitTable(table)
	if err != nil {
		return nil, err
	}

	out := make([]int, 0, len(rows))
	for _, r := range rows {
		if len(r.fields) != 1 {
			return nil, lineError(r.line, fmt.Errorf("expected one label, found %d fields", len(r.fields)))
		}

		label, err := parseLabel(r.fields[0])
		if err != nil {
			return nil, lineError(r.line, err)
		}
		out = append(out, label)
	}

	return out, nil
}

func parseLabel(field string) (int, error) {
	if v, err := strconv.Atoi(field); err == nil {
		return v, nil
	}

	f, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("label %q is not a whole number", field)
	}

	return int(f), nil
}

// WritePredictions writes one integer per line.
func WritePredictions(w io.Writer, predictions []int) error {
	bw := bufio.NewWriter(w)
	for _, p := range predictions {
		if _, err := fmt.Fprintln(bw, p); err != nil {
			return pfx.Err(err)
		}
	}
	if err := bw.Flush(); err != nil {
		return pfx.Err(err)
	}
	return nil
}
