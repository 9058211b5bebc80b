package tabular

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/carbocation/ecgfusion"
	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"
)

// ReadMatrix parses a rectangular numeric table, such as a one-vs-one
// decision matrix with one row per instance.
func ReadMatrix(r io.Reader) (*mat.Dense, error) {
	table, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return parseMatrix(table)
}

// ReadMatrixFile is ReadMatrix for a local, gs:// or compressed path.
func ReadMatrixFile(ctx context.Context, path string, client *storage.Client) (*mat.Dense, error) {
	table, err := ecgfusion.ReadAll(ctx, path, client)
	if err != nil {
		return nil, err
	}

	m, err := parseMatrix(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

func parseMatrix(table []byte) (*mat.Dense, error) {
	rows, err := splitTable(table)
	if err != nil {
		return nil, err
	}

	cols := len(rows[0].fields)
	data := make([]float64, 0, len(rows)*cols)

	for _, r := range rows {
		if len(r.fields) != cols {
			return nil, lineError(r.line, fmt.Errorf("expected %d columns, found %d", cols, len(r.fields)))
		}

		for _, field := range r.fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, lineError(r.line, err)
			}
			data = append(data, v)
		}
	}

	return mat.NewDense(len(rows), cols, data), nil
}
