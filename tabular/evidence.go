package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/carbocation/ecgfusion"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// EvidenceRow is one instance of an evidence distribution: the raw mass put
// on each singleton class.
type EvidenceRow struct {
	N float64 `csv:"N"`
	S float64 `csv:"S"`
	V float64 `csv:"V"`
	F float64 `csv:"F"`
}

// Values returns the masses in class order.
func (e EvidenceRow) Values() []float64 {
	return []float64{e.N, e.S, e.V, e.F}
}

// ReadEvidence parses a headerless four-column evidence table.
func ReadEvidence(r io.Reader) ([]EvidenceRow, error) {
	table, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return parseEvidence(table)
}

// ReadEvidenceFile is ReadEvidence for a local, gs:// or compressed path.
func ReadEvidenceFile(ctx context.Context, path string, client *storage.Client) ([]EvidenceRow, error) {
	table, err := ecgfusion.ReadAll(ctx, path, client)
	if err != nil {
		return nil, err
	}

	rows, err := parseEvidence(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rows, nil
}

func parseEvidence(table []byte) ([]EvidenceRow, error) {
	rows, err := splitTable(table)
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		if len(r.fields) != 4 {
			return nil, lineError(r.line, fmt.Errorf("expected 4 columns (N, S, V, F), found %d", len(r.fields)))
		}
	}

	cr := csv.NewReader(bytes.NewReader(commaSeparated(rows)))
	cr.FieldsPerRecord = 4

	out := make([]EvidenceRow, 0, len(rows))
	if err := gocsv.UnmarshalCSVWithoutHeaders(cr, &out); err != nil {
		return nil, pfx.Err(err)
	}

	return out, nil
}

// EvidenceValues flattens rows into one []float64 per instance.
func EvidenceValues(rows []EvidenceRow) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Values()
	}
	return out
}
