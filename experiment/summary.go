package experiment

import (
	"encoding/csv"
	"io"
	"math"

	"github.com/carbocation/ecgfusion/resultstore"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
)

// SummaryRow aggregates the Ijk of every stored run of one method.
type SummaryRow struct {
	Experiment string  `csv:"experiment"`
	Kind       string  `csv:"kind"`
	Name       string  `csv:"name"`
	Runs       int     `csv:"runs"`
	Undefined  int     `csv:"undefined_ijk"`
	MeanIjk    float64 `csv:"mean_ijk"`
	MedianIjk  float64 `csv:"median_ijk"`
	MaxIjk     float64 `csv:"max_ijk"`
	SDIjk      float64 `csv:"sd_ijk"`
}

type summaryKey struct {
	experiment, kind, name string
}

// Summarize groups records by experiment, kind and name, in the order the
// groups first appear. Runs with undefined Ijk are counted but not averaged;
// a group with no defined Ijk reports NaN.
func Summarize(records []resultstore.Record) ([]SummaryRow, error) {
	var order []summaryKey
	groups := make(map[summaryKey]*SummaryRow)
	values := make(map[summaryKey]stats.Float64Data)

	for _, r := range records {
		k := summaryKey{r.Experiment, r.Kind, r.Name}
		row, ok := groups[k]
		if !ok {
			row = &SummaryRow{Experiment: r.Experiment, Kind: r.Kind, Name: r.Name}
			groups[k] = row
			order = append(order, k)
		}

		row.Runs++
		if !r.Ijk.Valid {
			row.Undefined++
			continue
		}
		values[k] = append(values[k], r.Ijk.Float64)
	}

	out := make([]SummaryRow, 0, len(order))
	for _, k := range order {
		row := groups[k]
		data := values[k]

		if len(data) == 0 {
			row.MeanIjk, row.MedianIjk, row.MaxIjk, row.SDIjk = math.NaN(), math.NaN(), math.NaN(), math.NaN()
			out = append(out, *row)
			continue
		}

		var err error
		if row.MeanIjk, err = stats.Mean(data); err != nil {
			return nil, pfx.Err(err)
		}
		if row.MedianIjk, err = stats.Median(data); err != nil {
			return nil, pfx.Err(err)
		}
		if row.MaxIjk, err = stats.Max(data); err != nil {
			return nil, pfx.Err(err)
		}
		if len(data) > 1 {
			if row.SDIjk, err = stats.StandardDeviationSample(data); err != nil {
				return nil, pfx.Err(err)
			}
		}

		out = append(out, *row)
	}

	return out, nil
}

// WriteSummary writes rows as a tab-delimited table with a header.
func WriteSummary(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return pfx.Err(err)
	}

	return nil
}
