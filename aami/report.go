package aami

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"gopkg.in/guregu/null.v3"
)

// WriteReport writes the human-readable AAMI report: the composite indices,
// the confusion matrix, overall and mean figures, and a Sens/Prec/Acc block
// for each scored class. Undefined values are written as NaN.
func WriteReport(w io.Writer, m Measures) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Ijk: %s\n", f4null(m.Ijk))
	fmt.Fprintf(bw, "Ij: %s\n", f4(m.Ij))
	fmt.Fprintf(bw, "Cohen's Kappa: %s\n\n", f4null(m.Kappa))

	fmt.Fprintf(bw, "Confusion Matrix (rows predicted, columns actual):\n\n")
	for _, row := range m.Confusion.Rows() {
		fmt.Fprintln(bw, row)
	}
	fmt.Fprintln(bw)

	if n := m.Confusion.Excluded(); n > 0 {
		fmt.Fprintf(bw, "Excluded (outside N/S/V/F): %d\n\n", n)
	}

	fmt.Fprintf(bw, "Overall ACC: %s\n\n", f4(m.OverallAccuracy))

	fmt.Fprintf(bw, "mean Acc: %s\n", f4(m.MeanAccuracy()))
	fmt.Fprintf(bw, "mean Recall: %s\n", f4(m.MeanRecall()))
	fmt.Fprintf(bw, "mean Precision: %s\n", f4(m.MeanPrecision()))

	for _, k := range Classes {
		fmt.Fprintf(bw, "%s:\n\n", k)
		fmt.Fprintf(bw, "Sens: %s\n", f4(m.Recall[k]))
		fmt.Fprintf(bw, "Prec: %s\n", f4(m.Precision[k]))
		fmt.Fprintf(bw, "Acc: %s\n", f4(m.Accuracy[k]))
	}

	return bw.Flush()
}

// ReportFileName names a report after the method that produced it and its
// Ijk, e.g. "sum_rule_score_Ijk_0.52.txt".
func ReportFileName(prefix string, m Measures) string {
	ijk := math.NaN()
	if m.Ijk.Valid {
		ijk = m.Ijk.Float64
	}
	return fmt.Sprintf("%s_score_Ijk_%.2f.txt", prefix, ijk)
}

func f4(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func f4null(v null.Float) string {
	if !v.Valid {
		return "NaN"
	}
	return f4(v.Float64)
}
