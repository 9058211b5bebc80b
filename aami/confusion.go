package aami

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrLength is returned when predictions and labels differ in length.
	ErrLength = errors.New("aami: predictions and labels differ in length")

	// ErrNoInstances is returned when nothing is left to score once
	// out-of-scope labels are excluded.
	ErrNoInstances = errors.New("aami: no scorable instances")
)

// Confusion is a 4x4 AAMI confusion matrix. Rows are the predicted class and
// columns are the actual (ground truth) class, so At(V, F) counts beats that
// are truly F but were predicted V. A Confusion is never modified after it is
// built.
type Confusion struct {
	m        *mat.Dense
	excluded int
}

// NewConfusion counts (prediction, label) co-occurrences. Pairs where either
// side falls outside {N,S,V,F} are excluded from the count entirely; the
// number of such pairs is available from Excluded. Classes that never occur
// still get their (all-zero) row and column.
func NewConfusion(predictions, labels []int) (Confusion, error) {
	if len(predictions) != len(labels) {
		return Confusion{}, fmt.Errorf("%w: %d predictions, %d labels", ErrLength, len(predictions), len(labels))
	}

	out := Confusion{m: mat.NewDense(NumClasses, NumClasses, nil)}

	for i, p := range predictions {
		l := labels[i]
		if !Class(p).Scored() || !Class(l).Scored() {
			out.excluded++
			continue
		}
		out.m.Set(p, l, out.m.At(p, l)+1)
	}

	return out, nil
}

// ConfusionFromMatrix wraps an existing 4x4 count matrix (rows predicted,
// columns actual). The matrix is copied.
func ConfusionFromMatrix(counts mat.Matrix) (Confusion, error) {
	r, c := counts.Dims()
	if r != NumClasses || c != NumClasses {
		return Confusion{}, fmt.Errorf("aami: confusion matrix must be %dx%d, got %dx%d", NumClasses, NumClasses, r, c)
	}

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := counts.At(i, j); v < 0 || v != v {
				return Confusion{}, fmt.Errorf("aami: confusion matrix entry (%d,%d) is %v", i, j, v)
			}
		}
	}

	return Confusion{m: mat.DenseCopyOf(counts)}, nil
}

// ConfusionFromRows builds a Confusion from literal rows (rows predicted,
// columns actual).
func ConfusionFromRows(rows [NumClasses][NumClasses]float64) Confusion {
	data := make([]float64, 0, NumClasses*NumClasses)
	for _, row := range rows {
		data = append(data, row[:]...)
	}
	return Confusion{m: mat.NewDense(NumClasses, NumClasses, data)}
}

// At returns the number of beats predicted as predicted whose true class is
// actual.
func (c Confusion) At(predicted, actual Class) float64 {
	if c.m == nil {
		return 0
	}
	return c.m.At(int(predicted), int(actual))
}

// Predicted is the row sum: all beats predicted as class k.
func (c Confusion) Predicted(k Class) float64 {
	if c.m == nil {
		return 0
	}
	return mat.Sum(c.m.RowView(int(k)))
}

// Actual is the column sum: all beats whose true class is k.
func (c Confusion) Actual(k Class) float64 {
	if c.m == nil {
		return 0
	}
	return mat.Sum(c.m.ColView(int(k)))
}

// Total is the number of counted beats.
func (c Confusion) Total() float64 {
	if c.m == nil {
		return 0
	}
	return mat.Sum(c.m)
}

// Trace is the number of correctly classified beats.
func (c Confusion) Trace() float64 {
	if c.m == nil {
		return 0
	}
	return mat.Trace(c.m)
}

// Excluded is the number of pairs dropped because a label or prediction was
// outside {N,S,V,F}.
func (c Confusion) Excluded() int {
	return c.excluded
}

// Matrix returns a copy of the counts.
func (c Confusion) Matrix() *mat.Dense {
	if c.m == nil {
		return mat.NewDense(NumClasses, NumClasses, nil)
	}
	return mat.DenseCopyOf(c.m)
}

// Rows returns the counts as integers, one slice per predicted class.
func (c Confusion) Rows() [][]int {
	out := make([][]int, NumClasses)
	for i := range out {
		out[i] = make([]int, NumClasses)
		for j := range out[i] {
			out[i][j] = int(c.At(Class(i), Class(j)))
		}
	}
	return out
}
