package ovo

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrShape is returned when a decision matrix does not have n(n-1)/2 columns
// for the declared number of classes, or fewer than two classes are declared.
var ErrShape = errors.New("ovo: decision matrix shape does not match class count")

// Result holds the per-instance predictions and the vote accumulator they
// were derived from. Votes has one row per instance and one column per class.
type Result struct {
	Predictions []int
	Votes       *mat.Dense
}

// CheckShape verifies that decisions has exactly n(n-1)/2 columns.
func CheckShape(decisions mat.Matrix, n int) error {
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 classes, got %d", ErrShape, n)
	}

	if _, c := decisions.Dims(); c != NumPairs(n) {
		return fmt.Errorf("%w: %d classes need %d pair columns, matrix has %d", ErrShape, n, NumPairs(n), c)
	}

	return nil
}

// Vote aggregates a decision matrix into one prediction per instance using
// policy p. The prediction is the index of the largest accumulator; ties go
// to the lowest class index.
func Vote(decisions mat.Matrix, n int, p Policy) (Result, error) {
	if err := CheckShape(decisions, n); err != nil {
		return Result{}, err
	}
	if !p.valid() {
		return Result{}, fmt.Errorf("ovo: invalid policy %d", int(p))
	}

	rows, _ := decisions.Dims()
	out := Result{
		Predictions: make([]int, rows),
		Votes:       mat.NewDense(rows, n, nil),
	}

	voteRows(decisions, n, p, 0, rows, out)

	return out, nil
}

// voteRows fills rows [lo, hi) of out. Distinct row ranges touch distinct
// memory, so disjoint ranges can be filled concurrently.
func voteRows(decisions mat.Matrix, n int, p Policy, lo, hi int, out Result) {
	t := pairs(n)

	for row := lo; row < hi; row++ {
		acc := out.Votes.RawRowView(row)

		for col := range t.first {
			first, second, skip := p.votes(decisions.At(row, col))
			if skip {
				continue
			}
			acc[t.first[col]] += first
			acc[t.second[col]] += second
		}

		out.Predictions[row] = floats.MaxIdx(acc)
	}
}

// Argmax returns the index of the largest value in each row of scores. Ties
// go to the lowest index.
func Argmax(scores mat.RawRowViewer, rows int) []int {
	out := make([]int, rows)
	for i := range out {
		out[i] = floats.MaxIdx(scores.RawRowView(i))
	}
	return out
}
