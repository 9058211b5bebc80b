package fusion

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sigmoid returns a new matrix with the logistic function applied to every
// element of m.
func Sigmoid(m mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		return 1 / (1 + math.Exp(-v))
	}, m)
	return &out
}

// Scale returns a new matrix holding m multiplied by f. Dividing a sigmoid
// vote accumulator by its pair count puts every row on [0, 1].
func Scale(m mat.Matrix, f float64) *mat.Dense {
	var out mat.Dense
	out.Scale(f, m)
	return &out
}
