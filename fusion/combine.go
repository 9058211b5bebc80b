package fusion

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Result is the combined score matrix (instances x classes) and its
// per-instance argmax.
type Result struct {
	Predictions []int
	Scores      *mat.Dense
}

// CheckEnsemble verifies that there is at least one member and that every
// member has the same, non-empty shape. It returns that shape.
func CheckEnsemble(ensemble []mat.Matrix) (instances, classes int, err error) {
	if len(ensemble) == 0 {
		return 0, 0, fmt.Errorf("%w: empty ensemble", ErrShape)
	}

	instances, classes = ensemble[0].Dims()
	if instances == 0 || classes == 0 {
		return 0, 0, fmt.Errorf("%w: member 0 is empty", ErrShape)
	}

	for k, m := range ensemble[1:] {
		r, c := m.Dims()
		if r != instances || c != classes {
			return 0, 0, fmt.Errorf("%w: member %d is %dx%d, member 0 is %dx%d", ErrShape, k+1, r, c, instances, classes)
		}
	}

	return instances, classes, nil
}

// Combine fuses the ensemble with rule. Scores are not normalized here;
// callers put members on a comparable scale first (see Sigmoid and Scale).
// Ties in the combined vector go to the lowest class index.
func Combine(ensemble []mat.Matrix, rule Rule) (Result, error) {
	instances, classes, err := CheckEnsemble(ensemble)
	if err != nil {
		return Result{}, err
	}

	combine, ok := combiners[rule]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownRule, rule)
	}

	out := Result{
		Predictions: make([]int, instances),
		Scores:      mat.NewDense(instances, classes, nil),
	}

	member := make([]float64, classes)
	scratch := make([]int, classes)
	for i := 0; i < instances; i++ {
		acc := out.Scores.RawRowView(i)
		if rule == Product || rule == Min {
			for j := range acc {
				acc[j] = 1
			}
		}

		for _, m := range ensemble {
			mat.Row(member, i, m)
			combine(acc, member, scratch)
		}

		out.Predictions[i] = floats.MaxIdx(acc)
	}

	return out, nil
}

type combiner func(acc, member []float64, scratch []int)

var combiners = map[Rule]combiner{
	Product: func(acc, member []float64, _ []int) { floats.Mul(acc, member) },
	Sum:     func(acc, member []float64, _ []int) { floats.Add(acc, member) },
	Min: func(acc, member []float64, _ []int) {
		for j, v := range member {
			acc[j] = math.Min(acc[j], v)
		}
	},
	Max: func(acc, member []float64, _ []int) {
		for j, v := range member {
			acc[j] = math.Max(acc[j], v)
		}
	},
	Rank: func(acc, member []float64, order []int) {
		for j := range order {
			order[j] = j
		}
		// Equal scores keep their class order.
		sort.SliceStable(order, func(a, b int) bool { return member[order[a]] < member[order[b]] })
		for pos, class := range order {
			acc[class] += float64(pos)
		}
	},
}
