package aami

import (
	"encoding/json"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/guregu/null.v3"
)

// Weights of the Ijk index: Ijk = KappaWeight*kappa + IjWeight*Ij.
const (
	KappaWeight = 0.5
	IjWeight    = 0.125
)

// Measures is the full AAMI battery for one confusion matrix. Per-class
// arrays are indexed by Class.
//
// Ratios whose denominator is zero (a class that never occurs in either the
// predictions or the labels) are reported as 0.0. Kappa, and Ijk which
// depends on it, are null when the expected agreement is 1.
type Measures struct {
	Confusion Confusion

	Recall      [NumClasses]float64
	Precision   [NumClasses]float64
	Specificity [NumClasses]float64
	Accuracy    [NumClasses]float64
	FMeasure    [NumClasses]float64

	OverallAccuracy float64
	PObserved       float64
	PExpected       float64
	Kappa           null.Float
	Ij              float64
	Ijk             null.Float
}

// Counts holds the one-vs-rest counts of a single class.
type Counts struct {
	TP, FP, FN, TN float64
}

// ClassCounts derives TP/FP/FN/TN for class k. For V, beats that are truly F
// but predicted V are not counted as false positives: the AAMI recommendation
// neither rewards nor penalizes a classifier for calling F beats V. No other
// class gets an exemption.
func ClassCounts(c Confusion, k Class) Counts {
	tp := c.At(k, k)
	predicted := c.Predicted(k)
	actual := c.Actual(k)

	out := Counts{
		TP: tp,
		FP: predicted - tp,
		FN: actual - tp,
		TN: c.Total() - predicted - actual + tp,
	}

	if k == V {
		out.FP -= c.At(V, F)
	}

	return out
}

// Score builds the confusion matrix for predictions against labels and
// evaluates it.
func Score(predictions, labels []int) (Measures, error) {
	c, err := NewConfusion(predictions, labels)
	if err != nil {
		return Measures{}, err
	}

	if c.Total() == 0 {
		return Measures{}, ErrNoInstances
	}

	return Evaluate(c), nil
}

// Evaluate computes every measure from a confusion matrix.
func Evaluate(c Confusion) Measures {
	out := Measures{Confusion: c}

	for _, k := range Classes {
		cc := ClassCounts(c, k)

		out.Recall[k] = ratio(cc.TP, cc.TP+cc.FN)
		out.Precision[k] = ratio(cc.TP, cc.TP+cc.FP)
		out.Specificity[k] = ratio(cc.TN, cc.TN+cc.FP)
		out.Accuracy[k] = ratio(cc.TP+cc.TN, cc.TP+cc.TN+cc.FP+cc.FN)

		if cc.TP == 0 {
			out.FMeasure[k] = 0
		} else {
			out.FMeasure[k] = 2 * out.Precision[k] * out.Recall[k] / (out.Precision[k] + out.Recall[k])
		}
	}

	out.OverallAccuracy = ratio(c.Trace(), c.Total())
	out.Kappa, out.PObserved, out.PExpected = CohenKappa(c)

	// Index-j: recall_S + recall_V + precision_S + precision_V
	out.Ij = out.Recall[S] + out.Recall[V] + out.Precision[S] + out.Precision[V]

	if out.Kappa.Valid {
		out.Ijk = null.FloatFrom(KappaWeight*out.Kappa.Float64 + IjWeight*out.Ij)
	}

	return out
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// MeanAccuracy is the unweighted mean of the per-class accuracies.
func (m Measures) MeanAccuracy() float64 { return stat.Mean(m.Accuracy[:], nil) }

// MeanRecall is the unweighted mean of the per-class recalls.
func (m Measures) MeanRecall() float64 { return stat.Mean(m.Recall[:], nil) }

// MeanPrecision is the unweighted mean of the per-class precisions.
func (m Measures) MeanPrecision() float64 { return stat.Mean(m.Precision[:], nil) }

// MeanFMeasure is the unweighted mean of the per-class F-measures. It is the
// score used to pick hyperparameters during cross-validation.
func (m Measures) MeanFMeasure() float64 { return stat.Mean(m.FMeasure[:], nil) }

type classJSON struct {
	Recall      float64 `json:"recall"`
	Precision   float64 `json:"precision"`
	Specificity float64 `json:"specificity"`
	Accuracy    float64 `json:"accuracy"`
	FMeasure    float64 `json:"f_measure"`
}

type measuresJSON struct {
	Ijk             null.Float           `json:"ijk"`
	Ij              float64              `json:"ij"`
	Kappa           null.Float           `json:"kappa"`
	PObserved       float64              `json:"p_observed"`
	PExpected       float64              `json:"p_expected"`
	OverallAccuracy float64              `json:"overall_accuracy"`
	Confusion       [][]int              `json:"confusion_matrix"`
	Excluded        int                  `json:"excluded"`
	Classes         map[string]classJSON `json:"classes"`
}

// MarshalJSON writes the measures with per-class blocks keyed by class name.
// Undefined kappa and Ijk are written as null.
func (m Measures) MarshalJSON() ([]byte, error) {
	out := measuresJSON{
		Ijk:             m.Ijk,
		Ij:              m.Ij,
		Kappa:           m.Kappa,
		PObserved:       m.PObserved,
		PExpected:       m.PExpected,
		OverallAccuracy: m.OverallAccuracy,
		Confusion:       m.Confusion.Rows(),
		Excluded:        m.Confusion.Excluded(),
		Classes:         make(map[string]classJSON, NumClasses),
	}

	for _, k := range Classes {
		out.Classes[k.String()] = classJSON{
			Recall:      m.Recall[k],
			Precision:   m.Precision[k],
			Specificity: m.Specificity[k],
			Accuracy:    m.Accuracy[k],
			FMeasure:    m.FMeasure[k],
		}
	}

	return json.Marshal(out)
}
