package aami

import (
	"gonum.org/v1/gonum/floats"
	"gopkg.in/guregu/null.v3"
)

// CohenKappa computes Cohen's kappa from a confusion matrix along with the
// observed and expected agreement. Kappa is invalid (null) when the expected
// agreement is 1, i.e. both raters put every beat in the same class and there
// is no chance-corrected signal to measure. An empty matrix yields zero
// agreement and an invalid kappa.
func CohenKappa(c Confusion) (kappa null.Float, observed, expected float64) {
	total := c.Total()
	if total == 0 {
		return null.Float{}, 0, 0
	}

	var peA, peB [NumClasses]float64
	for _, k := range Classes {
		peA[k] = c.Predicted(k) / total
		peB[k] = c.Actual(k) / total
	}

	expected = floats.Dot(peA[:], peB[:])
	observed = c.Trace() / total

	if expected == 1 {
		return null.Float{}, observed, expected
	}

	return null.FloatFrom((observed - expected) / (1 - expected)), observed, expected
}

// KappaStrength is the conventional verbal band for a kappa value:
//
//	   < 0.20  Poor
//	0.21-0.40  Fair
//	0.41-0.60  Moderate
//	0.61-0.80  Good
//	0.81-1.00  Very good
func KappaStrength(kappa null.Float) string {
	if !kappa.Valid {
		return "Undefined"
	}

	switch k := kappa.Float64; {
	case k <= 0.20:
		return "Poor"
	case k <= 0.40:
		return "Fair"
	case k <= 0.60:
		return "Moderate"
	case k <= 0.80:
		return "Good"
	}
	return "Very good"
}
