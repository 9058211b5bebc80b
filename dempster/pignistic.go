package dempster

import "gonum.org/v1/gonum/floats"

// Pignistic spreads the mass of every non-empty set evenly over its members
// and returns the resulting probability of each class. Conflict is discarded
// by dividing by the non-empty total, so unnormalized inputs are accepted.
func (mf MassFunction) Pignistic() ([FrameSize]float64, error) {
	var out [FrameSize]float64

	total := 0.0
	for s := Set(1); s < NumSets; s++ {
		v := mf.m[s]
		if v == 0 {
			continue
		}
		share := v / float64(s.Len())
		for _, k := range s.Members() {
			out[k] += share
		}
		total += v
	}

	if total <= 0 {
		return out, ErrTotalConflict
	}

	for k := range out {
		out[k] /= total
	}

	return out, nil
}

// Decide returns the class with the highest pignistic probability. Ties go to
// the lowest class index.
func (mf MassFunction) Decide() (int, error) {
	p, err := mf.Pignistic()
	if err != nil {
		return -1, err
	}
	return floats.MaxIdx(p[:]), nil
}
