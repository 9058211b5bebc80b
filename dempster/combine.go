package dempster

import "fmt"

// Combine applies Dempster's conjunctive rule to m1 and m2: every pair of
// sets (A, B) moves m1(A)*m2(B) onto A∩B. With normalize the conflict is then
// removed and ErrTotalConflict is returned when nothing remains; without it
// the conflict is kept on the empty set.
func Combine(m1, m2 MassFunction, normalize bool) (MassFunction, error) {
	var out MassFunction

	for a := Set(0); a < NumSets; a++ {
		if m1.m[a] == 0 {
			continue
		}
		for b := Set(0); b < NumSets; b++ {
			if m2.m[b] == 0 {
				continue
			}
			out.m[a&b] += m1.m[a] * m2.m[b]
		}
	}

	if normalize {
		return out.Normalize()
	}

	return out, nil
}

// CombineAll folds Combine over ms. Normalization, if requested, happens once
// at the end, which gives the same result as normalizing after every step.
func CombineAll(normalize bool, ms ...MassFunction) (MassFunction, error) {
	if len(ms) == 0 {
		return MassFunction{}, fmt.Errorf("%w: nothing to combine", ErrEmptyFrame)
	}

	out := ms[0]
	for _, m := range ms[1:] {
		out, _ = Combine(out, m, false)
	}

	if normalize {
		return out.Normalize()
	}

	return out, nil
}
