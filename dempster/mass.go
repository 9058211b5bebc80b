package dempster

import (
	"errors"
	"fmt"
	"math"
)

// massTolerance is how far above 1 a total mass may drift from rounding.
const massTolerance = 1e-9

var (
	ErrInvalidMass   = errors.New("dempster: invalid mass")
	ErrTotalConflict = errors.New("dempster: total conflict, no mass on any non-empty hypothesis")
	ErrEmptyFrame    = errors.New("dempster: mass function assigns no mass")
)

// MassFunction assigns a non-negative mass to each subset of the frame. The
// total is at most 1; mass on the empty set is conflict. The zero value
// assigns no mass at all and is not accepted by New.
type MassFunction struct {
	m [NumSets]float64
}

// New builds a mass function from explicit assignments. Masses must be
// finite and non-negative, sets must lie within the frame, and the total must
// not exceed 1.
func New(masses map[Set]float64) (MassFunction, error) {
	var out MassFunction

	for s, v := range masses {
		if !s.valid() {
			return MassFunction{}, fmt.Errorf("%w: set %#x is outside the frame", ErrInvalidMass, uint8(s))
		}
		out.m[s] += v
	}

	if err := out.validate(); err != nil {
		return MassFunction{}, err
	}

	return out, nil
}

// FromSingletons assigns values[k] to the singleton of class k. At most
// FrameSize values are accepted.
func FromSingletons(values []float64) (MassFunction, error) {
	if len(values) > FrameSize {
		return MassFunction{}, fmt.Errorf("%w: %d values for a frame of %d", ErrInvalidMass, len(values), FrameSize)
	}

	var out MassFunction
	for k, v := range values {
		out.m[Singleton(k)] = v
	}

	if err := out.validate(); err != nil {
		return MassFunction{}, err
	}

	return out, nil
}

func (mf MassFunction) validate() error {
	total := 0.0
	for s, v := range mf.m {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %v on %s", ErrInvalidMass, v, Set(s))
		}
		total += v
	}

	if total > 1+massTolerance {
		return fmt.Errorf("%w: masses sum to %v", ErrInvalidMass, total)
	}
	if total == 0 {
		return ErrEmptyFrame
	}

	return nil
}

// Mass returns the mass assigned to exactly s.
func (mf MassFunction) Mass(s Set) float64 {
	if !s.valid() {
		return 0
	}
	return mf.m[s]
}

// Focal lists the non-empty sets with positive mass, in ascending mask order.
func (mf MassFunction) Focal() []Set {
	var out []Set
	for s := Set(1); s < NumSets; s++ {
		if mf.m[s] > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Core is the union of the focal sets.
func (mf MassFunction) Core() Set {
	var out Set
	for _, s := range mf.Focal() {
		out |= s
	}
	return out
}

// Belief is the total mass of the non-empty subsets of s.
func (mf MassFunction) Belief(s Set) float64 {
	out := 0.0
	for t := Set(1); t < NumSets; t++ {
		if t.SubsetOf(s) {
			out += mf.m[t]
		}
	}
	return out
}

// Plausibility is the total mass of the sets that intersect s.
func (mf MassFunction) Plausibility(s Set) float64 {
	out := 0.0
	for t := Set(1); t < NumSets; t++ {
		if t&s != 0 {
			out += mf.m[t]
		}
	}
	return out
}

// Conflict is the mass on the empty set.
func (mf MassFunction) Conflict() float64 {
	return mf.m[Empty]
}

// Total is the sum of all masses, conflict included.
func (mf MassFunction) Total() float64 {
	out := 0.0
	for _, v := range mf.m {
		out += v
	}
	return out
}

// Normalize drops the conflict and rescales the remaining masses to sum to 1.
func (mf MassFunction) Normalize() (MassFunction, error) {
	total := mf.Total() - mf.m[Empty]
	if total <= 0 {
		return MassFunction{}, ErrTotalConflict
	}

	var out MassFunction
	for s := Set(1); s < NumSets; s++ {
		out.m[s] = mf.m[s] / total
	}
	return out, nil
}

func (mf MassFunction) String() string {
	out := "{"
	for i, s := range mf.Focal() {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s:%g", s, mf.m[s])
	}
	if mf.m[Empty] > 0 {
		if len(out) > 1 {
			out += ", "
		}
		out += fmt.Sprintf("{}:%g", mf.m[Empty])
	}
	return out + "}"
}
