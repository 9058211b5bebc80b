package ovo

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Policy selects how a pairwise decision value is turned into votes for the
// two classes of the pair.
type Policy int

const (
	// Binary gives one full vote to the first class when the value is
	// positive and to the second class otherwise. A value of exactly zero
	// goes to the second class, so no pair ever abstains.
	Binary Policy = iota

	// Sigmoid gives sigmoid(v) to the first class and sigmoid(-v) to the
	// second. Each pair hands out exactly one unit of vote.
	Sigmoid

	// Margin adds v to the first class and subtracts v from the second.
	Margin

	// Centered is meant for probability-valued pair scores p in [0, 1]: the
	// first class gets p-0.5 and the second 0.5-p. A score of exactly zero is
	// treated as missing and skipped.
	Centered
)

var policyNames = map[string]Policy{
	"binary":   Binary,
	"sigmoid":  Sigmoid,
	"margin":   Margin,
	"centered": Centered,
}

func (p Policy) String() string {
	for name, v := range policyNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps a policy name (binary, sigmoid, margin, centered) to its
// Policy.
func ParsePolicy(name string) (Policy, error) {
	p, ok := policyNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown voting policy %q (expected one of %s)", name, PolicyNames())
	}
	return p, nil
}

// PolicyNames lists the accepted policy names.
func PolicyNames() string {
	names := make([]string, 0, len(policyNames))
	for name := range policyNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// SigmoidValue is the logistic function 1/(1+exp(-v)).
func SigmoidValue(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

// votes returns what one decision value contributes to the first and second
// class of its pair. skip is true when the value should not contribute.
func (p Policy) votes(v float64) (first, second float64, skip bool) {
	switch p {
	case Binary:
		if v > 0 {
			return 1, 0, false
		}
		return 0, 1, false
	case Sigmoid:
		return SigmoidValue(v), SigmoidValue(-v), false
	case Margin:
		return v, -v, false
	case Centered:
		if v == 0 {
			return 0, 0, true
		}
		return v - 0.5, 0.5 - v, false
	}
	return 0, 0, true
}

func (p Policy) valid() bool {
	return p >= Binary && p <= Centered
}
