// Package fusion combines per-class score matrices from several classifiers
// into one ensemble prediction per instance.
package fusion

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Rule selects how the K score vectors of an instance are combined.
type Rule int

const (
	Product Rule = iota
	Sum
	Min
	Max
	// Rank adds each class's ascending rank position (0 for the lowest
	// score) within every ensemble member, Borda-count style.
	Rank
)

var (
	ErrShape       = errors.New("fusion: ensemble members do not share a shape")
	ErrUnknownRule = errors.New("fusion: unknown combination rule")
)

var ruleNames = map[Rule]string{
	Product: "product",
	Sum:     "sum",
	Min:     "min",
	Max:     "max",
	Rank:    "rank",
}

// Rules lists every rule in declaration order.
var Rules = []Rule{Product, Sum, Min, Max, Rank}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// ParseRule maps a rule name to its Rule. "prod", "minimum" and "maximum"
// are accepted as aliases.
func ParseRule(name string) (Rule, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "prod":
		return Product, nil
	case "minimum":
		return Min, nil
	case "maximum":
		return Max, nil
	}

	for r, n := range ruleNames {
		if n == name {
			return r, nil
		}
	}

	return 0, fmt.Errorf("%w %q (expected one of %s)", ErrUnknownRule, name, RuleNames())
}

// RuleNames lists the canonical rule names.
func RuleNames() string {
	names := make([]string, 0, len(ruleNames))
	for _, n := range ruleNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
