// Package aami scores heartbeat classifiers following the AAMI recommended
// practice: a fixed four-class confusion matrix (N, SVEB, VEB, F) and the
// per-class and aggregate measures derived from it, including the V/F
// exemption, Cohen's kappa and the Ij / Ijk indices.
package aami

import "fmt"

// Class is an AAMI heartbeat class.
type Class int

const (
	N Class = iota // Normal
	S              // Supraventricular ectopic (SVEB)
	V              // Ventricular ectopic (VEB)
	F              // Fusion
	Q              // Unknown. Defined but never scored.
)

// NumClasses is the number of classes that take part in scoring. Q is
// excluded.
const NumClasses = 4

// Classes lists the scored classes in index order.
var Classes = [NumClasses]Class{N, S, V, F}

// Scored reports whether c is one of the four scored classes.
func (c Class) Scored() bool {
	return c >= N && c <= F
}

// Letter is the one-letter AAMI code.
func (c Class) Letter() string {
	switch c {
	case N:
		return "N"
	case S:
		return "S"
	case V:
		return "V"
	case F:
		return "F"
	case Q:
		return "Q"
	}
	return fmt.Sprintf("?%d", int(c))
}

// String is the name used in AAMI reports.
func (c Class) String() string {
	switch c {
	case S:
		return "SVEB"
	case V:
		return "VEB"
	}
	return c.Letter()
}

// ParseClass accepts either the letter code or the report name.
func ParseClass(s string) (Class, error) {
	switch s {
	case "N":
		return N, nil
	case "S", "SVEB":
		return S, nil
	case "V", "VEB":
		return V, nil
	case "F":
		return F, nil
	case "Q":
		return Q, nil
	}
	return 0, fmt.Errorf("unknown AAMI class %q", s)
}
