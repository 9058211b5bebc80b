// Package dempster implements Dempster-Shafer evidence combination over the
// four-class AAMI hypothesis frame {N, S, V, F}.
//
// A hypothesis set is a 4-bit mask, so a mass function is a fixed array of 16
// masses indexed by Set. Bit k stands for class k.
package dempster

import (
	"fmt"
	"math/bits"
	"strings"
)

// FrameSize is the number of singleton hypotheses.
const FrameSize = 4

// NumSets is the number of subsets of the frame, including the empty set.
const NumSets = 1 << FrameSize

// Set is a subset of the frame.
type Set uint8

const (
	Empty Set = 0
	N     Set = 1 << 0
	S     Set = 1 << 1
	V     Set = 1 << 2
	F     Set = 1 << 3
	Frame Set = N | S | V | F
)

const letters = "NSVF"

// Singleton returns the set holding only class k.
func Singleton(k int) Set {
	return Set(1 << uint(k))
}

// Len is the number of singletons in s.
func (s Set) Len() int {
	return bits.OnesCount8(uint8(s))
}

// Contains reports whether class k is in s.
func (s Set) Contains(k int) bool {
	return k >= 0 && k < FrameSize && s&Singleton(k) != 0
}

// SubsetOf reports whether every member of s is in t.
func (s Set) SubsetOf(t Set) bool {
	return s&^t == 0
}

// Members lists the class indices in s in ascending order.
func (s Set) Members() []int {
	out := make([]int, 0, s.Len())
	for k := 0; k < FrameSize; k++ {
		if s.Contains(k) {
			out = append(out, k)
		}
	}
	return out
}

func (s Set) valid() bool {
	return s&^Frame == 0
}

func (s Set) String() string {
	if s == Empty {
		return "{}"
	}

	var sb strings.Builder
	for k := 0; k < FrameSize; k++ {
		if s.Contains(k) {
			sb.WriteByte(letters[k])
		}
	}
	return sb.String()
}

// ParseSet reads a set written as class letters, either "NSVF" or the
// positional "abcd" (a=N, b=S, c=V, d=F), in any case and order. "" and "{}"
// are the empty set.
func ParseSet(text string) (Set, error) {
	var out Set

	text = strings.TrimSpace(text)
	if text == "{}" {
		return Empty, nil
	}

	for _, r := range strings.ToLower(text) {
		switch r {
		case 'n', 'a':
			out |= N
		case 's', 'b':
			out |= S
		case 'v', 'c':
			out |= V
		case 'f', 'd':
			out |= F
		default:
			return Empty, fmt.Errorf("dempster: unknown hypothesis %q in %q", r, text)
		}
	}

	return out, nil
}
