// Package ovo turns one-vs-one pairwise decision values into a single class
// prediction per instance.
//
// A decision matrix for n classes has one row per instance and n(n-1)/2
// columns, one per class pair (i, j) with i < j, in lexicographic order:
// (0,1), (0,2), ..., (0,n-1), (1,2), ... A positive value favors the first
// class of the pair.
package ovo

import (
	"github.com/BenLubar/memoize"
)

type pairTable struct {
	first  []int
	second []int
}

var memoizedPairTable = memoize.Memoize(buildPairTable)

func buildPairTable(n int) pairTable {
	out := pairTable{
		first:  make([]int, 0, NumPairs(n)),
		second: make([]int, 0, NumPairs(n)),
	}

	for c1 := 0; c1 < n-1; c1++ {
		for c2 := c1 + 1; c2 < n; c2++ {
			out.first = append(out.first, c1)
			out.second = append(out.second, c2)
		}
	}

	return out
}

func pairs(n int) pairTable {
	return memoizedPairTable.(func(int) pairTable)(n)
}

// NumPairs is the number of unordered class pairs, n(n-1)/2.
func NumPairs(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// Pairs returns, for each decision column, the class favored by a positive
// value (first) and the class favored otherwise (second). The returned slices
// are copies and may be modified by the caller.
func Pairs(n int) (first, second []int) {
	if n < 2 {
		return nil, nil
	}

	t := pairs(n)

	first = append([]int(nil), t.first...)
	second = append([]int(nil), t.second...)

	return first, second
}

// Column returns the decision column of the pair (i, j). The order of i and j
// does not matter; -1 is returned for i == j or out-of-range classes.
func Column(n, i, j int) int {
	if i > j {
		i, j = j, i
	}
	if i == j || i < 0 || j >= n {
		return -1
	}

	// Columns before row i: sum over r < i of (n-1-r).
	return i*(2*n-i-1)/2 + (j - i - 1)
}
