package ovo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairsOrder(t *testing.T) {
	first, second := Pairs(4)

	assert.Equal(t, []int{0, 0, 0, 1, 1, 2}, first)
	assert.Equal(t, []int{1, 2, 3, 2, 3, 3}, second)
}

func TestPairsAreCopies(t *testing.T) {
	first, _ := Pairs(3)
	first[0] = 99

	again, _ := Pairs(3)
	assert.Equal(t, 0, again[0])
}

func TestNumPairs(t *testing.T) {
	for n, want := range map[int]int{0: 0, 1: 0, 2: 1, 3: 3, 4: 6, 5: 10} {
		assert.Equal(t, want, NumPairs(n), "n=%d", n)
	}
}

func TestColumn(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 7} {
		first, second := Pairs(n)
		for col := range first {
			assert.Equal(t, col, Column(n, first[col], second[col]))
			assert.Equal(t, col, Column(n, second[col], first[col]))
		}
	}

	assert.Equal(t, -1, Column(4, 2, 2))
	assert.Equal(t, -1, Column(4, 0, 4))
	assert.Equal(t, -1, Column(4, -1, 2))
}

func TestParsePolicy(t *testing.T) {
	for name, want := range map[string]Policy{
		"binary":   Binary,
		"Sigmoid":  Sigmoid,
		" margin ": Margin,
		"centered": Centered,
	} {
		p, err := ParsePolicy(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, p)
	}

	_, err := ParsePolicy("plurality")
	assert.Error(t, err)

	assert.Equal(t, "sigmoid", Sigmoid.String())
	assert.Equal(t, "binary, centered, margin, sigmoid", PolicyNames())
}
