package ovo

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const tol = 1e-8

func TestBinaryAllFirst(t *testing.T) {
	d := mat.NewDense(1, 6, []float64{1, 1, 1, 1, 1, 1})

	res, err := Vote(d, 4, Binary)
	require.NoError(t, err)

	assert.Equal(t, []int{0}, res.Predictions)
	assert.Equal(t, []float64{3, 2, 1, 0}, res.Votes.RawRowView(0))
}

func TestBinaryAllSecond(t *testing.T) {
	d := mat.NewDense(1, 6, []float64{-1, -1, -1, -1, -1, -1})

	res, err := Vote(d, 4, Binary)
	require.NoError(t, err)

	assert.Equal(t, []int{3}, res.Predictions)
	assert.Equal(t, []float64{0, 1, 2, 3}, res.Votes.RawRowView(0))
}

func TestBinaryZeroGoesToSecond(t *testing.T) {
	d := mat.NewDense(1, 1, []float64{0})

	res, err := Vote(d, 2, Binary)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, res.Predictions)
	assert.Equal(t, []float64{0, 1}, res.Votes.RawRowView(0))
}

func TestFirstMaxWins(t *testing.T) {
	// Pairs (0,1), (0,2), (1,2): class 0 beats 1, 2 beats 0, 1 beats 2.
	d := mat.NewDense(1, 3, []float64{1, -1, 1})

	res, err := Vote(d, 3, Binary)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1, 1}, res.Votes.RawRowView(0))
	assert.Equal(t, []int{0}, res.Predictions)
}

func TestSigmoidConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	n := 4
	rows := 50
	data := make([]float64, rows*NumPairs(n))
	for i := range data {
		data[i] = rng.NormFloat64() * 3
	}
	d := mat.NewDense(rows, NumPairs(n), data)

	res, err := Vote(d, n, Sigmoid)
	require.NoError(t, err)

	// Every pair hands out exactly one unit.
	for i := 0; i < rows; i++ {
		assert.InDelta(t, float64(NumPairs(n)), floats.Sum(res.Votes.RawRowView(i)), tol)
	}

	for _, v := range data {
		assert.InDelta(t, 1.0, SigmoidValue(v)+SigmoidValue(-v), tol)
	}
}

func TestSigmoidZero(t *testing.T) {
	d := mat.NewDense(1, 1, []float64{0})

	res, err := Vote(d, 2, Sigmoid)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, res.Votes.At(0, 0), tol)
	assert.InDelta(t, 0.5, res.Votes.At(0, 1), tol)
	assert.Equal(t, []int{0}, res.Predictions)
}

func TestMargin(t *testing.T) {
	d := mat.NewDense(2, 3, []float64{
		2, -0.5, 1,
		-3, 0, 0.25,
	})

	res, err := Vote(d, 3, Margin)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{1.5, -1, -0.5}, res.Votes.RawRowView(0), tol)
	assert.InDeltaSlice(t, []float64{-3, 3.25, -0.25}, res.Votes.RawRowView(1), tol)
	assert.Equal(t, []int{0, 1}, res.Predictions)

	// Margins are zero-sum.
	for i := 0; i < 2; i++ {
		assert.InDelta(t, 0, floats.Sum(res.Votes.RawRowView(i)), tol)
	}
}

func TestCentered(t *testing.T) {
	d := mat.NewDense(1, 3, []float64{0.9, 0, 0.2})

	res, err := Vote(d, 3, Centered)
	require.NoError(t, err)

	// The zero column (0,2) is skipped.
	assert.InDeltaSlice(t, []float64{0.4, -0.4 - 0.3, 0.3}, res.Votes.RawRowView(0), tol)
	assert.Equal(t, []int{0}, res.Predictions)
}

func TestShapeErrors(t *testing.T) {
	for _, v := range []struct {
		cols, n int
	}{
		{cols: 5, n: 4},
		{cols: 7, n: 4},
		{cols: 6, n: 3},
		{cols: 1, n: 1},
		{cols: 0, n: 0},
	} {
		cols := v.cols
		if cols == 0 {
			cols = 1
		}
		d := mat.NewDense(2, cols, nil)
		_, err := Vote(d, v.n, Binary)
		require.Error(t, err, "n=%d cols=%d", v.n, v.cols)
		assert.True(t, errors.Is(err, ErrShape))

		_, err = VoteParallel(context.Background(), d, v.n, Binary, 2)
		assert.True(t, errors.Is(err, ErrShape))
	}
}

func TestInvalidPolicy(t *testing.T) {
	d := mat.NewDense(1, 1, []float64{1})

	_, err := Vote(d, 2, Policy(42))
	assert.Error(t, err)
}

func TestParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	n := 5
	rows := 5000
	data := make([]float64, rows*NumPairs(n))
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	d := mat.NewDense(rows, NumPairs(n), data)

	for _, p := range []Policy{Binary, Sigmoid, Margin, Centered} {
		seq, err := Vote(d, n, p)
		require.NoError(t, err)

		par, err := VoteParallel(context.Background(), d, n, p, 4)
		require.NoError(t, err)

		assert.Equal(t, seq.Predictions, par.Predictions, p.String())
		assert.True(t, mat.Equal(seq.Votes, par.Votes), p.String())
	}
}

func TestParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := mat.NewDense(10, 6, nil)
	_, err := VoteParallel(ctx, d, 4, Binary, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChunks(t *testing.T) {
	assert.Nil(t, Chunks(0, 4, 1))
	assert.Equal(t, []Chunk{{0, 3}, {3, 6}, {6, 7}}, Chunks(7, 3, 1))
	assert.Equal(t, []Chunk{{0, 7}}, Chunks(7, 3, 100))
	assert.Equal(t, []Chunk{{0, 10}}, Chunks(10, 0, 0))
}

func TestArgmax(t *testing.T) {
	s := mat.NewDense(3, 3, []float64{
		0, 2, 2,
		5, 1, 5,
		-1, -2, -0.5,
	})

	assert.Equal(t, []int{1, 0, 2}, Argmax(s, 3))
}
