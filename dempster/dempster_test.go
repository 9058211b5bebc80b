package dempster

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-8

func mustParse(t *testing.T, text string) Set {
	t.Helper()
	s, err := ParseSet(text)
	require.NoError(t, err)
	return s
}

func mustNew(t *testing.T, masses map[string]float64) MassFunction {
	t.Helper()
	in := make(map[Set]float64, len(masses))
	for k, v := range masses {
		in[mustParse(t, k)] += v
	}
	mf, err := New(in)
	require.NoError(t, err)
	return mf
}

func fixtures(t *testing.T) (m1, m2, m3 MassFunction) {
	m1 = mustNew(t, map[string]float64{"a": 0.4, "b": 0.2, "ad": 0.1, "abcd": 0.3})
	m2 = mustNew(t, map[string]float64{"b": 0.5, "c": 0.2, "ac": 0.3, "a": 0.0})
	m3 = mustNew(t, map[string]float64{"{}": 0.4, "c": 0.2, "ac": 0.3, "ab": 0.1})
	return
}

func assertSameMass(t *testing.T, want, got MassFunction) {
	t.Helper()
	for s := Set(0); s < NumSets; s++ {
		assert.InDelta(t, want.Mass(s), got.Mass(s), tol, s.String())
	}
}

func TestParseSet(t *testing.T) {
	for text, want := range map[string]Set{
		"":     Empty,
		"{}":   Empty,
		"a":    N,
		"N":    N,
		"ac":   N | V,
		"VN":   N | V,
		"abcd": Frame,
		"nsvf": Frame,
	} {
		got, err := ParseSet(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}

	_, err := ParseSet("x")
	assert.Error(t, err)

	assert.Equal(t, "NV", (N | V).String())
	assert.Equal(t, "{}", Empty.String())
	assert.Equal(t, []int{1, 3}, (S | F).Members())
	assert.Equal(t, 3, (N | S | F).Len())
	assert.True(t, N.SubsetOf(N|V))
	assert.False(t, (N | S).SubsetOf(N|V))
}

func TestBelief(t *testing.T) {
	m1, _, m3 := fixtures(t)

	assert.InDelta(t, 0.4, m1.Belief(mustParse(t, "a")), tol)
	assert.InDelta(t, 0.5, m1.Belief(mustParse(t, "ad")), tol)
	assert.InDelta(t, 1.0, m1.Belief(Frame), tol)

	assert.InDelta(t, 0.0, m3.Belief(Empty), tol)
	assert.InDelta(t, 0.0, m3.Belief(mustParse(t, "a")), tol)
	assert.InDelta(t, 0.5, m3.Belief(mustParse(t, "ac")), tol)
	assert.InDelta(t, 0.6, m3.Belief(mustParse(t, "abc")), tol)
}

func TestPlausibility(t *testing.T) {
	m1, _, m3 := fixtures(t)

	assert.InDelta(t, 0.8, m1.Plausibility(mustParse(t, "a")), tol)
	assert.InDelta(t, 0.5, m1.Plausibility(mustParse(t, "b")), tol)
	assert.InDelta(t, 0.8, m1.Plausibility(mustParse(t, "ad")), tol)
	assert.InDelta(t, 1.0, m1.Plausibility(Frame), tol)

	assert.InDelta(t, 0.0, m3.Plausibility(Empty), tol)
	assert.InDelta(t, 0.1, m3.Plausibility(mustParse(t, "b")), tol)
}

func TestFocalAndCore(t *testing.T) {
	_, m2, m3 := fixtures(t)

	// The zero-mass "a" is not focal.
	assert.Equal(t, []Set{S, V, N | V}, m2.Focal())
	assert.Equal(t, N|S|V, m2.Core())

	// Conflict is never focal.
	assert.Equal(t, []Set{N | S, V, N | V}, m3.Focal())
	assert.InDelta(t, 0.4, m3.Conflict(), tol)
	assert.InDelta(t, 1.0, m3.Total(), tol)
}

func TestCombineNormalized(t *testing.T) {
	m1, m2, _ := fixtures(t)

	got, err := Combine(m1, m2, true)
	require.NoError(t, err)

	assert.InDelta(t, 0.15/0.55, got.Mass(mustParse(t, "a")), tol)
	assert.InDelta(t, 0.25/0.55, got.Mass(mustParse(t, "b")), tol)
	assert.InDelta(t, 0.06/0.55, got.Mass(mustParse(t, "c")), tol)
	assert.InDelta(t, 0.09/0.55, got.Mass(mustParse(t, "ac")), tol)
	assert.InDelta(t, 0.0, got.Conflict(), tol)
	assert.InDelta(t, 1.0, got.Total(), tol)
}

func TestCombineUnnormalized(t *testing.T) {
	m1, m2, _ := fixtures(t)

	got, err := Combine(m1, m2, false)
	require.NoError(t, err)

	assert.InDelta(t, 0.45, got.Conflict(), tol)
	assert.InDelta(t, 0.15, got.Mass(mustParse(t, "a")), tol)
	assert.InDelta(t, 0.25, got.Mass(mustParse(t, "b")), tol)
	assert.InDelta(t, 0.06, got.Mass(mustParse(t, "c")), tol)
	assert.InDelta(t, 0.09, got.Mass(mustParse(t, "ac")), tol)
	assert.InDelta(t, 1.0, got.Total(), tol)
}

func TestCombineAllMatchesStepwise(t *testing.T) {
	m1, m2, _ := fixtures(t)

	step, err := Combine(m1, m1, true)
	require.NoError(t, err)
	step, err = Combine(step, m2, true)
	require.NoError(t, err)

	all, err := CombineAll(true, m1, m1, m2)
	require.NoError(t, err)

	assertSameMass(t, step, all)

	_, err = CombineAll(true)
	assert.True(t, errors.Is(err, ErrEmptyFrame))
}

func randomMass(t *testing.T, rng *rand.Rand) MassFunction {
	masses := make(map[Set]float64)
	total := 0.0
	for i := 0; i < 4; i++ {
		s := Set(1 + rng.Intn(NumSets-1))
		v := rng.Float64()
		masses[s] += v
		total += v
	}
	for s := range masses {
		masses[s] /= total
	}

	mf, err := New(masses)
	require.NoError(t, err)
	return mf
}

func TestCombineCommutativeAssociative(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 50; i++ {
		a, b, c := randomMass(t, rng), randomMass(t, rng), randomMass(t, rng)

		ab, _ := Combine(a, b, false)
		ba, _ := Combine(b, a, false)
		assertSameMass(t, ab, ba)

		left, _ := Combine(ab, c, false)
		bc, _ := Combine(b, c, false)
		right, _ := Combine(a, bc, false)
		assertSameMass(t, left, right)
	}
}

func TestPignistic(t *testing.T) {
	m1, _, m3 := fixtures(t)

	p1, err := m1.Pignistic()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.525, 0.275, 0.075, 0.125}, p1[:], tol)

	p3, err := m3.Pignistic()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.2 / 0.6, 0.05 / 0.6, 0.35 / 0.6, 0}, p3[:], tol)

	d, err := m3.Decide()
	require.NoError(t, err)
	assert.Equal(t, 2, d)
}

func TestPignisticSumsToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 50; i++ {
		p, err := randomMass(t, rng).Pignistic()
		require.NoError(t, err)
		assert.InDelta(t, 1.0, p[0]+p[1]+p[2]+p[3], tol)
	}
}

func TestTotalConflict(t *testing.T) {
	a, err := FromSingletons([]float64{1, 0, 0, 0})
	require.NoError(t, err)
	b, err := FromSingletons([]float64{0, 1, 0, 0})
	require.NoError(t, err)

	_, err = Combine(a, b, true)
	assert.True(t, errors.Is(err, ErrTotalConflict))

	raw, err := Combine(a, b, false)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, raw.Conflict(), tol)

	_, err = raw.Decide()
	assert.True(t, errors.Is(err, ErrTotalConflict))
}

func TestInvalidMass(t *testing.T) {
	for name, values := range map[string][]float64{
		"negative": {0.5, -0.1, 0.2, 0.1},
		"over one": {0.5, 0.4, 0.2, 0.1},
		"nan":      {math.NaN(), 0, 0, 0},
		"inf":      {math.Inf(1), 0, 0, 0},
		"too many": {0.2, 0.2, 0.2, 0.2, 0.2},
	} {
		_, err := FromSingletons(values)
		assert.True(t, errors.Is(err, ErrInvalidMass), name)
	}

	_, err := FromSingletons([]float64{0, 0, 0, 0})
	assert.True(t, errors.Is(err, ErrEmptyFrame))

	_, err = New(map[Set]float64{Set(0x10): 0.5})
	assert.True(t, errors.Is(err, ErrInvalidMass))

	// Rounding just above 1 is tolerated.
	_, err = FromSingletons([]float64{0.1, 0.2, 0.3, 0.4 + 1e-12})
	assert.NoError(t, err)
}

func TestFromRowsReportsInstance(t *testing.T) {
	_, err := FromRows([][]float64{
		{0.25, 0.25, 0.25, 0.25},
		{0.9, 0.9, 0, 0},
	})

	var ie *InstanceError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 1, ie.Index)
	assert.True(t, errors.Is(err, ErrInvalidMass))
}

func TestFuseBatch(t *testing.T) {
	mlii, err := FromRows([][]float64{
		{0.7, 0.1, 0.1, 0.1},
		{0.1, 0.6, 0.2, 0.1},
		{1, 0, 0, 0},
	})
	require.NoError(t, err)
	rr, err := FromRows([][]float64{
		{0.6, 0.2, 0.1, 0.1},
		{0.2, 0.3, 0.4, 0.1},
		{0, 1, 0, 0},
	})
	require.NoError(t, err)

	_, err = FuseBatch(context.Background(), [][]MassFunction{mlii, rr}, Options{Workers: 2})
	var ie *InstanceError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 2, ie.Index)
	assert.True(t, errors.Is(err, ErrTotalConflict))

	b, err := FuseBatch(context.Background(), [][]MassFunction{mlii, rr}, Options{SkipConflict: true, Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, -1}, b.Decisions)
	assert.Equal(t, 1, b.Skipped)
	assert.InDelta(t, 1-(0.42+0.02+0.01+0.01), b.Conflict[0], tol)
	assert.InDelta(t, 1.0, b.Conflict[2], tol)

	_, err = FuseBatch(context.Background(), [][]MassFunction{mlii, rr[:2]}, Options{})
	assert.Error(t, err)

	_, err = FuseBatch(context.Background(), nil, Options{})
	assert.True(t, errors.Is(err, ErrEmptyFrame))
}

func TestConflictStats(t *testing.T) {
	s := ConflictStats([]float64{0.2, 0.4, 0.6, 1})

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 0.55, s.Mean, tol)
	assert.InDelta(t, 0.3415650255, s.SD, 1e-8)
	assert.Equal(t, 1.0, s.Max)
	assert.Equal(t, 1, s.Total)

	assert.Equal(t, ConflictSummary{}, ConflictStats(nil))
}
