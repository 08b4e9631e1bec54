package kmer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext(t *testing.T) {
	ctx, err := Context("ACG", 3)
	require.NoError(t, err)
	assert.Equal(t, "AC", ctx)

	ctx, err = Context("A", 1)
	require.NoError(t, err)
	assert.Equal(t, "", ctx)

	ctx, err = Context("^", 0)
	require.NoError(t, err)
	assert.Equal(t, "", ctx)

	_, err = Context("A", 3)
	var ke *KeyLengthError
	require.ErrorAs(t, err, &ke)
	assert.Equal(t, 3, ke.Order)
}

func TestGroups_KeyOnPerKeyContext(t *testing.T) {
	c := Counts{"CC": 5, "AA": 4, "CA": 3, "AC": 2}

	groups, err := Groups(c, 2)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, Group{Context: "A", Kmers: []string{"AA", "AC"}, Total: 6}, groups[0])
	assert.Equal(t, Group{Context: "C", Kmers: []string{"CA", "CC"}, Total: 8}, groups[1])
}

func TestEstimate_Scenario(t *testing.T) {
	c := Counts{"AA": 4, "AC": 2, "CA": 3, "CC": 5}

	bits, err := Estimate(c, 2)
	require.NoError(t, err)
	require.Len(t, bits, 4)

	assert.InDelta(t, -math.Log2(4.0/6.0), bits["AA"], 1e-12)
	assert.InDelta(t, 0.585, bits["AA"], 1e-3)
	assert.InDelta(t, -math.Log2(2.0/6.0), bits["AC"], 1e-12)
	assert.InDelta(t, -math.Log2(3.0/8.0), bits["CA"], 1e-12)
	assert.InDelta(t, 4.0/6.0, bits.Probability("AA"), 1e-12)
}

func TestEstimate_Normalisation(t *testing.T) {
	c, err := NewCounter(3, "ACGT")
	require.NoError(t, err)
	for _, seq := range []string{"GATTACA", "ACGTACGTTT", "CCCGGG", "T"} {
		require.NoError(t, c.Add(seq))
	}
	smoothed, err := Inject(c.Counts(), 1, 3, "ACGT", 0)
	require.NoError(t, err)

	bits, err := Estimate(smoothed, 3)
	require.NoError(t, err)
	assert.Len(t, bits, len(smoothed))

	groups, err := Groups(smoothed, 3)
	require.NoError(t, err)
	for _, g := range groups {
		var sum float64
		for _, k := range g.Kmers {
			sum += math.Exp2(-bits[k])
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "context %q", g.Context)
	}
}

func TestEstimate_Order0(t *testing.T) {
	smoothed, err := Inject(nil, 1, 0, "ACGT", 0)
	require.NoError(t, err)

	bits, err := Estimate(smoothed, 0)
	require.NoError(t, err)
	assert.Equal(t, CodeLengths{"^": 1, "$": 1}, bits)
}

func TestEstimate_SingleMemberGroup(t *testing.T) {
	bits, err := Estimate(Counts{"AG": 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, bits["AG"])
	assert.False(t, math.Signbit(bits["AG"]))
}

func TestEstimate_EmptyTable(t *testing.T) {
	bits, err := Estimate(Counts{}, 3)
	require.NoError(t, err)
	assert.Empty(t, bits)
}

func TestEstimate_ZeroCount(t *testing.T) {
	_, err := Estimate(Counts{"AA": 0, "AC": 3}, 2)
	require.Error(t, err)

	var pe *ProbabilityError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "AA", pe.Kmer)
	assert.Equal(t, "A", pe.Context)
	assert.Equal(t, int64(3), pe.Total)
}

func TestEstimate_ZeroGroup(t *testing.T) {
	_, err := Estimate(Counts{"CA": 0, "CC": 0}, 2)
	require.Error(t, err)
	assert.True(t, IsProbabilityError(err))

	var pe *ProbabilityError
	require.ErrorAs(t, err, &pe)
	assert.Empty(t, pe.Kmer)
	assert.Equal(t, "C", pe.Context)
}

func TestEstimate_ShortKey(t *testing.T) {
	_, err := Estimate(Counts{"A": 1, "ACG": 1}, 3)
	var ke *KeyLengthError
	require.ErrorAs(t, err, &ke)
	assert.Equal(t, "A", ke.Kmer)
}

func TestEstimate_InvalidOrder(t *testing.T) {
	_, err := Estimate(Counts{"A": 1}, -1)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}
