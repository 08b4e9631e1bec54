package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlphabet_SortsAndDeduplicates(t *testing.T) {
	a, err := NewAlphabet("TGCAACGT")
	require.NoError(t, err)
	assert.Equal(t, Alphabet("ACGT"), a)
	assert.Equal(t, 4, a.Len())
	assert.True(t, a.Contains('G'))
	assert.False(t, a.Contains('N'))
}

func TestNewAlphabet_RejectsMarkers(t *testing.T) {
	for _, symbols := range []string{"AC^", "$ACGT"} {
		t.Run(symbols, func(t *testing.T) {
			_, err := NewAlphabet(symbols)
			require.Error(t, err)

			var ae *AlphabetError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, "reserved context marker", ae.Reason)
		})
	}
}

func TestNewAlphabet_RejectsWhitespace(t *testing.T) {
	_, err := NewAlphabet("A C")
	var ae *AlphabetError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, byte(' '), ae.Symbol)
}

func TestNewAlphabet_Empty(t *testing.T) {
	a, err := NewAlphabet("")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Len())
}

func TestInferAlphabet_SkipsMarkers(t *testing.T) {
	c := Counts{"^AC": 1, "CG$": 2, "GGA": 3}
	assert.Equal(t, Alphabet("ACG"), InferAlphabet(c))
}

func TestInferAlphabet_EmptyTable(t *testing.T) {
	assert.Equal(t, Alphabet(""), InferAlphabet(Counts{}))
	assert.Equal(t, Alphabet(""), InferAlphabet(nil))
}

func TestInferAlphabet_ProteinSymbols(t *testing.T) {
	c := Counts{"MK": 1, "KW": 1, "WY": 1}
	assert.Equal(t, Alphabet("KMWY"), InferAlphabet(c))
}
