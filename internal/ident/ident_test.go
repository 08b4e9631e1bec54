package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kmarkov/internal/kmer"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"int64", int64(-100), "-100"},
		{"bool", true, "true"},
		{"empty array", []any{}, "[]"},
		{"strings", []string{"b", "a"}, `["b","a"]`},
		{"object", map[string]any{"b": 1, "a": "x"}, `{"a":"x","b":1}`},
		{"no html escaping", "<A&C>", `"<A&C>"`},
		{"separator", "a\u2028b", "\"a\u2028b\""},
		{"escaped backslash", `\u2028`, `"\\u2028"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalCanonicalCounts(t *testing.T) {
	c := kmer.Counts{"^A": 1, "AC": 2, "A$": 3}
	got, err := MarshalCanonical(c)
	require.NoError(t, err)
	assert.Equal(t, `{"A$":3,"AC":2,"^A":1}`, string(got))
}

func TestMarshalCanonicalRejects(t *testing.T) {
	_, err := MarshalCanonical(1.5)
	assert.ErrorContains(t, err, "floats are forbidden")

	_, err = MarshalCanonical(map[string]any{"x": nil})
	assert.ErrorContains(t, err, "null is forbidden")

	_, err = MarshalCanonical(struct{}{})
	assert.ErrorContains(t, err, "unsupported type")
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute normalises to the precomposed form.
	decomposed, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	precomposed, err := MarshalCanonical("\u00e9")
	require.NoError(t, err)
	assert.Equal(t, precomposed, decomposed)
}

func TestTableIDDeterminism(t *testing.T) {
	counts := kmer.Counts{"AA": 4, "AC": 2}

	id1, err := TableID(2, "AC", 1, counts)
	require.NoError(t, err)
	id2, err := TableID(2, "AC", 1, kmer.Counts{"AC": 2, "AA": 4})
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "TableID must not depend on map order")
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestTableIDChangesWithInput(t *testing.T) {
	counts := kmer.Counts{"AA": 4}

	base := MustTableID(2, "AC", 1, counts)
	assert.NotEqual(t, base, MustTableID(3, "AC", 1, counts), "order")
	assert.NotEqual(t, base, MustTableID(2, "ACG", 1, counts), "alphabet")
	assert.NotEqual(t, base, MustTableID(2, "AC", 2, counts), "pseudocount")
	assert.NotEqual(t, base, MustTableID(2, "AC", 1, kmer.Counts{"AA": 5}), "counts")
}

func TestModelID(t *testing.T) {
	table := MustTableID(2, "AC", 1, kmer.Counts{"AA": 4})

	m1, err := ModelID(table, 6)
	require.NoError(t, err)
	m2, err := ModelID(table, 6)
	require.NoError(t, err)
	m3, err := ModelID(table, 3)
	require.NoError(t, err)

	assert.Equal(t, m1, m2)
	assert.NotEqual(t, m1, m3)
	assert.NotEqual(t, table, m1, "domain separation")
}
