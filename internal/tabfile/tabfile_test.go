package tabfile

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kmarkov/internal/kmer"
)

func TestReadCounts(t *testing.T) {
	input := "AA 3\nAC\t1\n\nCA   2\nCC 4\n"

	counts, order, err := ReadCounts(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, order)
	assert.Equal(t, kmer.Counts{"AA": 3, "AC": 1, "CA": 2, "CC": 4}, counts)
}

func TestReadCounts_OrderFromLastLine(t *testing.T) {
	_, order, err := ReadCounts(strings.NewReader("A 1\nACG 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, order)
}

func TestReadCounts_Empty(t *testing.T) {
	counts, order, err := ReadCounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, order)
	assert.Empty(t, counts)
}

func TestReadCounts_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		reason string
	}{
		{"one field", "AA 1\nAC\n", 2, "expected 2 fields, got 1"},
		{"three fields", "AA 1 2\n", 1, "expected 2 fields, got 3"},
		{"float count", "AA 1.5\n", 1, "count is not an integer"},
		{"negative", "AA -1\n", 1, "count is negative"},
		{"duplicate", "AA 1\nAC 1\nAA 2\n", 3, "duplicate k-mer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts, _, err := ReadCounts(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, counts, "no partial result on failure")

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.reason, pe.Reason)
			assert.True(t, IsParseError(err))
		})
	}
}

func TestWriteCounts_Sorted(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCounts(&buf, kmer.Counts{"CC": 5, "^A": 1, "AA": 4, "A$": 1})
	require.NoError(t, err)
	assert.Equal(t, "A$\t1\nAA\t4\nCC\t5\n^A\t1\n", buf.String())
}

func TestWriteCodeLengths(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCodeLengths(&buf, kmer.CodeLengths{"AC": 1.5849625007, "AA": 0.5849625007}, 4)
	require.NoError(t, err)
	assert.Equal(t, "AA\t0.5850\nAC\t1.5850\n", buf.String())
}

func TestCountsFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.txt")
	want := kmer.Counts{"^^A": 2, "ACG": 7, "G$$": 1}

	err := WriteFile(path, func(w io.Writer) error { return WriteCounts(w, want) })
	require.NoError(t, err)

	got, order, err := ReadCountsFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, order)
	assert.Equal(t, want, got)
}

func TestReadCountsFile_Missing(t *testing.T) {
	_, _, err := ReadCountsFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open table")
}
