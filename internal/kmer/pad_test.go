package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPad(t *testing.T) {
	tests := []struct {
		seq   string
		order int
		want  string
	}{
		{"ACGT", 1, "ACGT$"},
		{"ACGT", 2, "^ACGT$"},
		{"ACGT", 3, "^^ACGT$$"},
		{"A", 4, "^^^A$$$"},
		{"", 2, "^$"},
	}
	for _, tt := range tests {
		got, err := Pad(tt.seq, tt.order)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestPad_Length(t *testing.T) {
	seq := "GATTACA"
	for n := 1; n <= 8; n++ {
		got, err := Pad(seq, n)
		require.NoError(t, err)
		if n == 1 {
			assert.Len(t, got, len(seq)+1)
		} else {
			assert.Len(t, got, len(seq)+2*(n-1))
		}
	}
}

func TestPad_RejectsOrder0(t *testing.T) {
	_, err := Pad("ACGT", 0)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}
