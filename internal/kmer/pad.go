package kmer

import (
	"fmt"
	"strings"
)

// Pad wraps seq in context markers for windows of length n.
//
// Order 1 gets a single trailing stop marker and no start marker: an
// unconditioned model has no left context, only the end of the sequence.
// Order n >= 2 gets n-1 start markers and n-1 stop markers. Order 0 has no
// windows and is rejected.
func Pad(seq string, n int) (string, error) {
	switch {
	case n < 1:
		return "", fmt.Errorf("pad: %w: %d", ErrInvalidOrder, n)
	case n == 1:
		return seq + string(Stop), nil
	}

	var b strings.Builder
	b.Grow(len(seq) + 2*(n-1))
	for i := 0; i < n-1; i++ {
		b.WriteByte(Start)
	}
	b.WriteString(seq)
	for i := 0; i < n-1; i++ {
		b.WriteByte(Stop)
	}
	return b.String(), nil
}
