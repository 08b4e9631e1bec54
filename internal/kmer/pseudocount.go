package kmer

import "fmt"

// Inject returns a new table holding the union of observed and the smoothed
// space of order n over a, with pseudo added once to every key of that space.
// Observed keys outside the space are carried over unchanged.
//
// limit caps the size of the generated space (DefaultMaxSpace when <= 0); the
// check runs before any key is generated.
func Inject(observed Counts, pseudo int64, n int, a Alphabet, limit int64) (Counts, error) {
	if n < 0 {
		return nil, fmt.Errorf("inject: %w: %d", ErrInvalidOrder, n)
	}
	if pseudo < 0 {
		return nil, fmt.Errorf("inject: negative pseudocount %d", pseudo)
	}
	if err := CheckSpace(a, n, limit); err != nil {
		return nil, fmt.Errorf("inject: %w", err)
	}

	out := observed.Clone()
	for key := range Keys(a, n) {
		out[key] += pseudo
	}
	return out, nil
}
