package kmer

import "iter"

// Split yields the len(s)-k+1 overlapping substrings of length k in s, left to
// right. Nothing is yielded when k < 1 or s is shorter than k.
//
// The returned sequence holds no state and can be ranged over any number of
// times.
func Split(s string, k int) iter.Seq[string] {
	return func(yield func(string) bool) {
		if k < 1 {
			return
		}
		for start := 0; start+k <= len(s); start++ {
			if !yield(s[start : start+k]) {
				return
			}
		}
	}
}
