package kmer

import (
	"iter"
	"math"
	"strings"
)

// DefaultMaxSpace is the k-mer space ceiling used when no limit is configured.
// 4 symbols reach it at order 12, 20 symbols at order 5.
const DefaultMaxSpace int64 = 1 << 24

// Space yields every string of length n over a, in lexicographic order of
// the alphabet. Order 0 and the empty alphabet yield nothing.
func Space(a Alphabet, n int) iter.Seq[string] {
	return func(yield func(string) bool) {
		if n <= 0 {
			return
		}
		combinations(a, n, func(buf []byte) bool {
			return yield(string(buf))
		})
	}
}

// Boundary yields the partial k-mers of order n: first every combination of
// length n-i behind i start markers, then every combination of length n-i
// ahead of i stop markers, for i = 1..n-1. Orders 0 and 1 have none.
func Boundary(a Alphabet, n int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 1; i < n; i++ {
			markers := strings.Repeat(string(Start), i)
			if !combinations(a, n-i, func(body []byte) bool {
				return yield(markers + string(body))
			}) {
				return
			}
		}
		for i := 1; i < n; i++ {
			markers := strings.Repeat(string(Stop), i)
			if !combinations(a, n-i, func(body []byte) bool {
				return yield(string(body) + markers)
			}) {
				return
			}
		}
	}
}

// Sentinels returns the fixed keys an order needs beyond Space and Boundary.
//
// Order 0 has no windows at all and is modelled by the unconditioned start
// and stop keys. Order 1 padding appends one stop marker, so the lone stop
// key is a window every counted sequence produces.
func Sentinels(n int) []string {
	switch n {
	case 0:
		return []string{string(Start), string(Stop)}
	case 1:
		return []string{string(Stop)}
	default:
		return nil
	}
}

// Keys yields the complete smoothed space of order n: Space, then Boundary,
// then Sentinels.
func Keys(a Alphabet, n int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for k := range Space(a, n) {
			if !yield(k) {
				return
			}
		}
		for k := range Boundary(a, n) {
			if !yield(k) {
				return
			}
		}
		for _, k := range Sentinels(n) {
			if !yield(k) {
				return
			}
		}
	}
}

// SpaceSize returns the number of keys Keys(a, n) yields. ok is false when the
// count does not fit in an int64.
func SpaceSize(a Alphabet, n int) (size int64, ok bool) {
	if n < 0 {
		return 0, true
	}
	size = int64(len(Sentinels(n)))
	if n == 0 {
		return size, true
	}

	full, ok := power(int64(a.Len()), n)
	if !ok {
		return 0, false
	}
	size += full

	for i := 1; i < n; i++ {
		partial, ok := power(int64(a.Len()), n-i)
		if !ok || partial > (math.MaxInt64-size)/2 {
			return 0, false
		}
		size += 2 * partial
	}
	return size, true
}

// CheckSpace fails fast when the space of order n over a exceeds limit.
// A limit <= 0 means DefaultMaxSpace.
func CheckSpace(a Alphabet, n int, limit int64) error {
	if limit <= 0 {
		limit = DefaultMaxSpace
	}
	size, ok := SpaceSize(a, n)
	if !ok {
		return &SpaceLimitError{AlphabetSize: a.Len(), Order: n, Size: -1, Limit: limit}
	}
	if size > limit {
		return &SpaceLimitError{AlphabetSize: a.Len(), Order: n, Size: size, Limit: limit}
	}
	return nil
}

// power returns base^exp, ok=false on int64 overflow.
func power(base int64, exp int) (int64, bool) {
	result := int64(1)
	for i := 0; i < exp; i++ {
		if base != 0 && result > math.MaxInt64/base {
			return 0, false
		}
		result *= base
	}
	return result, true
}

// combinations calls yield with every string of the given length over a,
// rightmost position varying fastest. The buffer is reused between calls.
// Returns false if yield asked to stop.
func combinations(a Alphabet, length int, yield func([]byte) bool) bool {
	if length == 0 {
		return yield(nil)
	}
	if a.Len() == 0 {
		return true
	}

	idx := make([]int, length)
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = a[0]
	}
	for {
		if !yield(buf) {
			return false
		}
		i := length - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < a.Len() {
				buf[i] = a[idx[i]]
				break
			}
			idx[i] = 0
			buf[i] = a[0]
		}
		if i < 0 {
			return true
		}
	}
}
