package kmer

import "strings"

// Context markers. Both are reserved and rejected by NewAlphabet.
const (
	Start byte = '^'
	Stop  byte = '$'
)

// IsMarker reports whether c is one of the context markers.
func IsMarker(c byte) bool {
	return c == Start || c == Stop
}

// Alphabet is a sorted set of distinct single-byte symbols.
//
// The zero value is the empty alphabet. Build one with NewAlphabet or
// InferAlphabet; a hand-written Alphabet literal skips validation.
type Alphabet string

// NewAlphabet validates symbols and returns them as a sorted, de-duplicated
// alphabet. Markers, whitespace and non-printable bytes are rejected.
func NewAlphabet(symbols string) (Alphabet, error) {
	var seen [256]bool
	for i := 0; i < len(symbols); i++ {
		c := symbols[i]
		switch {
		case IsMarker(c):
			return "", &AlphabetError{Symbol: c, Reason: "reserved context marker"}
		case c <= ' ' || c > '~':
			return "", &AlphabetError{Symbol: c, Reason: "not a printable ASCII symbol"}
		}
		seen[c] = true
	}
	return fromSet(&seen), nil
}

// InferAlphabet returns the symbols that actually occur in the keys of c.
// Markers are context, not symbols, and are left out. An empty table yields
// the empty alphabet.
func InferAlphabet(c Counts) Alphabet {
	var seen [256]bool
	for key := range c {
		for i := 0; i < len(key); i++ {
			if !IsMarker(key[i]) {
				seen[key[i]] = true
			}
		}
	}
	return fromSet(&seen)
}

func fromSet(seen *[256]bool) Alphabet {
	var b strings.Builder
	for c, ok := range seen {
		if ok {
			b.WriteByte(byte(c))
		}
	}
	return Alphabet(b.String())
}

// Len returns the number of symbols.
func (a Alphabet) Len() int {
	return len(a)
}

// Contains reports whether c is a symbol of the alphabet.
func (a Alphabet) Contains(c byte) bool {
	return strings.IndexByte(string(a), c) >= 0
}

func (a Alphabet) String() string {
	return string(a)
}
