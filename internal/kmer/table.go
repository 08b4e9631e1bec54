package kmer

import (
	"math"
	"slices"
)

// Counts maps a k-mer to its occurrence count.
type Counts map[string]int64

// Clone returns an independent copy of c. A nil table clones to an empty one.
func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Keys returns the keys of c in byte-wise lexicographic order.
func (c Counts) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Total returns the sum of all counts.
func (c Counts) Total() int64 {
	var total int64
	for _, v := range c {
		total += v
	}
	return total
}

// CodeLengths maps a k-mer to -log2 P(k-mer | context), in bits.
type CodeLengths map[string]float64

// Keys returns the keys of cl in byte-wise lexicographic order.
func (cl CodeLengths) Keys() []string {
	keys := make([]string, 0, len(cl))
	for k := range cl {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Probability converts the code length of kmer back to a probability.
// Unknown k-mers report 0.
func (cl CodeLengths) Probability(kmer string) float64 {
	bits, ok := cl[kmer]
	if !ok {
		return 0
	}
	return math.Exp2(-bits)
}
