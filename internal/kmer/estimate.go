package kmer

import (
	"fmt"
	"math"
)

// Context returns the leading order-1 bytes of kmer, the key its conditional
// group is formed on. Orders 0 and 1 condition on nothing and share the empty
// context.
func Context(kmer string, order int) (string, error) {
	n := order - 1
	if n <= 0 {
		return "", nil
	}
	if len(kmer) < n {
		return "", &KeyLengthError{Kmer: kmer, Order: order}
	}
	return kmer[:n], nil
}

// Group is a maximal run of sorted k-mers sharing one context.
type Group struct {
	Context string
	Kmers   []string
	Total   int64
}

// Groups partitions the keys of c by context. Keys are sorted first, which
// makes every context group a contiguous run, so one linear scan suffices.
func Groups(c Counts, order int) ([]Group, error) {
	if order < 0 {
		return nil, fmt.Errorf("groups: %w: %d", ErrInvalidOrder, order)
	}

	var groups []Group
	for _, key := range c.Keys() {
		ctx, err := Context(key, order)
		if err != nil {
			return nil, err
		}
		if len(groups) == 0 || groups[len(groups)-1].Context != ctx {
			groups = append(groups, Group{Context: ctx})
		}
		g := &groups[len(groups)-1]
		g.Kmers = append(g.Kmers, key)
		g.Total += c[key]
	}
	return groups, nil
}

// Estimate converts a smoothed count table into code lengths:
// bits(k) = -log2(count(k) / total(context(k))). Every key of c gets exactly
// one entry. A lone member of its context gets 0 bits.
//
// A group summing to zero, or any zero count, yields a *ProbabilityError: it
// means the table was not pseudocounted.
func Estimate(c Counts, order int) (CodeLengths, error) {
	groups, err := Groups(c, order)
	if err != nil {
		return nil, fmt.Errorf("estimate: %w", err)
	}

	out := make(CodeLengths, len(c))
	for _, g := range groups {
		if g.Total <= 0 {
			return nil, &ProbabilityError{Context: g.Context, Total: g.Total}
		}
		for _, key := range g.Kmers {
			n := c[key]
			if n <= 0 {
				return nil, &ProbabilityError{Context: g.Context, Kmer: key, Count: n, Total: g.Total}
			}
			out[key] = math.Log2(float64(g.Total) / float64(n))
		}
	}
	return out, nil
}
