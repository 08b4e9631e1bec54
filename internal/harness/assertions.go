package harness

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/roach88/kmarkov/internal/markov"
)

// AssertionError describes one failed expectation.
type AssertionError struct {
	Check    string // kmers, counts or bits
	Kmer     string // Offending k-mer, empty for whole-table checks
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s", e.Check)
	if e.Kmer != "" {
		fmt.Fprintf(&buf, "[%q]", e.Kmer)
	}
	fmt.Fprintf(&buf, ": expected %s, actual %s", e.Expected, e.Actual)
	return buf.String()
}

// evaluate checks every expectation against m and returns the failures in
// a stable order.
func evaluate(exp Expect, m *markov.Model) []string {
	var errs []string
	for _, err := range checkAll(exp, m) {
		errs = append(errs, err.Error())
	}
	return errs
}

func checkAll(exp Expect, m *markov.Model) []*AssertionError {
	var failures []*AssertionError

	if exp.Kmers != nil && len(m.Smoothed) != *exp.Kmers {
		failures = append(failures, &AssertionError{
			Check:    "kmers",
			Expected: fmt.Sprintf("%d", *exp.Kmers),
			Actual:   fmt.Sprintf("%d", len(m.Smoothed)),
		})
	}

	for _, k := range sortedKeys(exp.Counts) {
		want := exp.Counts[k]
		got, ok := m.Smoothed[k]
		if !ok {
			failures = append(failures, &AssertionError{Check: "counts", Kmer: k, Expected: fmt.Sprintf("%d", want), Actual: "missing"})
			continue
		}
		if got != want {
			failures = append(failures, &AssertionError{Check: "counts", Kmer: k, Expected: fmt.Sprintf("%d", want), Actual: fmt.Sprintf("%d", got)})
		}
	}

	tol := exp.Tolerance
	if tol == 0 {
		tol = defaultTolerance
	}
	for _, k := range sortedKeys(exp.Bits) {
		want := exp.Bits[k]
		got, ok := m.CodeLengths[k]
		if !ok {
			failures = append(failures, &AssertionError{Check: "bits", Kmer: k, Expected: fmt.Sprintf("%g", want), Actual: "missing"})
			continue
		}
		if math.Abs(got-want) > tol {
			failures = append(failures, &AssertionError{
				Check:    "bits",
				Kmer:     k,
				Expected: fmt.Sprintf("%g ± %g", want, tol),
				Actual:   fmt.Sprintf("%g", got),
			})
		}
	}
	return failures
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
