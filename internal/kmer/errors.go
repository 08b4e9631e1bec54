package kmer

import (
	"errors"
	"fmt"
)

// ErrInvalidOrder is returned when an operation is given an order it does not
// define (negative orders everywhere, order 0 for padding and counting).
var ErrInvalidOrder = errors.New("invalid order")

// SpaceLimitError is returned when the k-mer space for an alphabet and order
// would exceed the configured ceiling.
//
// The check runs before enumeration, so nothing has been allocated when this
// error is seen.
type SpaceLimitError struct {
	AlphabetSize int   // Number of symbols in the alphabet
	Order        int   // Requested order
	Size         int64 // Number of keys the space would hold (-1 on overflow)
	Limit        int64 // Configured ceiling
}

// Error implements the error interface.
func (e *SpaceLimitError) Error() string {
	if e.Size < 0 {
		return fmt.Sprintf("k-mer space for %d symbols at order %d overflows int64 (limit %d)",
			e.AlphabetSize, e.Order, e.Limit)
	}
	return fmt.Sprintf("k-mer space for %d symbols at order %d has %d keys > %d limit",
		e.AlphabetSize, e.Order, e.Size, e.Limit)
}

// IsSpaceLimitError returns true if the error is a SpaceLimitError.
// Uses errors.As to handle wrapped errors.
func IsSpaceLimitError(err error) bool {
	var se *SpaceLimitError
	return errors.As(err, &se)
}

// ProbabilityError signals a context group that cannot be normalised: either
// the whole group sums to zero or one member has a zero count.
//
// Neither happens after correct pseudocounting, so seeing this error means the
// table reached the estimator without being smoothed.
type ProbabilityError struct {
	Context string // Shared order-1 prefix of the group
	Kmer    string // Offending member, empty when the whole group is zero
	Count   int64  // Count of Kmer
	Total   int64  // Sum of counts over the group
}

// Error implements the error interface.
func (e *ProbabilityError) Error() string {
	if e.Kmer == "" {
		return fmt.Sprintf("invalid probability: context %q has total count %d", e.Context, e.Total)
	}
	return fmt.Sprintf("invalid probability: k-mer %q has count %d in context %q (total %d)",
		e.Kmer, e.Count, e.Context, e.Total)
}

// IsProbabilityError returns true if the error is a ProbabilityError.
func IsProbabilityError(err error) bool {
	var pe *ProbabilityError
	return errors.As(err, &pe)
}

// AlphabetError reports a symbol that cannot belong to an alphabet.
type AlphabetError struct {
	Symbol byte
	Reason string
}

// Error implements the error interface.
func (e *AlphabetError) Error() string {
	return fmt.Sprintf("invalid alphabet symbol %q: %s", e.Symbol, e.Reason)
}

// SymbolError reports a sequence byte outside the counter's alphabet.
type SymbolError struct {
	Symbol byte
	Offset int
}

// Error implements the error interface.
func (e *SymbolError) Error() string {
	return fmt.Sprintf("symbol %q at offset %d is not in the alphabet", e.Symbol, e.Offset)
}

// KeyLengthError reports a table key too short to carry an order-1 context.
type KeyLengthError struct {
	Kmer  string
	Order int
}

// Error implements the error interface.
func (e *KeyLengthError) Error() string {
	return fmt.Sprintf("k-mer %q is too short for order %d", e.Kmer, e.Order)
}
