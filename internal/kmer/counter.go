package kmer

import (
	"errors"
	"fmt"
	"io"

	"github.com/roach88/kmarkov/internal/seqio"
)

// RecordSource supplies sequence records until it returns io.EOF.
// Implemented by the seqio readers.
type RecordSource interface {
	Read() (seqio.Record, error)
}

// CounterStats summarises what a Counter has consumed.
type CounterStats struct {
	Records int64 `json:"records"` // Sequences offered to Add
	Empty   int64 `json:"empty"`   // Sequences skipped because they were empty
	Windows int64 `json:"windows"` // Windows counted across all sequences
}

// Counter accumulates raw k-mer counts over padded sequences.
// No smoothing or normalisation happens here.
//
// A Counter is not safe for concurrent use.
type Counter struct {
	order    int
	alphabet Alphabet
	counts   Counts
	stats    CounterStats
}

// NewCounter creates a counter for windows of length order over alphabet.
// Counting is only defined for order >= 1.
func NewCounter(order int, alphabet Alphabet) (*Counter, error) {
	if order < 1 {
		return nil, fmt.Errorf("new counter: %w: counting needs order >= 1, got %d", ErrInvalidOrder, order)
	}
	return &Counter{
		order:    order,
		alphabet: alphabet,
		counts:   make(Counts),
	}, nil
}

// Order returns the window length.
func (c *Counter) Order() int {
	return c.order
}

// Add pads seq and counts every window of it. Empty sequences are skipped.
// A byte outside the alphabet rejects the whole sequence before anything is
// counted.
func (c *Counter) Add(seq string) error {
	c.stats.Records++
	if seq == "" {
		c.stats.Empty++
		return nil
	}
	for i := 0; i < len(seq); i++ {
		if !c.alphabet.Contains(seq[i]) {
			return &SymbolError{Symbol: seq[i], Offset: i}
		}
	}

	padded, err := Pad(seq, c.order)
	if err != nil {
		return err
	}
	for window := range Split(padded, c.order) {
		c.counts[window]++
		c.stats.Windows++
	}
	return nil
}

// CountRecords drains src, adding the sequence of every record.
func (c *Counter) CountRecords(src RecordSource) error {
	for {
		rec, err := src.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		if err := c.Add(rec.Seq); err != nil {
			return fmt.Errorf("record %q: %w", rec.ID, err)
		}
	}
}

// Counts returns a snapshot of the counts so far.
func (c *Counter) Counts() Counts {
	return c.counts.Clone()
}

// Stats returns the consumption summary so far.
func (c *Counter) Stats() CounterStats {
	return c.stats
}

// Count is a convenience wrapper: a fresh Counter over every record of src.
func Count(src RecordSource, order int, alphabet Alphabet) (Counts, error) {
	c, err := NewCounter(order, alphabet)
	if err != nil {
		return nil, err
	}
	if err := c.CountRecords(src); err != nil {
		return nil, err
	}
	return c.Counts(), nil
}
