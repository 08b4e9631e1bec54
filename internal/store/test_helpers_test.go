package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/kmarkov/internal/kmer"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestTable creates an order-2 DNA table with minimal required fields.
func createTestTable(id, name string, counts map[string]int64) CountTable {
	return CountTable{
		ID:          id,
		RunID:       "run-" + id,
		Name:        name,
		Order:       2,
		Alphabet:    kmer.Alphabet("ACGT"),
		Pseudocount: 1,
		Counts:      kmer.Counts(counts),
	}
}
