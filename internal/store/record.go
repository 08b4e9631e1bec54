package store

import "github.com/roach88/kmarkov/internal/kmer"

// CountTable is a stored count table.
//
// ID is the content hash from ident.TableID; Name is a human label and is not
// part of the identity. Counts is nil in listings.
type CountTable struct {
	ID          string        `json:"id"`
	RunID       string        `json:"run_id"`
	Name        string        `json:"name"`
	Order       int           `json:"order"`
	Alphabet    kmer.Alphabet `json:"alphabet"`
	Pseudocount int64         `json:"pseudocount"`
	Total       int64         `json:"total"`
	Size        int           `json:"size"`
	Seq         int64         `json:"seq"`
	Counts      kmer.Counts   `json:"-"`
}

// Model is a stored set of code lengths estimated from one count table.
type Model struct {
	ID          string           `json:"id"`
	TableID     string           `json:"table_id"`
	Precision   int              `json:"precision"`
	Seq         int64            `json:"seq"`
	CodeLengths kmer.CodeLengths `json:"-"`
}
