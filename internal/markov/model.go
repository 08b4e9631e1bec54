package markov

import (
	"github.com/roach88/kmarkov/internal/config"
	"github.com/roach88/kmarkov/internal/kmer"
	"github.com/roach88/kmarkov/internal/store"
)

// DefaultPrecision is the number of decimals code lengths are written with.
const DefaultPrecision = 6

// Params fixes everything a model depends on besides its input.
type Params struct {
	Name        string
	Order       int
	Alphabet    kmer.Alphabet // Empty means infer from the observed counts
	Pseudocount int64
	MaxSpace    int64 // <= 0 means kmer.DefaultMaxSpace
	Precision   int
}

// ParamsFromConfig converts a loaded model definition.
func ParamsFromConfig(m config.Model) Params {
	return Params{
		Name:        m.Name,
		Order:       m.Order,
		Alphabet:    m.Symbols,
		Pseudocount: m.Pseudocount,
		MaxSpace:    m.MaxSpace,
		Precision:   m.Precision,
	}
}

// Model is a trained order-n Markov model.
type Model struct {
	Name        string
	Order       int
	Alphabet    kmer.Alphabet
	Pseudocount int64
	Precision   int

	Observed    kmer.Counts      // Raw window counts
	Smoothed    kmer.Counts      // Observed plus pseudocounts over the full space
	CodeLengths kmer.CodeLengths // Bits per k-mer given its context

	TableID string // ident.TableID of the observed table and parameters
	ModelID string // ident.ModelID of TableID and Precision
}

// CountTable returns the store row for the model's observed counts.
func (m *Model) CountTable(runID string) store.CountTable {
	return store.CountTable{
		ID:          m.TableID,
		RunID:       runID,
		Name:        m.Name,
		Order:       m.Order,
		Alphabet:    m.Alphabet,
		Pseudocount: m.Pseudocount,
		Counts:      m.Observed,
	}
}

// StoredModel returns the store row for the model's code lengths.
func (m *Model) StoredModel() store.Model {
	return store.Model{
		ID:          m.ModelID,
		TableID:     m.TableID,
		Precision:   m.Precision,
		CodeLengths: m.CodeLengths,
	}
}
