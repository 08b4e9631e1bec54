package ident

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/kmarkov/internal/kmer"
)

// Domain prefixes. The version suffix allows a future change of encoding.
const (
	DomainCounts = "kmarkov/counts/v1"
	DomainModel  = "kmarkov/model/v1"
)

// EstimatorVersion names the estimation algorithm folded into model ids.
// Bump it when Estimate changes its output for the same table.
const EstimatorVersion = "context-groups/1"

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TableID identifies a count table by its parameters and contents. Two
// tables with the same counts built with different pseudocounts or orders get
// different ids.
func TableID(order int, alphabet kmer.Alphabet, pseudocount int64, counts kmer.Counts) (string, error) {
	obj := map[string]any{
		"alphabet":    string(alphabet),
		"counts":      counts,
		"order":       order,
		"pseudocount": pseudocount,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("TableID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCounts, canonical), nil
}

// ModelID identifies the code-length table estimated from tableID.
func ModelID(tableID string, precision int) (string, error) {
	obj := map[string]any{
		"estimator": EstimatorVersion,
		"precision": precision,
		"table_id":  tableID,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ModelID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainModel, canonical), nil
}

// MustTableID is like TableID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustTableID(order int, alphabet kmer.Alphabet, pseudocount int64, counts kmer.Counts) string {
	id, err := TableID(order, alphabet, pseudocount, counts)
	if err != nil {
		panic(err)
	}
	return id
}
