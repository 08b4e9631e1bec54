package cli

import (
	"database/sql"
	"errors"
	"io/fs"

	"github.com/roach88/kmarkov/internal/config"
	"github.com/roach88/kmarkov/internal/kmer"
	"github.com/roach88/kmarkov/internal/markov"
	"github.com/roach88/kmarkov/internal/tabfile"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeInput       = "E002" // Sequence input could not be read
	ErrCodeTableParse  = "E003" // Malformed count table
	ErrCodeModelConfig = "E004" // Invalid model definition
	ErrCodeNotFound    = "E005" // File, table or model not found
	ErrCodeStore       = "E006" // Database error
	ErrCodeWriteFailed = "E007" // File write error

	// Model errors
	ErrCodeSpaceLimit  = "E101" // K-mer space over the ceiling
	ErrCodeProbability = "E102" // Zero count reached the estimator
	ErrCodeSymbol      = "E103" // Sequence symbol outside the alphabet
	ErrCodeAlphabet    = "E104" // Invalid alphabet symbol
	ErrCodeOrder       = "E105" // Invalid order
	ErrCodeScenario    = "E106" // One or more scenarios failed
)

// errorCode returns the code of the most specific error in err's chain,
// or fallback when nothing in the chain has one.
func errorCode(err error, fallback string) string {
	var (
		spaceErr    *kmer.SpaceLimitError
		probErr     *kmer.ProbabilityError
		symbolErr   *kmer.SymbolError
		alphabetErr *kmer.AlphabetError
		parseErr    *tabfile.ParseError
		configErr   *config.LoadError
	)
	switch {
	case errors.As(err, &spaceErr):
		return ErrCodeSpaceLimit
	case errors.As(err, &probErr):
		return ErrCodeProbability
	case errors.As(err, &symbolErr):
		return ErrCodeSymbol
	case errors.As(err, &alphabetErr):
		return ErrCodeAlphabet
	case errors.Is(err, kmer.ErrInvalidOrder):
		return ErrCodeOrder
	case errors.As(err, &parseErr):
		return ErrCodeTableParse
	case errors.As(err, &configErr):
		return ErrCodeModelConfig
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, sql.ErrNoRows):
		return ErrCodeNotFound
	case markov.IsStage(err, markov.StagePersist):
		return ErrCodeStore
	}
	if fallback == "" {
		return ErrCodeGeneric
	}
	return fallback
}

// exitCodeFor maps an error code onto the process exit code. Environment
// problems are command errors; everything about the data itself is a failure.
func exitCodeFor(code string) int {
	switch code {
	case ErrCodeInput, ErrCodeNotFound, ErrCodeStore, ErrCodeWriteFailed:
		return ExitCommandError
	default:
		return ExitFailure
	}
}

// errorDetails extracts structured fields for JSON error output.
func errorDetails(err error) any {
	var (
		spaceErr  *kmer.SpaceLimitError
		probErr   *kmer.ProbabilityError
		symbolErr *kmer.SymbolError
		parseErr  *tabfile.ParseError
		configErr *config.LoadError
	)
	switch {
	case errors.As(err, &spaceErr):
		return map[string]any{
			"alphabet_size": spaceErr.AlphabetSize,
			"order":         spaceErr.Order,
			"size":          spaceErr.Size,
			"limit":         spaceErr.Limit,
		}
	case errors.As(err, &probErr):
		return map[string]any{
			"context": probErr.Context,
			"kmer":    probErr.Kmer,
			"count":   probErr.Count,
			"total":   probErr.Total,
		}
	case errors.As(err, &symbolErr):
		return map[string]any{
			"symbol": string(symbolErr.Symbol),
			"offset": symbolErr.Offset,
		}
	case errors.As(err, &parseErr):
		return map[string]any{
			"line":   parseErr.Line,
			"text":   parseErr.Text,
			"reason": parseErr.Reason,
		}
	case errors.As(err, &configErr):
		details := map[string]any{"field": configErr.Field}
		if configErr.Pos.IsValid() {
			details["file"] = configErr.Pos.Filename()
			details["line"] = configErr.Pos.Line()
		}
		return details
	}
	return nil
}
