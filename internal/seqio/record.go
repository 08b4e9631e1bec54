package seqio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Record is one sequence entry.
type Record struct {
	ID      string // Header text up to the first whitespace
	Comment string // Remainder of the header, may be empty
	Seq     string // Uppercased sequence
	Qual    []int  // Per-base Phred scores, nil when the source has none
}

// Reader yields records until it returns io.EOF.
type Reader interface {
	Read() (Record, error)
}

// Format names an input file format.
type Format string

const (
	FormatFASTA Format = "fasta"
	FormatFASTQ Format = "fastq"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatFASTA:
		return FormatFASTA, nil
	case FormatFASTQ:
		return FormatFASTQ, nil
	default:
		return "", fmt.Errorf("unknown sequence format %q: must be fasta or fastq", s)
	}
}

// FormatFromPath guesses the format from a file extension, ignoring a
// trailing .gz. Unknown extensions report ok=false.
func FormatFromPath(path string) (f Format, ok bool) {
	name := strings.TrimSuffix(strings.ToLower(path), ".gz")
	switch filepath.Ext(name) {
	case ".fa", ".fasta", ".fna", ".faa", ".fas":
		return FormatFASTA, true
	case ".fq", ".fastq":
		return FormatFASTQ, true
	default:
		return "", false
	}
}

// keep uppercases c and reports whether it survives filtering against
// allowed. Whitespace never survives; an empty allowed set keeps everything
// else.
func keep(c byte, allowed string) (byte, bool) {
	if c <= ' ' {
		return c, false
	}
	if 'a' <= c && c <= 'z' {
		c -= 'a' - 'A'
	}
	if allowed != "" && strings.IndexByte(allowed, c) < 0 {
		return c, false
	}
	return c, true
}
