// Package tabfile reads and writes the two-column k-mer table text format:
// one k-mer and its value per line, separated by whitespace.
package tabfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/roach88/kmarkov/internal/kmer"
)

// ParseError reports a malformed line. Parsing stops at the first one.
type ParseError struct {
	Line   int    // 1-based line number
	Text   string // The offending line
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// IsParseError returns true if the error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// ReadCounts parses a count table. order is the length of the k-mer on the
// last data line (0 for an empty table). Blank lines are skipped; anything
// else that is not exactly "kmer count" with a non-negative integer count and
// a k-mer not seen before is a *ParseError.
func ReadCounts(r io.Reader) (counts kmer.Counts, order int, err error) {
	counts = make(kmer.Counts)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, 0, &ParseError{Line: line, Text: text, Reason: fmt.Sprintf("expected 2 fields, got %d", len(fields))}
		}

		n, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, 0, &ParseError{Line: line, Text: text, Reason: "count is not an integer"}
		}
		if n < 0 {
			return nil, 0, &ParseError{Line: line, Text: text, Reason: "count is negative"}
		}
		if _, dup := counts[fields[0]]; dup {
			return nil, 0, &ParseError{Line: line, Text: text, Reason: "duplicate k-mer"}
		}
		counts[fields[0]] = n
		order = len(fields[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read counts: %w", err)
	}
	return counts, order, nil
}

// WriteCounts writes c sorted by k-mer, tab-separated.
func WriteCounts(w io.Writer, c kmer.Counts) error {
	bw := bufio.NewWriter(w)
	for _, k := range c.Keys() {
		if _, err := fmt.Fprintf(bw, "%s\t%d\n", k, c[k]); err != nil {
			return fmt.Errorf("write counts: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write counts: %w", err)
	}
	return nil
}

// WriteCodeLengths writes cl sorted by k-mer with precision decimal places.
func WriteCodeLengths(w io.Writer, cl kmer.CodeLengths, precision int) error {
	bw := bufio.NewWriter(w)
	for _, k := range cl.Keys() {
		bits := strconv.FormatFloat(cl[k], 'f', precision, 64)
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", k, bits); err != nil {
			return fmt.Errorf("write code lengths: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write code lengths: %w", err)
	}
	return nil
}

// ReadCountsFile is ReadCounts over a file; "-" is standard input.
func ReadCountsFile(path string) (kmer.Counts, int, error) {
	if path == "-" {
		return ReadCounts(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	counts, order, err := ReadCounts(f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return counts, order, nil
}

// WriteFile creates path and fills it with write. "-" writes to standard
// output.
func WriteFile(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
