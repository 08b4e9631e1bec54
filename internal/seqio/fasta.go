package seqio

import (
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// FASTAReader reads FASTA records.
type FASTAReader struct {
	r       *fasta.Reader
	allowed string
}

// NewFASTAReader reads FASTA from r, keeping only symbols in allowed
// (everything except whitespace when allowed is empty).
func NewFASTAReader(r io.Reader, allowed string) *FASTAReader {
	template := linear.NewSeq("", nil, alphabet.Protein)
	return &FASTAReader{
		r:       fasta.NewReader(r, template),
		allowed: allowed,
	}
}

// Read returns the next record, or io.EOF.
func (f *FASTAReader) Read() (Record, error) {
	s, err := f.r.Read()
	if err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("read fasta: %w", err)
	}
	ls, ok := s.(*linear.Seq)
	if !ok {
		return Record{}, fmt.Errorf("read fasta: unexpected sequence type %T", s)
	}

	var b strings.Builder
	b.Grow(len(ls.Seq))
	for _, l := range ls.Seq {
		if c, ok := keep(byte(l), f.allowed); ok {
			b.WriteByte(c)
		}
	}
	return Record{
		ID:      ls.ID,
		Comment: strings.TrimSpace(ls.Desc),
		Seq:     b.String(),
	}, nil
}
