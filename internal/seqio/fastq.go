package seqio

import (
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
)

// Quality score offsets accepted for FASTQ input.
const (
	OffsetSanger   = 33 // Sanger / Illumina 1.8+
	OffsetIllumina = 64 // Illumina 1.3 to 1.7
)

// FASTQReader reads FASTQ records with decoded Phred scores.
type FASTQReader struct {
	r       *fastq.Reader
	allowed string
}

// NewFASTQReader reads FASTQ from r. offset is the ASCII offset of the quality
// line, OffsetSanger or OffsetIllumina.
func NewFASTQReader(r io.Reader, allowed string, offset int) (*FASTQReader, error) {
	enc, err := encodingFor(offset)
	if err != nil {
		return nil, err
	}
	template := linear.NewQSeq("", nil, alphabet.Protein, enc)
	return &FASTQReader{
		r:       fastq.NewReader(r, template),
		allowed: allowed,
	}, nil
}

func encodingFor(offset int) (alphabet.Encoding, error) {
	switch offset {
	case OffsetSanger:
		return alphabet.Sanger, nil
	case OffsetIllumina:
		return alphabet.Illumina1_3, nil
	default:
		return 0, fmt.Errorf("unsupported quality offset %d: must be %d or %d",
			offset, OffsetSanger, OffsetIllumina)
	}
}

// Read returns the next record, or io.EOF.
func (f *FASTQReader) Read() (Record, error) {
	s, err := f.r.Read()
	if err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("read fastq: %w", err)
	}
	qs, ok := s.(*linear.QSeq)
	if !ok {
		return Record{}, fmt.Errorf("read fastq: unexpected sequence type %T", s)
	}

	var b strings.Builder
	b.Grow(len(qs.Seq))
	qual := make([]int, 0, len(qs.Seq))
	for _, ql := range qs.Seq {
		if c, ok := keep(byte(ql.L), f.allowed); ok {
			b.WriteByte(c)
			qual = append(qual, int(ql.Q))
		}
	}
	return Record{
		ID:      qs.ID,
		Comment: strings.TrimSpace(qs.Desc),
		Seq:     b.String(),
		Qual:    qual,
	}, nil
}
