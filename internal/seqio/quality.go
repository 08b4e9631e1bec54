package seqio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// QualityReader reads FASTA quality files: a ">id" header followed by
// whitespace-separated integer scores over any number of lines.
//
// All parse state lives on the reader, so independent readers never
// interfere.
type QualityReader struct {
	scanner *bufio.Scanner
	line    int

	// Header of the record being assembled; empty before the first '>'.
	pendingID      string
	pendingComment string
	done           bool
}

// NewQualityReader reads quality records from r.
func NewQualityReader(r io.Reader) *QualityReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &QualityReader{scanner: scanner}
}

// Read returns the next record with ID, Comment and Qual set, or io.EOF.
func (q *QualityReader) Read() (Record, error) {
	if q.done {
		return Record{}, io.EOF
	}

	var qual []int
	for q.scanner.Scan() {
		q.line++
		text := q.scanner.Text()

		if strings.HasPrefix(text, ">") {
			id, comment := splitHeader(text[1:])
			if q.pendingID == "" {
				q.pendingID, q.pendingComment = id, comment
				continue
			}
			rec := Record{ID: q.pendingID, Comment: q.pendingComment, Qual: nonNil(qual)}
			q.pendingID, q.pendingComment = id, comment
			return rec, nil
		}

		if q.pendingID == "" {
			if strings.TrimSpace(text) == "" {
				continue
			}
			return Record{}, fmt.Errorf("quality line %d: scores before first header", q.line)
		}
		for _, field := range strings.Fields(text) {
			score, err := strconv.Atoi(field)
			if err != nil {
				return Record{}, fmt.Errorf("quality line %d: invalid score %q: %w", q.line, field, err)
			}
			qual = append(qual, score)
		}
	}
	if err := q.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("read quality: %w", err)
	}

	q.done = true
	if q.pendingID == "" {
		return Record{}, io.EOF
	}
	return Record{ID: q.pendingID, Comment: q.pendingComment, Qual: nonNil(qual)}, nil
}

func splitHeader(header string) (id, comment string) {
	header = strings.TrimSpace(header)
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		return header[:i], strings.TrimSpace(header[i+1:])
	}
	return header, ""
}

func nonNil(qual []int) []int {
	if qual == nil {
		return []int{}
	}
	return qual
}

// pairedReader merges a sequence stream with a quality stream.
type pairedReader struct {
	seqs  Reader
	quals Reader
}

// WithQuality pairs each record of seqs with the next record of quals.
// Both streams must list the same IDs in the same order, and every quality
// list must be as long as its sequence.
func WithQuality(seqs, quals Reader) Reader {
	return &pairedReader{seqs: seqs, quals: quals}
}

func (p *pairedReader) Read() (Record, error) {
	rec, err := p.seqs.Read()
	if err == io.EOF {
		if _, qerr := p.quals.Read(); qerr != io.EOF {
			if qerr != nil {
				return Record{}, qerr
			}
			return Record{}, fmt.Errorf("quality stream has records beyond the last sequence")
		}
		return Record{}, io.EOF
	}
	if err != nil {
		return Record{}, err
	}

	q, err := p.quals.Read()
	if err == io.EOF {
		return Record{}, fmt.Errorf("record %q: no quality record", rec.ID)
	}
	if err != nil {
		return Record{}, err
	}
	if q.ID != rec.ID {
		return Record{}, fmt.Errorf("record %q: quality record is %q", rec.ID, q.ID)
	}
	if len(q.Qual) != len(rec.Seq) {
		return Record{}, fmt.Errorf("record %q: %d scores for %d bases", rec.ID, len(q.Qual), len(rec.Seq))
	}
	rec.Qual = q.Qual
	return rec, nil
}
