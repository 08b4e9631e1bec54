package seqio

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Options configures NewReader and Open.
type Options struct {
	Format        Format // Defaults to FormatFASTA
	Alphabet      string // Symbols to keep; empty keeps all but whitespace
	QualityOffset int    // FASTQ only; defaults to OffsetSanger

	// Quality names a FASTA quality file whose records are paired with the
	// sequences by Open. FASTA input only.
	Quality string

	// Wrap, when set, wraps the raw file stream before decompression. Used
	// to meter bytes read, e.g. for a progress bar.
	Wrap func(io.Reader) io.Reader
}

// NewReader builds the reader for opts.Format over r.
func NewReader(r io.Reader, opts Options) (Reader, error) {
	switch opts.Format {
	case "", FormatFASTA:
		return NewFASTAReader(r, opts.Alphabet), nil
	case FormatFASTQ:
		offset := opts.QualityOffset
		if offset == 0 {
			offset = OffsetSanger
		}
		return NewFASTQReader(r, opts.Alphabet, offset)
	default:
		return nil, fmt.Errorf("unknown sequence format %q", opts.Format)
	}
}

// ReadCloser is a Reader over an opened file.
type ReadCloser interface {
	Reader
	io.Closer
}

type fileReader struct {
	Reader
	io.Closer
}

// OpenFile opens path for reading, decompressing .gz transparently.
// "-" is standard input.
func OpenFile(path string) (io.ReadCloser, error) {
	return openFile(path, nil)
}

func openFile(path string, wrap func(io.Reader) io.Reader) (io.ReadCloser, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		if f, err = os.Open(path); err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
	}

	var raw io.Reader = f
	if wrap != nil {
		raw = wrap(f)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		if path == "-" {
			return io.NopCloser(raw), nil
		}
		return &wrappedFile{Reader: raw, file: f}, nil
	}

	gz, err := gzip.NewReader(raw)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &gzipFile{Reader: gz, file: f}, nil
}

type wrappedFile struct {
	io.Reader
	file *os.File
}

func (w *wrappedFile) Close() error {
	return w.file.Close()
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	gerr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gerr
}

// Open opens path and returns a record reader over it. An empty opts.Format
// is guessed from the extension, falling back to FASTA. With opts.Quality
// set, every record carries the scores of the matching quality record.
func Open(path string, opts Options) (ReadCloser, error) {
	if opts.Format == "" {
		if f, ok := FormatFromPath(path); ok {
			opts.Format = f
		}
	}
	if opts.Quality != "" && opts.Format == FormatFASTQ {
		return nil, fmt.Errorf("open %s: quality files pair with FASTA input only", path)
	}

	rc, err := openFile(path, opts.Wrap)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(rc, opts)
	if err != nil {
		rc.Close()
		return nil, err
	}
	if opts.Quality == "" {
		return &fileReader{Reader: r, Closer: rc}, nil
	}

	qf, err := openFile(opts.Quality, nil)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return &fileReader{
		Reader: WithQuality(r, NewQualityReader(qf)),
		Closer: closers{rc, qf},
	}, nil
}

// closers closes all of its members and returns the first error.
type closers []io.Closer

func (cs closers) Close() error {
	var first error
	for _, c := range cs {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
