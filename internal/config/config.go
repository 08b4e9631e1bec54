// Package config loads CUE model definitions.
//
// A model file is ordinary CUE with one top-level `model` struct:
//
//	model: {
//		name:     "yeast-o3"
//		alphabet: "ACGT"
//		order:    3
//	}
//
// The struct is unified with the embedded #Model schema, which supplies
// defaults and bounds and rejects unknown fields.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/kmarkov/internal/kmer"
	"github.com/roach88/kmarkov/internal/seqio"
)

//go:embed schema.cue
var schemaCUE string

// Model is a decoded model definition with defaults applied.
type Model struct {
	Name          string `json:"name"`
	Alphabet      string `json:"alphabet"`
	Order         int    `json:"order"`
	Pseudocount   int64  `json:"pseudocount"`
	MaxSpace      int64  `json:"max_space"`
	Format        string `json:"format"`
	QualityOffset int    `json:"quality_offset"`
	Precision     int    `json:"precision"`

	// Symbols is Alphabet uppercased, sorted and validated.
	Symbols kmer.Alphabet `json:"-"`
}

// SeqOptions returns the reader options for the model's input files.
func (m Model) SeqOptions() seqio.Options {
	return seqio.Options{
		Format:        seqio.Format(m.Format),
		Alphabet:      string(m.Symbols),
		QualityOffset: m.QualityOffset,
	}
}

// LoadError is a model definition error, positioned when CUE knows where.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and parses the model file at path.
func Load(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Model{}, fmt.Errorf("load model: %w", err)
	}
	return Parse(data, path)
}

// Parse compiles data as CUE, unifies its `model` struct with #Model and
// decodes the result. filename is only used in positions.
func Parse(data []byte, filename string) (Model, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Model{}, fmt.Errorf("compile schema: %w", err)
	}

	file := ctx.CompileBytes(data, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return Model{}, formatCUEError(err)
	}

	raw := file.LookupPath(cue.ParsePath("model"))
	if !raw.Exists() {
		return Model{}, &LoadError{Field: "model", Message: "model is required", Pos: file.Pos()}
	}

	v := schema.LookupPath(cue.ParsePath("#Model")).Unify(raw)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Model{}, formatCUEError(err)
	}

	var m Model
	if err := v.Decode(&m); err != nil {
		return Model{}, formatCUEError(err)
	}

	// Readers uppercase every sequence, so symbols are matched upper case.
	symbols, err := kmer.NewAlphabet(strings.ToUpper(m.Alphabet))
	if err != nil {
		return Model{}, &LoadError{
			Field:   "alphabet",
			Message: err.Error(),
			Pos:     raw.LookupPath(cue.ParsePath("alphabet")).Pos(),
		}
	}
	m.Symbols = symbols

	if err := kmer.CheckSpace(m.Symbols, m.Order, m.MaxSpace); err != nil {
		return Model{}, &LoadError{
			Field:   "order",
			Message: err.Error(),
			Pos:     raw.LookupPath(cue.ParsePath("order")).Pos(),
		}
	}
	return m, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) > 0 {
		return &LoadError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
