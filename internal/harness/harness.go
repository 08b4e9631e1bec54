package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/kmarkov/internal/kmer"
	"github.com/roach88/kmarkov/internal/markov"
	"github.com/roach88/kmarkov/internal/seqio"
	"github.com/roach88/kmarkov/internal/store"
	"github.com/roach88/kmarkov/internal/testutil"
)

// Harness holds the per-scenario execution state.
type Harness struct {
	store   *store.Store
	runIDs  store.RunIDGenerator
	trainer *markov.Trainer
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with a fixed run id, so
// repeated runs are identical. Execution flow:
//  1. Count sequences (or take the inline table)
//  2. Smooth and estimate
//  3. Persist, then read the table and model back
//  4. Check expectations against what was read back
//
// A returned error means the harness itself failed; a pipeline failure is
// reported through the Result.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:   st,
		runIDs:  testutil.NewFixedRunIDGenerator("scenario-" + scenario.Name),
		trainer: markov.New(markov.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))), // Suppress logs
	}

	ctx := context.Background()
	result := NewResult()

	model, err := h.train(ctx, scenario)
	if err != nil {
		kind := classify(err)
		switch {
		case scenario.Expect.Error == "":
			result.AddError(fmt.Sprintf("unexpected error: %v", err))
		case kind != scenario.Expect.Error:
			result.AddError(fmt.Sprintf("expected %s error, got: %v", scenario.Expect.Error, err))
		default:
			result.Failure = kind
		}
		return result, nil
	}
	if scenario.Expect.Error != "" {
		result.AddError(fmt.Sprintf("expected %s error, model trained", scenario.Expect.Error))
		return result, nil
	}

	stored, err := h.persist(ctx, model)
	if err != nil {
		return nil, err
	}
	result.Model = stored

	for _, msg := range evaluate(scenario.Expect, stored) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) train(ctx context.Context, s *Scenario) (*markov.Model, error) {
	var alphabet kmer.Alphabet
	if s.Alphabet != "" {
		a, err := kmer.NewAlphabet(strings.ToUpper(s.Alphabet))
		if err != nil {
			return nil, err
		}
		alphabet = a
	}

	p := markov.Params{
		Name:        s.Name,
		Order:       s.Order,
		Alphabet:    alphabet,
		Pseudocount: s.PseudocountOrDefault(),
		MaxSpace:    s.MaxSpace,
		Precision:   s.PrecisionOrDefault(),
	}

	observed := kmer.Counts(s.Counts)
	if len(s.Sequences) > 0 {
		c, err := kmer.NewCounter(s.Order, alphabet)
		if err != nil {
			return nil, err
		}
		if err := h.trainer.Accumulate(ctx, c, newSequenceSource(s.Sequences), "sequences"); err != nil {
			return nil, err
		}
		observed = c.Counts()
	}

	return h.trainer.Train(ctx, observed.Clone(), p)
}

// persist saves m and returns the model as the store hands it back.
func (h *Harness) persist(ctx context.Context, m *markov.Model) (*markov.Model, error) {
	if err := h.trainer.Save(ctx, h.store, m, h.runIDs.Generate()); err != nil {
		return nil, fmt.Errorf("failed to persist model: %w", err)
	}

	tbl, err := h.store.ReadCountTable(ctx, m.TableID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back count table: %w", err)
	}
	sm, err := h.store.ReadModel(ctx, m.ModelID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back model: %w", err)
	}

	out := *m
	out.Observed = tbl.Counts
	out.CodeLengths = sm.CodeLengths
	return &out, nil
}

// classify maps a pipeline error onto an expected error kind.
func classify(err error) string {
	var se *kmer.SymbolError
	switch {
	case kmer.IsSpaceLimitError(err):
		return ErrorSpaceLimit
	case kmer.IsProbabilityError(err):
		return ErrorProbability
	case errors.As(err, &se):
		return ErrorSymbol
	case errors.Is(err, kmer.ErrInvalidOrder):
		return ErrorOrder
	default:
		return ""
	}
}

// sequenceSource feeds inline sequences to the counter.
type sequenceSource struct {
	seqs []string
	next int
}

func newSequenceSource(seqs []string) *sequenceSource {
	return &sequenceSource{seqs: seqs}
}

func (s *sequenceSource) Read() (seqio.Record, error) {
	if s.next >= len(s.seqs) {
		return seqio.Record{}, io.EOF
	}
	rec := seqio.Record{ID: fmt.Sprintf("seq%d", s.next+1), Seq: s.seqs[s.next]}
	s.next++
	return rec, nil
}
