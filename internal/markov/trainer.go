package markov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/kmarkov/internal/ident"
	"github.com/roach88/kmarkov/internal/kmer"
	"github.com/roach88/kmarkov/internal/store"
)

// Trainer runs the training pipeline. It holds no per-model state and may be
// reused across models, but not concurrently with itself.
type Trainer struct {
	logger *slog.Logger
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Trainer) {
		t.logger = logger
	}
}

// New creates a Trainer.
func New(opts ...Option) *Trainer {
	t := &Trainer{logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Accumulate drains src into c. ctx is checked between records, so a
// cancelled context stops counting at the next record boundary; counts added
// before that stay in c. label identifies src in logs and errors.
func (t *Trainer) Accumulate(ctx context.Context, c *kmer.Counter, src kmer.RecordSource, label string) error {
	before := c.Stats()
	for {
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: StageCount, Err: fmt.Errorf("%s: %w", label, err)}
		}
		rec, err := src.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &StageError{Stage: StageCount, Err: fmt.Errorf("%s: read record: %w", label, err)}
		}
		if err := c.Add(rec.Seq); err != nil {
			return &StageError{Stage: StageCount, Err: fmt.Errorf("%s: record %q: %w", label, rec.ID, err)}
		}
	}

	after := c.Stats()
	t.logger.Info("input counted",
		"input", label,
		"records", after.Records-before.Records,
		"empty", after.Empty-before.Empty,
		"windows", after.Windows-before.Windows,
	)
	return nil
}

// Smooth injects p.Pseudocount over the complete space of order p.Order.
// When p.Alphabet is empty it is inferred from observed, and the alphabet
// actually used is returned alongside the table.
func (t *Trainer) Smooth(observed kmer.Counts, p Params) (kmer.Counts, kmer.Alphabet, error) {
	alphabet := p.Alphabet
	if alphabet == "" {
		alphabet = kmer.InferAlphabet(observed)
		t.logger.Debug("alphabet inferred", "model", p.Name, "alphabet", alphabet.String())
	}

	smoothed, err := kmer.Inject(observed, p.Pseudocount, p.Order, alphabet, p.MaxSpace)
	if err != nil {
		return nil, "", &StageError{Stage: StageSmooth, Model: p.Name, Err: err}
	}

	t.logger.Debug("pseudocounts injected",
		"model", p.Name,
		"order", p.Order,
		"pseudocount", p.Pseudocount,
		"observed_kmers", len(observed),
		"smoothed_kmers", len(smoothed),
	)
	return smoothed, alphabet, nil
}

// Estimate converts a smoothed table into code lengths.
func (t *Trainer) Estimate(smoothed kmer.Counts, p Params) (kmer.CodeLengths, error) {
	cl, err := kmer.Estimate(smoothed, p.Order)
	if err != nil {
		return nil, &StageError{Stage: StageEstimate, Model: p.Name, Err: err}
	}
	return cl, nil
}

// Train smooths observed, estimates code lengths and stamps the result with
// its table and model identifiers.
func (t *Trainer) Train(ctx context.Context, observed kmer.Counts, p Params) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if observed == nil {
		observed = kmer.Counts{}
	}

	smoothed, alphabet, err := t.Smooth(observed, p)
	if err != nil {
		return nil, err
	}
	cl, err := t.Estimate(smoothed, p)
	if err != nil {
		return nil, err
	}

	tableID, err := ident.TableID(p.Order, alphabet, p.Pseudocount, observed)
	if err != nil {
		return nil, fmt.Errorf("table id: %w", err)
	}
	modelID, err := ident.ModelID(tableID, p.Precision)
	if err != nil {
		return nil, fmt.Errorf("model id: %w", err)
	}

	m := &Model{
		Name:        p.Name,
		Order:       p.Order,
		Alphabet:    alphabet,
		Pseudocount: p.Pseudocount,
		Precision:   p.Precision,
		Observed:    observed,
		Smoothed:    smoothed,
		CodeLengths: cl,
		TableID:     tableID,
		ModelID:     modelID,
	}

	t.logger.Info("model trained",
		"model", p.Name,
		"order", p.Order,
		"alphabet", alphabet.String(),
		"kmers", len(cl),
		"table_id", tableID,
	)
	return m, nil
}

// Save persists the observed table and the model. Both writes are idempotent,
// so saving a model trained from identical inputs twice changes nothing.
func (t *Trainer) Save(ctx context.Context, st *store.Store, m *Model, runID string) error {
	tableSeq, created, err := st.WriteCountTable(ctx, m.CountTable(runID))
	if err != nil {
		return &StageError{Stage: StagePersist, Model: m.Name, Err: err}
	}
	if !created {
		t.logger.Info("count table already stored, skipping", "table_id", m.TableID, "seq", tableSeq)
	}

	modelSeq, created, err := st.WriteModel(ctx, m.StoredModel())
	if err != nil {
		return &StageError{Stage: StagePersist, Model: m.Name, Err: err}
	}

	t.logger.Info("model stored",
		"model", m.Name,
		"model_id", m.ModelID,
		"table_seq", tableSeq,
		"model_seq", modelSeq,
		"created", created,
	)
	return nil
}
