package markov

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kmarkov/internal/config"
	"github.com/roach88/kmarkov/internal/ident"
	"github.com/roach88/kmarkov/internal/kmer"
	"github.com/roach88/kmarkov/internal/seqio"
	"github.com/roach88/kmarkov/internal/store"
)

type recordList []seqio.Record

func (r *recordList) Read() (seqio.Record, error) {
	if len(*r) == 0 {
		return seqio.Record{}, io.EOF
	}
	rec := (*r)[0]
	*r = (*r)[1:]
	return rec, nil
}

func quietTrainer() *Trainer {
	return New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func countSeqs(t *testing.T, tr *Trainer, order int, a kmer.Alphabet, seqs ...string) kmer.Counts {
	t.Helper()
	c, err := kmer.NewCounter(order, a)
	require.NoError(t, err)
	src := recordList{}
	for i, s := range seqs {
		src = append(src, seqio.Record{ID: string(rune('a' + i)), Seq: s})
	}
	require.NoError(t, tr.Accumulate(context.Background(), c, &src, "test"))
	return c.Counts()
}

func TestTrain_SingleSymbolOrder2(t *testing.T) {
	tr := quietTrainer()
	observed := countSeqs(t, tr, 2, "A", "AA")
	assert.Equal(t, kmer.Counts{"^A": 1, "AA": 1, "A$": 1}, observed)

	m, err := tr.Train(context.Background(), observed, Params{Name: "a", Order: 2, Alphabet: "A", Pseudocount: 1, Precision: 6})
	require.NoError(t, err)

	assert.Equal(t, kmer.Counts{"^A": 2, "AA": 2, "A$": 2}, m.Smoothed)
	assert.InDelta(t, 1.0, m.CodeLengths["AA"], 1e-12)
	assert.InDelta(t, 1.0, m.CodeLengths["A$"], 1e-12)
	assert.Equal(t, 0.0, m.CodeLengths["^A"])
}

func TestTrain_Order0FromNothing(t *testing.T) {
	m, err := quietTrainer().Train(context.Background(), nil, Params{Name: "zero", Order: 0, Alphabet: "ACGT", Pseudocount: 1})
	require.NoError(t, err)

	assert.Equal(t, kmer.Counts{"^": 1, "$": 1}, m.Smoothed)
	assert.Equal(t, kmer.CodeLengths{"^": 1, "$": 1}, m.CodeLengths)
	assert.Empty(t, m.Observed)
}

func TestTrain_InfersAlphabet(t *testing.T) {
	tr := quietTrainer()
	observed := kmer.Counts{"^G": 1, "GT": 3, "T$": 1}

	m, err := tr.Train(context.Background(), observed, Params{Order: 2, Pseudocount: 1})
	require.NoError(t, err)

	assert.Equal(t, kmer.Alphabet("GT"), m.Alphabet)
	for k := range kmer.Keys("GT", 2) {
		assert.Contains(t, m.CodeLengths, k)
	}
}

func TestTrain_IdentifiersAreDeterministic(t *testing.T) {
	tr := quietTrainer()
	p := Params{Name: "dna", Order: 2, Alphabet: "ACGT", Pseudocount: 1, Precision: 6}
	observed := countSeqs(t, tr, 2, "ACGT", "ACGTAC", "GGA")

	m1, err := tr.Train(context.Background(), observed, p)
	require.NoError(t, err)
	m2, err := tr.Train(context.Background(), observed.Clone(), p)
	require.NoError(t, err)

	assert.Equal(t, m1.TableID, m2.TableID)
	assert.Equal(t, m1.ModelID, m2.ModelID)
	assert.Equal(t, ident.MustTableID(2, "ACGT", 1, observed), m1.TableID)

	p.Precision = 3
	m3, err := tr.Train(context.Background(), observed, p)
	require.NoError(t, err)
	assert.Equal(t, m1.TableID, m3.TableID)
	assert.NotEqual(t, m1.ModelID, m3.ModelID)
}

func TestTrain_ProbabilitiesNormalise(t *testing.T) {
	tr := quietTrainer()
	observed := countSeqs(t, tr, 3, "ACGT", "ACGTTGCA", "CCCGGG", "T")

	m, err := tr.Train(context.Background(), observed, Params{Order: 3, Alphabet: "ACGT", Pseudocount: 1})
	require.NoError(t, err)

	sums := map[string]float64{}
	for k := range m.CodeLengths {
		ctx, err := kmer.Context(k, 3)
		require.NoError(t, err)
		sums[ctx] += m.CodeLengths.Probability(k)
	}
	for ctx, sum := range sums {
		assert.InDelta(t, 1.0, sum, 1e-9, "context %q", ctx)
	}
}

func TestSmooth_SpaceLimit(t *testing.T) {
	_, _, err := quietTrainer().Smooth(nil, Params{Name: "big", Order: 6, Alphabet: "ACDEFGHIKLMNPQRSTVWY", MaxSpace: 1000})

	assert.True(t, IsStage(err, StageSmooth))
	assert.True(t, kmer.IsSpaceLimitError(err))
	assert.Contains(t, err.Error(), "smooth model big")
}

func TestEstimate_UnsmoothedTableFails(t *testing.T) {
	tr := quietTrainer()
	observed := countSeqs(t, tr, 2, "AC", "AA")

	_, err := tr.Train(context.Background(), observed, Params{Order: 2, Alphabet: "AC", Pseudocount: 0})
	assert.True(t, IsStage(err, StageEstimate))
	assert.True(t, kmer.IsProbabilityError(err))
}

func TestAccumulate_Cancelled(t *testing.T) {
	tr := quietTrainer()
	c, err := kmer.NewCounter(2, "ACGT")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := recordList{{ID: "r1", Seq: "ACGT"}}
	err = tr.Accumulate(ctx, c, &src, "reads.fa")
	assert.True(t, IsStage(err, StageCount))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.Counts())
}

func TestAccumulate_ForeignSymbolNamesRecord(t *testing.T) {
	tr := quietTrainer()
	c, err := kmer.NewCounter(2, "ACGT")
	require.NoError(t, err)

	src := recordList{{ID: "ok", Seq: "ACGT"}, {ID: "bad", Seq: "ACNT"}}
	err = tr.Accumulate(context.Background(), c, &src, "reads.fa")
	require.Error(t, err)

	var se *kmer.SymbolError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, byte('N'), se.Symbol)
	assert.Contains(t, err.Error(), `record "bad"`)
}

func TestAccumulate_LogsPerInput(t *testing.T) {
	var buf bytes.Buffer
	tr := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	c, err := kmer.NewCounter(1, "AC")
	require.NoError(t, err)

	src := recordList{{ID: "r", Seq: "AC"}, {ID: "e"}}
	require.NoError(t, tr.Accumulate(context.Background(), c, &src, "in.fa"))

	out := buf.String()
	assert.Contains(t, out, "input counted")
	assert.Contains(t, out, "input=in.fa")
	assert.Contains(t, out, "records=2")
	assert.Contains(t, out, "empty=1")
	assert.Contains(t, out, "windows=3")
}

func TestSave_RoundTripAndIdempotent(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	tr := quietTrainer()
	ctx := context.Background()
	observed := countSeqs(t, tr, 2, "ACGT", "GATTACA")
	m, err := tr.Train(ctx, observed, Params{Name: "g", Order: 2, Alphabet: "ACGT", Pseudocount: 1, Precision: 6})
	require.NoError(t, err)

	require.NoError(t, tr.Save(ctx, st, m, "run-1"))
	require.NoError(t, tr.Save(ctx, st, m, "run-2"))

	tables, err := st.ListCountTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "run-1", tables[0].RunID)

	tbl, err := st.ReadCountTable(ctx, m.TableID)
	require.NoError(t, err)
	assert.Equal(t, observed, tbl.Counts)

	stored, err := st.ModelForTable(ctx, m.TableID)
	require.NoError(t, err)
	assert.Equal(t, m.ModelID, stored.ID)
	assert.Equal(t, m.CodeLengths, stored.CodeLengths)
}

func TestParamsFromConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`model: {name: "x", alphabet: "tca", order: 4, pseudocount: 3}`), "x.cue")
	require.NoError(t, err)

	assert.Equal(t, Params{
		Name:        "x",
		Order:       4,
		Alphabet:    "ACT",
		Pseudocount: 3,
		MaxSpace:    kmer.DefaultMaxSpace,
		Precision:   6,
	}, ParamsFromConfig(cfg))
}
