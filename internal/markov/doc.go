// Package markov assembles the k-mer primitives into a model training
// pipeline: count padded windows, inject pseudocounts over the complete
// k-mer space, then estimate per-context code lengths.
//
// Each stage is available on its own (Accumulate, Smooth, Estimate) so the
// CLI can stop after any of them, and Train runs smoothing and estimation in
// one call. A Trainer logs progress through slog and stamps every model with
// content-addressed identifiers from internal/ident so repeated runs over the
// same inputs persist to the same store rows.
//
// Usage:
//
//	tr := markov.New(markov.WithLogger(logger))
//	c, _ := kmer.NewCounter(p.Order, p.Alphabet)
//	if err := tr.Accumulate(ctx, c, reader, "reads.fa"); err != nil {
//		return err
//	}
//	m, err := tr.Train(ctx, c.Counts(), p)
package markov
