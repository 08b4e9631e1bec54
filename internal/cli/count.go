package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/roach88/kmarkov/internal/ident"
	"github.com/roach88/kmarkov/internal/kmer"
	"github.com/roach88/kmarkov/internal/markov"
	"github.com/roach88/kmarkov/internal/seqio"
	"github.com/roach88/kmarkov/internal/store"
	"github.com/roach88/kmarkov/internal/tabfile"
)

// CountOptions holds flags for the count command.
type CountOptions struct {
	*RootOptions
	Order         int
	Alphabet      string
	SeqFormat     string // empty guesses from the file extension
	QualityOffset int
	Quality       []string // FASTA quality companions, one per input
	Output        string
	Database      string
	Name          string
	Progress      bool
}

// CountResult summarises a count run.
type CountResult struct {
	Order    int               `json:"order"`
	Alphabet string            `json:"alphabet"`
	Inputs   []string          `json:"inputs"`
	Stats    kmer.CounterStats `json:"stats"`
	Kmers    int               `json:"kmers"`
	Output   string            `json:"output,omitempty"`
	TableID  string            `json:"table_id,omitempty"`
	Seq      int64             `json:"seq,omitempty"`
	Counts   kmer.Counts       `json:"counts,omitempty"`
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "count <inputs...>",
		Short: "Count k-mers in sequence files",
		Long: `Count every k-mer of the given order in FASTA or FASTQ files.

Each sequence is padded with order-1 start markers (^) and one stop marker
($) per symbol of context, so k-mers at sequence ends are counted too. The
raw counts are written as a two-column table; no smoothing happens here.

Files ending in .gz are decompressed; "-" reads standard input. FASTA
inputs may name a quality file each with --qual, given in input order;
every record must then have a quality record with the same ID and one score
per kept base.

Examples:
  kmarkov count --order 3 reads.fa > reads.o3.tsv
  kmarkov count -k 2 --alphabet ACGT a.fq.gz b.fq.gz -o counts.tsv --progress
  kmarkov count -k 3 genome.fa --db kmarkov.db --name genome-o3
  kmarkov count -k 2 a.fa b.fa --qual a.qual --qual b.qual`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(opts, args, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Order, "order", "k", 2, "k-mer length")
	cmd.Flags().StringVar(&opts.Alphabet, "alphabet", "ACGT", "symbols to count; other bytes in the input are dropped")
	cmd.Flags().StringVar(&opts.SeqFormat, "seq-format", "", "input format (fasta|fastq); guessed from the extension when empty")
	cmd.Flags().IntVar(&opts.QualityOffset, "qual-offset", seqio.OffsetSanger, "FASTQ quality ASCII offset (33|64)")
	cmd.Flags().StringArrayVar(&opts.Quality, "qual", nil, "FASTA quality file paired with the input at the same position (repeatable)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "also store the table in this SQLite database")
	cmd.Flags().StringVar(&opts.Name, "name", "", "table name in the database (default: first input's base name)")
	cmd.Flags().BoolVar(&opts.Progress, "progress", false, "show a progress bar on stderr")

	return cmd
}

func runCount(opts *CountOptions, inputs []string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	logger := opts.newLogger(cmd)
	ctx := commandContext(cmd)

	alphabet, err := kmer.NewAlphabet(strings.ToUpper(opts.Alphabet))
	if err != nil {
		return formatter.Fail(ErrCodeAlphabet, "invalid alphabet", err)
	}
	seqOpts := seqio.Options{
		Alphabet:      alphabet.String(),
		QualityOffset: opts.QualityOffset,
	}
	if opts.SeqFormat != "" {
		if seqOpts.Format, err = seqio.ParseFormat(opts.SeqFormat); err != nil {
			return formatter.Fail(ErrCodeInput, "invalid --seq-format", err)
		}
	}

	if len(opts.Quality) > 0 && len(opts.Quality) != len(inputs) {
		return formatter.Fail(ErrCodeInput, "invalid --qual",
			fmt.Errorf("%d quality files for %d inputs", len(opts.Quality), len(inputs)))
	}

	counter, err := kmer.NewCounter(opts.Order, alphabet)
	if err != nil {
		return formatter.Fail(ErrCodeOrder, "cannot count", err)
	}

	trainer := markov.New(markov.WithLogger(logger))
	var bar *pb.ProgressBar
	if opts.Progress {
		bar = startProgress(cmd.ErrOrStderr(), inputs)
	}
	err = countInputs(ctx, trainer, counter, inputs, opts.Quality, seqOpts, bar)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return formatter.Fail(ErrCodeInput, "counting failed", err)
	}

	counts := counter.Counts()
	result := CountResult{
		Order:    opts.Order,
		Alphabet: alphabet.String(),
		Inputs:   inputs,
		Stats:    counter.Stats(),
		Kmers:    len(counts),
	}

	if opts.Database != "" {
		name := opts.Name
		if name == "" {
			name = baseName(inputs[0])
		}
		id, seq, err := storeCounts(ctx, opts, name, alphabet, counts, logger)
		if err != nil {
			return formatter.Fail(ErrCodeStore, "storing count table", err)
		}
		result.TableID, result.Seq = id, seq
	}

	if formatter.Format == "json" && toStdout(opts.Output) {
		result.Counts = counts
		return formatter.Success(result)
	}

	if err := writeOutput(cmd, opts.Output, func(w io.Writer) error {
		return tabfile.WriteCounts(w, counts)
	}); err != nil {
		return formatter.Fail(ErrCodeWriteFailed, "writing counts", err)
	}

	if formatter.Format == "json" {
		result.Output = opts.Output
		return formatter.Success(result)
	}
	formatter.VerboseLog("Counted %d windows in %d records (%d k-mers)",
		result.Stats.Windows, result.Stats.Records, result.Kmers)
	return nil
}

// countInputs drains every input into counter. quals, when non-empty, holds
// the quality file paired with each input. bar, when set, is fed the raw
// bytes read from each sequence file.
func countInputs(ctx context.Context, tr *markov.Trainer, counter *kmer.Counter, inputs, quals []string, seqOpts seqio.Options, bar *pb.ProgressBar) error {
	if bar != nil {
		seqOpts.Wrap = func(r io.Reader) io.Reader {
			return bar.NewProxyReader(r)
		}
	}
	for i, input := range inputs {
		seqOpts.Quality = ""
		if len(quals) > 0 {
			seqOpts.Quality = quals[i]
		}
		if err := countInput(ctx, tr, counter, input, seqOpts); err != nil {
			return err
		}
	}
	return nil
}

func countInput(ctx context.Context, tr *markov.Trainer, counter *kmer.Counter, input string, seqOpts seqio.Options) error {
	r, err := seqio.Open(input, seqOpts)
	if err != nil {
		return err
	}
	defer r.Close()
	return tr.Accumulate(ctx, counter, r, input)
}

// startProgress starts a byte progress bar sized to the inputs on disk.
// Standard input has no known size and adds nothing to the total.
func startProgress(w io.Writer, inputs []string) *pb.ProgressBar {
	var total int64
	for _, input := range inputs {
		if input == "-" {
			continue
		}
		if info, err := os.Stat(input); err == nil {
			total += info.Size()
		}
	}

	bar := pb.New64(total).SetTemplate(pb.Full)
	bar.SetWriter(w)
	bar.Set(pb.Bytes, true)
	return bar.Start()
}

// storeCounts writes the raw counts as a count table with pseudocount 0.
func storeCounts(ctx context.Context, opts *CountOptions, name string, alphabet kmer.Alphabet, counts kmer.Counts, logger *slog.Logger) (string, int64, error) {
	st, release, err := openStore(opts.Database, logger)
	if err != nil {
		return "", 0, err
	}
	defer release()

	id, err := ident.TableID(opts.Order, alphabet, 0, counts)
	if err != nil {
		return "", 0, fmt.Errorf("table id: %w", err)
	}
	seq, created, err := st.WriteCountTable(ctx, store.CountTable{
		ID:       id,
		RunID:    opts.runIDs().Generate(),
		Name:     name,
		Order:    opts.Order,
		Alphabet: alphabet,
		Counts:   counts,
	})
	if err != nil {
		return "", 0, err
	}
	logger.Info("count table stored", "table_id", id, "name", name, "seq", seq, "created", created)
	return id, seq, nil
}

// baseName strips directories and sequence file extensions from path.
func baseName(path string) string {
	if path == "-" {
		return "stdin"
	}
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, filepath.Ext(name))
}
