package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/kmarkov/internal/kmer"
	"github.com/roach88/kmarkov/internal/markov"
	"github.com/roach88/kmarkov/internal/tabfile"
)

// AlphabetResult is the output of the alphabet command.
type AlphabetResult struct {
	Alphabet string `json:"alphabet"`
	Symbols  int    `json:"symbols"`
	Order    int    `json:"order"`
}

// NewAlphabetCommand creates the alphabet command.
func NewAlphabetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alphabet <table>",
		Short: "Print the symbols used by a count table",
		Long: `Print the sorted set of symbols that occur in the k-mers of a count table.
Context markers (^ and $) are not symbols and are left out.

Example:
  kmarkov alphabet counts.tsv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.newFormatter(cmd)
			counts, order, err := readTable(cmd, args[0])
			if err != nil {
				return formatter.Fail(ErrCodeTableParse, "reading table", err)
			}
			a := kmer.InferAlphabet(counts)
			if formatter.Format == "json" {
				return formatter.Success(AlphabetResult{Alphabet: a.String(), Symbols: a.Len(), Order: order})
			}
			return formatter.Success(a.String())
		},
	}
	return cmd
}

// SmoothOptions holds flags for the smooth command.
type SmoothOptions struct {
	*RootOptions
	Order       int
	Alphabet    string
	Pseudocount int64
	MaxSpace    int64
	Output      string
}

// TableResult is the JSON output of commands that produce a table.
type TableResult struct {
	Order       int              `json:"order"`
	Alphabet    string           `json:"alphabet,omitempty"`
	Pseudocount int64            `json:"pseudocount,omitempty"`
	Kmers       int              `json:"kmers"`
	Output      string           `json:"output,omitempty"`
	Counts      kmer.Counts      `json:"counts,omitempty"`
	Bits        kmer.CodeLengths `json:"bits,omitempty"`
}

// NewSmoothCommand creates the smooth command.
func NewSmoothCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SmoothOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "smooth <table>",
		Short: "Add pseudocounts over the complete k-mer space",
		Long: `Add a pseudocount to every k-mer of the complete space of the given order,
including the partial k-mers at sequence boundaries, so that no k-mer is left
with a zero count.

The order defaults to the length of the table's k-mers and the alphabet to
the symbols the table uses.

Examples:
  kmarkov smooth counts.tsv > smoothed.tsv
  kmarkov smooth counts.tsv --alphabet ACGT --pseudo 1 -o smoothed.tsv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmooth(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Order, "order", "k", 0, "k-mer order (default: inferred from the table)")
	cmd.Flags().StringVar(&opts.Alphabet, "alphabet", "", "alphabet (default: inferred from the table)")
	cmd.Flags().Int64Var(&opts.Pseudocount, "pseudo", 1, "pseudocount added to every k-mer")
	cmd.Flags().Int64Var(&opts.MaxSpace, "max-space", kmer.DefaultMaxSpace, "largest k-mer space to generate")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")

	return cmd
}

func runSmooth(opts *SmoothOptions, path string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)

	observed, order, err := readTable(cmd, path)
	if err != nil {
		return formatter.Fail(ErrCodeTableParse, "reading table", err)
	}
	if cmd.Flags().Changed("order") {
		order = opts.Order
	}

	var alphabet kmer.Alphabet
	if opts.Alphabet != "" {
		if alphabet, err = kmer.NewAlphabet(strings.ToUpper(opts.Alphabet)); err != nil {
			return formatter.Fail(ErrCodeAlphabet, "invalid alphabet", err)
		}
	}

	params := markov.Params{
		Name:        baseName(path),
		Order:       order,
		Alphabet:    alphabet,
		Pseudocount: opts.Pseudocount,
		MaxSpace:    opts.MaxSpace,
	}
	trainer := markov.New(markov.WithLogger(opts.newLogger(cmd)))
	smoothed, alphabet, err := trainer.Smooth(observed, params)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, "smoothing failed", err)
	}

	result := TableResult{
		Order:       order,
		Alphabet:    alphabet.String(),
		Pseudocount: opts.Pseudocount,
		Kmers:       len(smoothed),
	}
	if formatter.Format == "json" && toStdout(opts.Output) {
		result.Counts = smoothed
		return formatter.Success(result)
	}
	if err := writeOutput(cmd, opts.Output, func(w io.Writer) error {
		return tabfile.WriteCounts(w, smoothed)
	}); err != nil {
		return formatter.Fail(ErrCodeWriteFailed, "writing smoothed table", err)
	}
	if formatter.Format == "json" {
		result.Output = opts.Output
		return formatter.Success(result)
	}
	return nil
}

// EstimateOptions holds flags for the estimate command.
type EstimateOptions struct {
	*RootOptions
	Order     int
	Precision int
	Output    string
}

// NewEstimateCommand creates the estimate command.
func NewEstimateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EstimateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "estimate <table>",
		Short: "Estimate code lengths from a smoothed table",
		Long: `Estimate P(k-mer | context) for every k-mer of a smoothed count table and
write its code length -log2(P) in bits. The context of a k-mer is its first
order-1 symbols; probabilities within a context sum to 1.

The table must be smoothed: a zero count is an error.

Examples:
  kmarkov estimate smoothed.tsv > bits.tsv
  kmarkov smooth counts.tsv | kmarkov estimate - --precision 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Order, "order", "k", 0, "k-mer order (default: inferred from the table)")
	cmd.Flags().IntVar(&opts.Precision, "precision", markov.DefaultPrecision, "decimals written per code length")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")

	return cmd
}

func runEstimate(opts *EstimateOptions, path string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)

	smoothed, order, err := readTable(cmd, path)
	if err != nil {
		return formatter.Fail(ErrCodeTableParse, "reading table", err)
	}
	if cmd.Flags().Changed("order") {
		order = opts.Order
	}

	trainer := markov.New(markov.WithLogger(opts.newLogger(cmd)))
	cl, err := trainer.Estimate(smoothed, markov.Params{Name: baseName(path), Order: order})
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, "estimation failed", err)
	}

	result := TableResult{Order: order, Kmers: len(cl)}
	if formatter.Format == "json" && toStdout(opts.Output) {
		result.Bits = cl
		return formatter.Success(result)
	}
	if err := writeOutput(cmd, opts.Output, func(w io.Writer) error {
		return tabfile.WriteCodeLengths(w, cl, opts.Precision)
	}); err != nil {
		return formatter.Fail(ErrCodeWriteFailed, "writing code lengths", err)
	}
	if formatter.Format == "json" {
		result.Output = opts.Output
		return formatter.Success(result)
	}
	return nil
}
