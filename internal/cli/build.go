package cli

import (
	"errors"
	"io"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/roach88/kmarkov/internal/config"
	"github.com/roach88/kmarkov/internal/kmer"
	"github.com/roach88/kmarkov/internal/markov"
	"github.com/roach88/kmarkov/internal/tabfile"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Output    string
	CountsOut string
	Database  string
	Progress  bool
}

// BuildResult summarises a build.
type BuildResult struct {
	Model     string            `json:"model"`
	Order     int               `json:"order"`
	Alphabet  string            `json:"alphabet"`
	Inputs    []string          `json:"inputs"`
	Stats     kmer.CounterStats `json:"stats"`
	Kmers     int               `json:"kmers"`
	TableID   string            `json:"table_id"`
	ModelID   string            `json:"model_id"`
	Stored    bool              `json:"stored"`
	Output    string            `json:"output,omitempty"`
	CountsOut string            `json:"counts_out,omitempty"`
	Bits      kmer.CodeLengths  `json:"bits,omitempty"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <model.cue> [inputs...]",
		Short: "Train a model described by a CUE file",
		Long: `Count, smooth and estimate in one step, using the parameters of a CUE model
definition (name, alphabet, order, pseudocount, input format, precision).

An order-0 model has no windows to count and is built from its start and
stop keys alone; any inputs are ignored.

Examples:
  kmarkov build yeast.cue chr*.fa.gz -o yeast.bits
  kmarkov build yeast.cue chr*.fa.gz --db kmarkov.db --counts-out yeast.counts`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "code length output path (default stdout)")
	cmd.Flags().StringVar(&opts.CountsOut, "counts-out", "", "also write the observed counts to this path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "store the table and model in this SQLite database")
	cmd.Flags().BoolVar(&opts.Progress, "progress", false, "show a progress bar on stderr")

	return cmd
}

func runBuild(opts *BuildOptions, modelPath string, inputs []string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	logger := opts.newLogger(cmd)
	ctx := commandContext(cmd)

	def, err := config.Load(modelPath)
	if err != nil {
		return formatter.Fail(ErrCodeModelConfig, "loading model definition", err)
	}
	params := markov.ParamsFromConfig(def)
	trainer := markov.New(markov.WithLogger(logger))

	observed := kmer.Counts{}
	var stats kmer.CounterStats
	if params.Order == 0 {
		if len(inputs) > 0 {
			logger.Warn("order 0 model ignores its inputs", "model", params.Name, "inputs", len(inputs))
		}
	} else {
		if len(inputs) == 0 {
			return formatter.Fail(ErrCodeInput, "no inputs", errors.New("an order > 0 model needs at least one input"))
		}
		counter, err := kmer.NewCounter(params.Order, params.Alphabet)
		if err != nil {
			return formatter.Fail(ErrCodeOrder, "cannot count", err)
		}
		var bar *pb.ProgressBar
		if opts.Progress {
			bar = startProgress(cmd.ErrOrStderr(), inputs)
		}
		err = countInputs(ctx, trainer, counter, inputs, nil, def.SeqOptions(), bar)
		if bar != nil {
			bar.Finish()
		}
		if err != nil {
			return formatter.Fail(ErrCodeInput, "counting failed", err)
		}
		observed = counter.Counts()
		stats = counter.Stats()
	}

	model, err := trainer.Train(ctx, observed, params)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, "training failed", err)
	}

	result := BuildResult{
		Model:     model.Name,
		Order:     model.Order,
		Alphabet:  model.Alphabet.String(),
		Inputs:    inputs,
		Stats:     stats,
		Kmers:     len(model.CodeLengths),
		TableID:   model.TableID,
		ModelID:   model.ModelID,
		CountsOut: opts.CountsOut,
	}
	if result.Inputs == nil {
		result.Inputs = []string{}
	}

	if opts.Database != "" {
		st, release, err := openStore(opts.Database, logger)
		if err != nil {
			return formatter.Fail(ErrCodeStore, "opening database", err)
		}
		err = trainer.Save(ctx, st, model, opts.runIDs().Generate())
		release()
		if err != nil {
			return formatter.Fail(ErrCodeStore, "storing model", err)
		}
		result.Stored = true
	}

	if opts.CountsOut != "" {
		if err := writeOutput(cmd, opts.CountsOut, func(w io.Writer) error {
			return tabfile.WriteCounts(w, model.Observed)
		}); err != nil {
			return formatter.Fail(ErrCodeWriteFailed, "writing counts", err)
		}
	}

	if formatter.Format == "json" && toStdout(opts.Output) {
		result.Bits = model.CodeLengths
		return formatter.Success(result)
	}
	if err := writeOutput(cmd, opts.Output, func(w io.Writer) error {
		return tabfile.WriteCodeLengths(w, model.CodeLengths, model.Precision)
	}); err != nil {
		return formatter.Fail(ErrCodeWriteFailed, "writing code lengths", err)
	}
	if formatter.Format == "json" {
		result.Output = opts.Output
		return formatter.Success(result)
	}
	formatter.VerboseLog("Built %s: %d k-mers (table %s)", model.Name, result.Kmers, model.TableID)
	return nil
}
