package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/kmarkov/internal/kmer"
	"github.com/roach88/kmarkov/internal/store"
	"github.com/roach88/kmarkov/internal/tabfile"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
}

// ListResult is the JSON output of the list command.
type ListResult struct {
	Tables []store.CountTable `json:"tables"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored count tables",
		Long: `List every count table in a database, oldest first.

Example:
  kmarkov list --db kmarkov.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)

	st, release, err := openStore(opts.Database, opts.newLogger(cmd))
	if err != nil {
		return formatter.Fail(ErrCodeStore, "opening database", err)
	}
	defer release()

	tables, err := st.ListCountTables(commandContext(cmd))
	if err != nil {
		return formatter.Fail(ErrCodeStore, "listing tables", err)
	}
	if tables == nil {
		tables = []store.CountTable{}
	}

	return formatter.Success(ListResult{Tables: tables})
}

// renderText prints one tab-separated row per table, oldest first.
func (r ListResult) renderText(w io.Writer) error {
	if len(r.Tables) == 0 {
		_, err := fmt.Fprintln(w, "No tables stored.")
		return err
	}
	fmt.Fprintln(w, "seq\tid\tname\torder\talphabet\tpseudocount\ttotal\tkmers")
	for _, t := range r.Tables {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%d\t%d\t%d\n",
			t.Seq, t.ID, t.Name, t.Order, t.Alphabet, t.Pseudocount, t.Total, t.Size); err != nil {
			return err
		}
	}
	return nil
}

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Table    string
	Model    bool
	Output   string
}

// ExportResult is the JSON output of the export command.
type ExportResult struct {
	Table  store.CountTable `json:"table"`
	Model  *store.Model     `json:"model,omitempty"`
	Output string           `json:"output,omitempty"`
	Counts kmer.Counts      `json:"counts,omitempty"`
	Bits   kmer.CodeLengths `json:"bits,omitempty"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a stored table or model as text",
		Long: `Write a stored count table, or with --model the latest model estimated from
it, in the same text format the count and estimate commands produce.

--table takes a table id or a name; a name selects the most recent table
stored under it.

Examples:
  kmarkov export --db kmarkov.db --table genome-o3 > counts.tsv
  kmarkov export --db kmarkov.db --table genome-o3 --model -o genome.bits`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table id or name (required)")
	cmd.Flags().BoolVar(&opts.Model, "model", false, "export the table's latest model instead of its counts")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	ctx := commandContext(cmd)

	st, release, err := openStore(opts.Database, opts.newLogger(cmd))
	if err != nil {
		return formatter.Fail(ErrCodeStore, "opening database", err)
	}
	defer release()

	table, err := st.ResolveCountTable(ctx, strings.TrimSpace(opts.Table))
	if err != nil {
		return formatter.Fail(ErrCodeStore, fmt.Sprintf("table %q", opts.Table), err)
	}

	result := ExportResult{Table: table}
	var write func(io.Writer) error
	if opts.Model {
		m, err := st.ModelForTable(ctx, table.ID)
		if err != nil {
			return formatter.Fail(ErrCodeStore, fmt.Sprintf("model for table %q", opts.Table), err)
		}
		result.Model = &m
		result.Bits = m.CodeLengths
		write = func(w io.Writer) error {
			return tabfile.WriteCodeLengths(w, m.CodeLengths, m.Precision)
		}
	} else {
		result.Counts = table.Counts
		write = func(w io.Writer) error {
			return tabfile.WriteCounts(w, table.Counts)
		}
	}

	if formatter.Format == "json" && toStdout(opts.Output) {
		return formatter.Success(result)
	}
	result.Counts, result.Bits = nil, nil

	if err := writeOutput(cmd, opts.Output, write); err != nil {
		return formatter.Fail(ErrCodeWriteFailed, "writing export", err)
	}
	if formatter.Format == "json" {
		result.Output = opts.Output
		return formatter.Success(result)
	}
	return nil
}
