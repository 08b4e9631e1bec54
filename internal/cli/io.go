package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/kmarkov/internal/kmer"
	"github.com/roach88/kmarkov/internal/store"
	"github.com/roach88/kmarkov/internal/tabfile"
)

// toStdout reports whether an -o value means the command's own output.
func toStdout(path string) bool {
	return path == "" || path == "-"
}

// writeOutput fills path with write, or the command's stdout for "" and "-".
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if toStdout(path) {
		return write(cmd.OutOrStdout())
	}
	return tabfile.WriteFile(path, write)
}

// readTable reads a count table from path; "-" is the command's stdin.
func readTable(cmd *cobra.Command, path string) (kmer.Counts, int, error) {
	if path == "-" {
		return tabfile.ReadCounts(cmd.InOrStdin())
	}
	return tabfile.ReadCountsFile(path)
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openStore opens the database at path. The returned release func closes
// it, logging close errors.
func openStore(path string, logger *slog.Logger) (*store.Store, func(), error) {
	if path == "" {
		return nil, nil, fmt.Errorf("--db is required")
	}
	logger.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}
	return st, release, nil
}
