// Command kmarkov builds k-mer Markov models from FASTA and FASTQ sequences.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/kmarkov/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		// Flag and argument errors from cobra.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}
	if !exitErr.Shown {
		fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr)
	}
	os.Exit(exitErr.Code)
}
