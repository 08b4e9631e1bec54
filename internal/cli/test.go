package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/kmarkov/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario name glob
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "matched", "updated" or "missing"
	Errors []string `json:"errors,omitempty"`
}

// TestResult summarises a test run.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (r *TestResult) add(s ScenarioResult) {
	r.Scenarios = append(r.Scenarios, s)
	r.Total++
	if s.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run model scenarios",
		Long: `Run YAML model scenarios and compare each result against its golden file.

A scenario gives an order, an alphabet and either sequences or a count table,
and states the k-mers, counts and code lengths (or the error) it expects.
Golden files live in a golden/ directory next to the scenarios; a scenario
without one is checked against its expectations only.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  kmarkov test ./scenarios
  kmarkov test ./scenarios --filter "order2-*"
  kmarkov test ./scenarios --update
  kmarkov test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose name matches this glob")

	return cmd
}

func runTests(cmd *cobra.Command, opts *TestOptions, dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", dir), err)
	}

	files, err := harness.Discover(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	out := cmd.OutOrStdout()
	text := opts.Format != "json"
	result := TestResult{Scenarios: []ScenarioResult{}}
	for _, file := range files {
		r := runScenario(file, opts.Update)
		if text {
			printScenario(out, r)
		}
		result.add(r)
	}

	if text {
		return printSummary(out, result)
	}
	return encodeSummary(out, result)
}

// runScenario loads, runs and golden-checks one file. It never returns an
// error: every failure is recorded on the result.
func runScenario(file string, update bool) ScenarioResult {
	r := ScenarioResult{Name: filepath.Base(file), File: file}
	fail := func(format string, args ...any) ScenarioResult {
		r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
		return r
	}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return fail("failed to load scenario: %v", err)
	}
	r.Name = scenario.Name

	run, err := harness.Run(scenario)
	if err != nil {
		return fail("execution failed: %v", err)
	}
	if !run.Pass {
		r.Errors = run.Errors
		return r
	}

	if update {
		if err := harness.UpdateGolden(file, scenario, run); err != nil {
			return fail("failed to update golden file: %v", err)
		}
		r.Pass, r.Golden = true, "updated"
		return r
	}

	match, err := harness.CompareGolden(file, scenario, run)
	switch {
	case errors.Is(err, os.ErrNotExist):
		r.Pass, r.Golden = true, "missing"
	case err != nil:
		return fail("golden comparison failed: %v", err)
	case !match:
		return fail("golden file mismatch (run with --update to regenerate)")
	default:
		r.Pass, r.Golden = true, "matched"
	}
	return r
}

func printScenario(w io.Writer, r ScenarioResult) {
	if !r.Pass {
		fmt.Fprintf(w, "✗ %s\n", r.Name)
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return
	}
	if r.Golden == "updated" {
		fmt.Fprintf(w, "✓ %s (golden updated)\n", r.Name)
		return
	}
	fmt.Fprintf(w, "✓ %s\n", r.Name)
}

func printSummary(w io.Writer, result TestResult) error {
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}
	fmt.Fprintf(w, "\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed > 0 {
		return scenariosFailed(result)
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}

// encodeSummary writes the indented JSON response. Failed scenarios make
// the response an error that still carries the full result.
func encodeSummary(w io.Writer, result TestResult) error {
	resp := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		resp.Status = "error"
		resp.Error = &CLIError{
			Code:    ErrCodeScenario,
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}
	if result.Failed > 0 {
		return scenariosFailed(result)
	}
	return nil
}

func scenariosFailed(result TestResult) error {
	err := NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	err.Shown = true
	return err
}
