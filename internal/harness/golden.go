package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/kmarkov/internal/ident"
)

// Snapshot renders a scenario result as canonical JSON for golden
// comparison. Code lengths are strings formatted to the scenario precision,
// since canonical JSON carries no floats.
func Snapshot(s *Scenario, r *Result) ([]byte, error) {
	snap := map[string]any{
		"scenario_name": s.Name,
	}
	if r.Failure != "" {
		snap["error"] = r.Failure
		return ident.MarshalCanonical(snap)
	}
	if r.Model == nil {
		return nil, fmt.Errorf("scenario %s has no model to snapshot", s.Name)
	}

	m := r.Model
	bits := make(map[string]any, len(m.CodeLengths))
	for k, v := range m.CodeLengths {
		bits[k] = strconv.FormatFloat(v, 'f', s.PrecisionOrDefault(), 64)
	}

	snap["order"] = m.Order
	snap["alphabet"] = m.Alphabet.String()
	snap["pseudocount"] = m.Pseudocount
	snap["observed"] = m.Observed
	snap["smoothed"] = m.Smoothed
	snap["bits"] = bits
	return ident.MarshalCanonical(snap)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := Snapshot(scenario, result)
	if err != nil {
		return result, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return result, nil
}

// GoldenPath returns the golden file the CLI pairs with scenarioFile:
// a golden/ directory next to it, named after the file.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, goldenDir, name+".golden")
}

// UpdateGolden writes the snapshot of r as the golden file of scenarioFile.
func UpdateGolden(scenarioFile string, s *Scenario, r *Result) error {
	data, err := Snapshot(s, r)
	if err != nil {
		return fmt.Errorf("failed to snapshot: %w", err)
	}

	path := GoldenPath(scenarioFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the snapshot of r matches the golden file of
// scenarioFile. ok is false with a nil error when they differ; a missing
// golden file is an error wrapping os.ErrNotExist.
func CompareGolden(scenarioFile string, s *Scenario, r *Result) (ok bool, err error) {
	want, err := os.ReadFile(GoldenPath(scenarioFile))
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	got, err := Snapshot(s, r)
	if err != nil {
		return false, fmt.Errorf("failed to snapshot: %w", err)
	}
	return string(want) == string(got), nil
}
