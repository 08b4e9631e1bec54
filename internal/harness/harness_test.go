package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestdata(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRun_Golden(t *testing.T) {
	for _, name := range []string{"two-symbol-order2", "order0-sentinels", "single-symbol", "space-limit"} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithGolden(t, loadTestdata(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	s := loadTestdata(t, "two-symbol-order2")

	r1, err := Run(s)
	require.NoError(t, err)
	r2, err := Run(s)
	require.NoError(t, err)

	snap1, err := Snapshot(s, r1)
	require.NoError(t, err)
	snap2, err := Snapshot(s, r2)
	require.NoError(t, err)
	assert.Equal(t, string(snap1), string(snap2))
	assert.Equal(t, r1.Model.ModelID, r2.Model.ModelID)
}

func TestRun_FailedExpectations(t *testing.T) {
	kmers := 99
	s := &Scenario{
		Name:        "wrong",
		Description: "every expectation is off",
		Order:       2,
		Alphabet:    "AC",
		Counts:      map[string]int64{"AA": 3},
		Expect: Expect{
			Kmers:  &kmers,
			Counts: map[string]int64{"AA": 1, "GG": 1},
			Bits:   map[string]float64{"AA": 5},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Equal(t, "kmers: expected 99, actual 8", result.Errors[0])
	assert.Equal(t, `counts["AA"]: expected 1, actual 4`, result.Errors[1])
	assert.Equal(t, `counts["GG"]: expected 1, actual missing`, result.Errors[2])
	assert.Contains(t, result.Errors[3], `bits["AA"]: expected 5`)
}

func TestRun_ExpectedErrorKinds(t *testing.T) {
	zero := int64(0)
	tests := []struct {
		name     string
		scenario Scenario
		kind     string
	}{
		{
			name:     "probability without pseudocounts",
			scenario: Scenario{Order: 2, Alphabet: "AC", Pseudocount: &zero, Counts: map[string]int64{"AA": 1}},
			kind:     ErrorProbability,
		},
		{
			name:     "symbol outside alphabet",
			scenario: Scenario{Order: 2, Alphabet: "AC", Sequences: []string{"ACGT"}},
			kind:     ErrorSymbol,
		},
		{
			name:     "order 0 counting",
			scenario: Scenario{Order: 0, Alphabet: "AC", Sequences: []string{"AC"}},
			kind:     ErrorOrder,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.scenario
			s.Name, s.Description = "err", tt.name
			s.Expect.Error = tt.kind

			result, err := Run(&s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Equal(t, tt.kind, result.Failure)
			assert.Nil(t, result.Model)
		})
	}
}

func TestRun_UnexpectedError(t *testing.T) {
	s := &Scenario{Name: "x", Description: "y", Order: 2, Alphabet: "AC", Sequences: []string{"AN"}}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unexpected error")
}

func TestRun_ExpectedErrorNotRaised(t *testing.T) {
	s := &Scenario{Name: "x", Description: "y", Order: 1, Alphabet: "AC", Expect: Expect{Error: ErrorSpaceLimit}}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected space_limit error, model trained")
}

func TestRun_ReadsModelBackFromStore(t *testing.T) {
	result, err := Run(loadTestdata(t, "single-symbol"))
	require.NoError(t, err)
	require.NotNil(t, result.Model)

	assert.Equal(t, 3, len(result.Model.Observed))
	assert.Equal(t, 3, len(result.Model.CodeLengths))
	assert.NotEmpty(t, result.Model.TableID)
}

func TestGoldenFiles_UpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	scenarioFile := filepath.Join(dir, "single-symbol.yaml")
	s := loadTestdata(t, "single-symbol")

	result, err := Run(s)
	require.NoError(t, err)

	_, err = CompareGolden(scenarioFile, s, result)
	require.Error(t, err, "golden file does not exist yet")

	require.NoError(t, UpdateGolden(scenarioFile, s, result))
	assert.Equal(t, filepath.Join(dir, "golden", "single-symbol.golden"), GoldenPath(scenarioFile))

	ok, err := CompareGolden(scenarioFile, s, result)
	require.NoError(t, err)
	assert.True(t, ok)

	other, err := Run(loadTestdata(t, "order0-sentinels"))
	require.NoError(t, err)
	ok, err = CompareGolden(scenarioFile, s, other)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Check: "bits", Kmer: "AC", Expected: "1", Actual: "2"}
	assert.Equal(t, `bits["AC"]: expected 1, actual 2`, err.Error())
}
