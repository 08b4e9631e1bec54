package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one model check.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	Order int `yaml:"order"`

	// Alphabet is required with sequences. With counts it may be left empty
	// and is then inferred from the table.
	Alphabet string `yaml:"alphabet,omitempty"`

	// Pseudocount defaults to 1. A pointer distinguishes an explicit 0.
	Pseudocount *int64 `yaml:"pseudocount,omitempty"`

	// MaxSpace caps the k-mer space; 0 means the default ceiling.
	MaxSpace int64 `yaml:"max_space,omitempty"`

	// Precision is the number of decimals in the golden snapshot. Default 6.
	Precision *int `yaml:"precision,omitempty"`

	// Sequences are counted with padding at Order.
	Sequences []string `yaml:"sequences,omitempty"`

	// Counts is a raw observed table, used instead of Sequences.
	Counts map[string]int64 `yaml:"counts,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect lists what a scenario checks. Every field is optional.
type Expect struct {
	// Kmers is the exact number of keys in the smoothed table.
	Kmers *int `yaml:"kmers,omitempty"`

	// Counts is a subset match on the smoothed table.
	Counts map[string]int64 `yaml:"counts,omitempty"`

	// Bits is a subset match on code lengths, within Tolerance.
	Bits map[string]float64 `yaml:"bits,omitempty"`

	// Tolerance for Bits comparisons. Default 1e-6.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Error names a failure kind the pipeline must report.
	Error string `yaml:"error,omitempty"`
}

// Expected error kinds.
const (
	ErrorSpaceLimit  = "space_limit"
	ErrorProbability = "probability"
	ErrorSymbol      = "symbol"
	ErrorOrder       = "order"
)

const (
	defaultPseudocount int64 = 1
	defaultPrecision         = 6
	defaultTolerance         = 1e-6
)

// PseudocountOrDefault returns the effective pseudocount.
func (s *Scenario) PseudocountOrDefault() int64 {
	if s.Pseudocount == nil {
		return defaultPseudocount
	}
	return *s.Pseudocount
}

// PrecisionOrDefault returns the effective snapshot precision.
func (s *Scenario) PrecisionOrDefault() int {
	if s.Precision == nil {
		return defaultPrecision
	}
	return *s.Precision
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and consistent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Sequences) > 0 && s.Counts != nil {
		return fmt.Errorf("sequences and counts are mutually exclusive")
	}
	if len(s.Sequences) > 0 && s.Alphabet == "" {
		return fmt.Errorf("alphabet is required with sequences")
	}
	if p := s.PrecisionOrDefault(); p < 0 || p > 17 {
		return fmt.Errorf("precision must be in 0..17, got %d", p)
	}

	switch s.Expect.Error {
	case "", ErrorSpaceLimit, ErrorProbability, ErrorSymbol, ErrorOrder:
	default:
		return fmt.Errorf("expect.error: unknown kind %q", s.Expect.Error)
	}
	if s.Expect.Tolerance < 0 {
		return fmt.Errorf("expect.tolerance must not be negative")
	}
	return nil
}
