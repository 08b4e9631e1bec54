package harness

import "github.com/roach88/kmarkov/internal/markov"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expectation held.
	Pass bool `json:"pass"`

	// Errors contains expectation failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Model is the trained model as read back from the store. Nil when the
	// pipeline failed.
	Model *markov.Model `json:"-"`

	// Failure is the pipeline error kind when the scenario expected one.
	Failure string `json:"failure,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
