package markov

import (
	"errors"
	"fmt"
)

// Stage names one step of the training pipeline.
type Stage string

const (
	StageCount    Stage = "count"
	StageSmooth   Stage = "smooth"
	StageEstimate Stage = "estimate"
	StagePersist  Stage = "persist"
)

// StageError records which pipeline stage failed for which model.
// The underlying kmer, seqio or store error is available through Unwrap, so
// kmer.IsSpaceLimitError and friends still match.
type StageError struct {
	Stage Stage
	Model string
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s model %s: %v", e.Stage, e.Model, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// IsStage returns true if err is a StageError from stage.
func IsStage(err error, stage Stage) bool {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage == stage
	}
	return false
}
