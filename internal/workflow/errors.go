package workflow

import (
	"errors"
	"fmt"
)

// Pipeline stages that can end with no survivors.
const (
	StageInput     = "input"
	StageHeuristic = "heuristic"
	StageRelevance = "relevance"
	StageEvaluate  = "evaluate"
)

var (
	// ErrEmptyResult indicates a stage produced nothing to continue with.
	ErrEmptyResult = errors.New("empty result")

	ErrNoModel        = errors.New("no model configured")
	ErrLengthMismatch = errors.New("response length does not match batch")
	ErrInvalidSession = errors.New("invalid practice session")
)

// EmptyResultError names the stage that produced no survivors.
type EmptyResultError struct {
	Stage string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: no messages remain after %s stage", ErrEmptyResult, e.Stage)
}

func (e *EmptyResultError) Is(target error) bool {
	return target == ErrEmptyResult
}
