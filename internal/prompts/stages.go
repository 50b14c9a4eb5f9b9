// Package prompts defines the model contract for each pipeline stage:
// tunable instructions, a response specification generated from the
// response types, and the composition of both with the stage input.
package prompts

import (
	"encoding/json"
	"slices"
)

// Stage identifies a pipeline step that calls the model.
type Stage string

// Model-calling stages.
const (
	StageRelevance Stage = "relevance"
	StageEvaluate  Stage = "evaluate"
	StageAnalyze   Stage = "analyze"
	StagePractice  Stage = "practice"
	StageGrade     Stage = "grade"
	StageCompare   Stage = "compare"
)

var stages = []Stage{
	StageRelevance,
	StageEvaluate,
	StageAnalyze,
	StagePractice,
	StageGrade,
	StageCompare,
}

// Stages returns the list of model-calling stages in pipeline order.
func Stages() []Stage {
	return slices.Clone(stages)
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Stage(raw)
	if !slices.Contains(stages, v) {
		return ErrInvalidStage
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
