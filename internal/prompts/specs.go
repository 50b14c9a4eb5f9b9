package prompts

import (
	"encoding/json"
	"strings"

	"github.com/invopop/jsonschema"
)

type spec struct {
	response    any
	constraints []string
}

var specs = map[Stage]spec{
	StageRelevance: {
		response: RelevanceResponse{},
		constraints: []string{
			"Return a JSON array of booleans with exactly one entry per input item",
			"Keep the entries in the same order as the input items",
		},
	},
	StageEvaluate: {
		response: EvaluateResponse{},
		constraints: []string{
			"Return a JSON array with exactly one object per input item",
			"Keep the objects in the same order as the input items",
			"Scores are integers from 1 to 5",
			"Do not include message text or identifiers in the output",
		},
	},
	StageAnalyze: {
		response: AnalyzeResponse{},
		constraints: []string{
			"Return a single JSON object",
			"Each issue list has between 1 and 5 entries, most frequent first",
		},
	},
	StagePractice: {
		response: PracticeResponse{},
		constraints: []string{
			"Return a JSON array with two questions per issue, correction first",
			"Multiple choice questions have exactly four options",
		},
	},
	StageGrade: {
		response: GradeResponse{},
		constraints: []string{
			"Return a JSON array with exactly one verdict per input answer",
			"Keep the verdicts in the same order as the input answers",
		},
	},
	StageCompare: {
		response: CompareResponse{},
		constraints: []string{
			"Return a single JSON object",
		},
	},
}

var reflector = jsonschema.Reflector{
	AllowAdditionalProperties: false,
	DoNotReference:            true,
}

// Spec returns the response specification for a stage: the JSON schema of
// its response type followed by behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	s, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}

	schema, err := json.MarshalIndent(reflector.Reflect(s.response), "", "  ")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Respond with JSON matching this schema:\n\n")
	sb.Write(schema)
	sb.WriteString("\n\nBehavioral constraints:\n")
	sb.WriteString("- Always respond with valid JSON, no markdown fencing or commentary\n")
	for _, c := range s.constraints {
		sb.WriteString("- ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}
