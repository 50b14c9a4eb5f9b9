package prompts

// Response shapes the model is asked to return. Every field is optional on
// decode; callers fill defaults for anything missing.

// RelevanceResponse holds one verdict per input item, in input order.
type RelevanceResponse []bool

// ScoreResponse is the model's assessment of one message.
type ScoreResponse struct {
	GrammarScore      *float64 `json:"grammar_score,omitempty" jsonschema:"minimum=1,maximum=5"`
	PunctuationScore  *float64 `json:"punctuation_score,omitempty" jsonschema:"minimum=1,maximum=5"`
	ToneScore         *float64 `json:"tone_score,omitempty" jsonschema:"minimum=1,maximum=5"`
	GrammarIssues     []string `json:"grammar_issues,omitempty"`
	PunctuationIssues []string `json:"punctuation_issues,omitempty"`
	ToneIssues        []string `json:"tone_issues,omitempty"`
}

// EvaluateResponse holds one score object per input item, in input order.
type EvaluateResponse []ScoreResponse

// IssueResponse is one grouped issue pattern.
type IssueResponse struct {
	Issue          string `json:"issue"`
	Frequency      *float64 `json:"frequency,omitempty" jsonschema:"minimum=0"`
	Severity       string   `json:"severity,omitempty" jsonschema:"enum=low,enum=medium,enum=high"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// AnalyzeResponse ranks recurring issues per dimension.
type AnalyzeResponse struct {
	OverallAssessment    string          `json:"overall_assessment"`
	TopGrammarIssues     []IssueResponse `json:"top_grammar_issues" jsonschema:"maxItems=5"`
	TopPunctuationIssues []IssueResponse `json:"top_punctuation_issues" jsonschema:"maxItems=5"`
	TopToneIssues        []IssueResponse `json:"top_tone_issues" jsonschema:"maxItems=5"`
}

// QuestionResponse is one generated exercise.
type QuestionResponse struct {
	IssueType      string   `json:"issue_type" jsonschema:"enum=grammar,enum=punctuation,enum=tone"`
	SpecificIssue  string   `json:"specific_issue"`
	QuestionFormat string   `json:"question_format" jsonschema:"enum=correction,enum=multiple_choice"`
	QuestionText   string   `json:"question_text"`
	CorrectAnswer  string   `json:"correct_answer"`
	Options        []string `json:"options,omitempty" jsonschema:"minItems=4,maxItems=4"`
	Explanation    string   `json:"explanation"`
}

// PracticeResponse holds the generated exercises.
type PracticeResponse []QuestionResponse

// VerdictResponse is the model's grade for one deferred answer.
type VerdictResponse struct {
	Correct  *bool  `json:"correct,omitempty"`
	Feedback string `json:"feedback,omitempty"`
}

// GradeResponse holds one verdict per deferred answer, in input order.
type GradeResponse []VerdictResponse

// CompareResponse carries the improvement narrative.
type CompareResponse struct {
	Narrative string `json:"narrative"`
}
