package workflow

import (
	"cmp"
	"slices"

	"github.com/JaimeStill/quill/internal/messages"
)

// Dimension is one of the three independently scored writing qualities.
type Dimension string

// Scored dimensions.
const (
	Grammar     Dimension = "grammar"
	Punctuation Dimension = "punctuation"
	Tone        Dimension = "tone"
)

// Dimensions lists the scored dimensions in reporting order.
var Dimensions = []Dimension{Grammar, Punctuation, Tone}

// Severity ranks an issue by how often it occurs.
type Severity string

// Severity levels.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityFor maps an occurrence count to a severity:
// more than 5 is high, 3 to 5 is medium, fewer than 3 is low.
func SeverityFor(frequency int) Severity {
	switch {
	case frequency > 5:
		return SeverityHigh
	case frequency >= 3:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// EvaluationRecord scores one message. MessageID and Text are always
// copied from the originating message, never from model output.
type EvaluationRecord struct {
	MessageID         string   `json:"message_id"`
	Text              string   `json:"text"`
	GrammarScore      int      `json:"grammar_score"`
	PunctuationScore  int      `json:"punctuation_score"`
	ToneScore         int      `json:"tone_score"`
	GrammarIssues     []string `json:"grammar_issues"`
	PunctuationIssues []string `json:"punctuation_issues"`
	ToneIssues        []string `json:"tone_issues"`
}

// Issue is a recurring writing problem grouped from many records.
type Issue struct {
	Issue          string   `json:"issue"`
	Frequency      int      `json:"frequency"`
	Severity       Severity `json:"severity"`
	Recommendation string   `json:"recommendation"`
}

// TargetIssue is an Issue tagged with its dimension, used to pick
// practice material.
type TargetIssue struct {
	Type Dimension `json:"issue_type"`
	Issue
}

// Summary holds locally computed score averages and the overall assessment.
type Summary struct {
	TotalMessages       int     `json:"total_messages"`
	AvgGrammarScore     float64 `json:"avg_grammar_score"`
	AvgPunctuationScore float64 `json:"avg_punctuation_score"`
	AvgToneScore        float64 `json:"avg_tone_score"`
	OverallAssessment   string  `json:"overall_assessment"`
}

// Metadata describes the messages behind an Analysis.
type Metadata struct {
	EvaluationDate              string    `json:"evaluation_date"`
	ConversationsRange          DateRange `json:"conversations_range"`
	TotalConversationsEvaluated int       `json:"total_conversations_evaluated"`
	MessagesEvaluated           int       `json:"messages_evaluated"`
}

// DateRange is an inclusive span of dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Analysis is the outcome of one evaluation run. Each issue list holds
// between one and five entries.
type Analysis struct {
	Summary              Summary  `json:"summary"`
	TopGrammarIssues     []Issue  `json:"top_grammar_issues"`
	TopPunctuationIssues []Issue  `json:"top_punctuation_issues"`
	TopToneIssues        []Issue  `json:"top_tone_issues"`
	Metadata             Metadata `json:"metadata"`
}

// Issues returns the issue list for d.
func (a *Analysis) Issues(d Dimension) []Issue {
	switch d {
	case Grammar:
		return a.TopGrammarIssues
	case Punctuation:
		return a.TopPunctuationIssues
	case Tone:
		return a.TopToneIssues
	}
	return nil
}

// Average returns the mean score for d.
func (a *Analysis) Average(d Dimension) float64 {
	switch d {
	case Grammar:
		return a.Summary.AvgGrammarScore
	case Punctuation:
		return a.Summary.AvgPunctuationScore
	case Tone:
		return a.Summary.AvgToneScore
	}
	return 0
}

// RankedIssues merges all dimensions into one list ordered by descending
// frequency. Ties keep dimension order.
func (a *Analysis) RankedIssues() []TargetIssue {
	var out []TargetIssue
	for _, d := range Dimensions {
		for _, issue := range a.Issues(d) {
			out = append(out, TargetIssue{Type: d, Issue: issue})
		}
	}
	slices.SortStableFunc(out, func(x, y TargetIssue) int {
		return cmp.Compare(y.Frequency, x.Frequency)
	})
	return out
}

func (a *Analysis) describe(span messages.Span) {
	a.Metadata.ConversationsRange = DateRange{Start: span.Start, End: span.End}
	a.Metadata.TotalConversationsEvaluated = span.Conversations
}

// QuestionFormat is the shape of a practice question.
type QuestionFormat string

// Question formats.
const (
	FormatCorrection     QuestionFormat = "correction"
	FormatMultipleChoice QuestionFormat = "multiple_choice"
	FormatWritingPrompt  QuestionFormat = "writing_prompt"
)

// PracticeQuestion is one generated exercise. Options is set only for
// multiple choice questions and then holds exactly four entries.
type PracticeQuestion struct {
	QuestionID     string         `json:"question_id"`
	IssueType      Dimension      `json:"issue_type"`
	SpecificIssue  string         `json:"specific_issue"`
	QuestionFormat QuestionFormat `json:"question_format"`
	QuestionText   string         `json:"question_text"`
	CorrectAnswer  string         `json:"correct_answer"`
	Options        []string       `json:"options,omitempty"`
	Explanation    string         `json:"explanation"`
}

// GradingMethod records which tier resolved a grade.
type GradingMethod string

// Grading tiers.
const (
	MethodProgrammatic GradingMethod = "programmatic"
	MethodSimilarity   GradingMethod = "similarity"
	MethodLLM          GradingMethod = "llm"
)

// GradingResult is the grade for one question. Question is 1-based.
type GradingResult struct {
	Question      int           `json:"question"`
	Issue         string        `json:"issue"`
	Correct       bool          `json:"correct"`
	Feedback      string        `json:"feedback"`
	CorrectAnswer string        `json:"correct_answer"`
	Explanation   string        `json:"explanation"`
	GradingMethod GradingMethod `json:"grading_method"`
}

// PracticeSession is a set of questions plus the user's answers and,
// once graded, the results and score.
type PracticeSession struct {
	SessionID      string             `json:"session_id"`
	SessionNumber  int                `json:"session_number"`
	Date           string             `json:"date"`
	Focus          []string           `json:"focus"`
	Questions      []PracticeQuestion `json:"questions"`
	UserAnswers    map[string]string  `json:"user_answers"`
	GradingResults []GradingResult    `json:"grading_results,omitempty"`
	Score          *float64           `json:"score,omitempty"`
	Completed      bool               `json:"completed"`
}

// DimensionChange is the score movement for one dimension.
// ChangePercent is nil when the baseline average is zero.
type DimensionChange struct {
	Baseline      float64  `json:"baseline"`
	Followup      float64  `json:"followup"`
	Change        float64  `json:"change"`
	ChangePercent *float64 `json:"changePercent"`
}

// ComparisonResult contrasts a baseline and followup Analysis.
type ComparisonResult struct {
	Grammar     DimensionChange `json:"grammar"`
	Punctuation DimensionChange `json:"punctuation"`
	Tone        DimensionChange `json:"tone"`
	Resolved    []Issue         `json:"resolved"`
	Persistent  []Issue         `json:"persistent"`
	NewIssues   []Issue         `json:"newIssues"`
	Narrative   string          `json:"narrative"`
}
