package workflow

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/formatting"
)

const (
	practiceIssues     = 3
	questionsPerIssue  = 2
	multipleChoiceSize = 4
)

type practiceIssue struct {
	IssueType      Dimension `json:"issue_type"`
	Issue          string    `json:"issue"`
	Frequency      int       `json:"frequency"`
	Recommendation string    `json:"recommendation"`
}

type practiceInput struct {
	SessionNumber  int             `json:"session_number"`
	Difficulty     string          `json:"difficulty"`
	Issues         []practiceIssue `json:"issues"`
	PreviouslyUsed []string        `json:"previously_used_questions"`
}

// GeneratePractice builds two questions, one correction then one multiple
// choice, for each of the first three issues. issues must already be
// ranked. prior holds question texts from earlier sessions; a question
// repeating one of them is replaced with a templated question that does
// not, while the bank has one left.
// Any model failure yields a fully templated set, so the result is empty
// only when issues is.
func GeneratePractice(
	ctx context.Context,
	rt *Runtime,
	issues []TargetIssue,
	sessionNumber int,
	difficulty string,
	prior []string,
	progress Progress,
) []PracticeQuestion {
	top := topIssues(issues)
	if len(top) == 0 {
		return nil
	}

	ctx, span := rt.tracer().Start(ctx, "workflow.practice")
	defer span.End()

	logger := rt.logger().With("stage", "practice")
	progress.report("practice: generating %d questions for session %d", len(top)*questionsPerIssue, sessionNumber)

	used := make(map[string]struct{}, len(prior))
	for _, p := range prior {
		used[normalize(p)] = struct{}{}
	}

	questions, err := practiceCall(ctx, rt, top, sessionNumber, difficulty, prior)
	fromModel := err == nil
	if !fromModel {
		logger.WarnContext(ctx, "using templated questions", "error", err)
		progress.report("practice: model unavailable, using templated questions")
		questions = make([]PracticeQuestion, len(top)*questionsPerIssue)
	}

	replaced := 0
	for k := range questions {
		_, repeated := used[normalize(questions[k].QuestionText)]
		if !fromModel || repeated {
			slot := k / questionsPerIssue
			questions[k] = templatedQuestion(top[slot], k%questionsPerIssue, sessionNumber, slot, used)
			if fromModel {
				replaced++
			}
		}
		used[normalize(questions[k].QuestionText)] = struct{}{}
		questions[k].QuestionID = uuid.NewString()
	}

	if replaced > 0 {
		logger.InfoContext(ctx, "replaced repeated questions", "count", replaced)
	}

	return questions
}

func topIssues(issues []TargetIssue) []TargetIssue {
	var top []TargetIssue
	for _, issue := range issues {
		if issue.Frequency > 0 {
			top = append(top, issue)
		}
	}
	if len(top) == 0 {
		top = issues
	}
	return top[:min(len(top), practiceIssues)]
}

func practiceCall(
	ctx context.Context,
	rt *Runtime,
	top []TargetIssue,
	sessionNumber int,
	difficulty string,
	prior []string,
) ([]PracticeQuestion, error) {
	input := practiceInput{
		SessionNumber:  sessionNumber,
		Difficulty:     difficulty,
		PreviouslyUsed: prior,
	}
	for _, issue := range top {
		input.Issues = append(input.Issues, practiceIssue{
			IssueType:      issue.Type,
			Issue:          issue.Issue.Issue,
			Frequency:      issue.Frequency,
			Recommendation: issue.Recommendation,
		})
	}

	content, err := rt.call(ctx, prompts.StagePractice, input, rt.Config.Tokens.Practice)
	if err != nil {
		return nil, err
	}

	resp, err := formatting.Parse[prompts.PracticeResponse](content)
	if err != nil {
		return nil, err
	}

	want := len(top) * questionsPerIssue
	if len(resp) != want {
		return nil, fmt.Errorf("%w: got %d questions, want %d", ErrLengthMismatch, len(resp), want)
	}

	out := make([]PracticeQuestion, len(resp))
	for k, r := range resp {
		issue := top[k/questionsPerIssue]
		q, err := toQuestion(r, issue, slotFormat(k))
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", k+1, err)
		}
		out[k] = q
	}

	return out, nil
}

// slotFormat is the format expected at position k: each issue gets a
// correction followed by a multiple choice question.
func slotFormat(k int) QuestionFormat {
	if k%questionsPerIssue == 0 {
		return FormatCorrection
	}
	return FormatMultipleChoice
}

func toQuestion(r prompts.QuestionResponse, issue TargetIssue, want QuestionFormat) (PracticeQuestion, error) {
	q := PracticeQuestion{
		IssueType:      Dimension(r.IssueType),
		SpecificIssue:  strings.TrimSpace(r.SpecificIssue),
		QuestionFormat: QuestionFormat(r.QuestionFormat),
		QuestionText:   strings.TrimSpace(r.QuestionText),
		CorrectAnswer:  strings.TrimSpace(r.CorrectAnswer),
		Explanation:    strings.TrimSpace(r.Explanation),
	}

	if !slices.Contains(Dimensions, q.IssueType) {
		q.IssueType = issue.Type
	}
	if q.SpecificIssue == "" {
		q.SpecificIssue = issue.Issue.Issue
	}

	if q.QuestionText == "" || q.CorrectAnswer == "" {
		return q, errors.New("missing question text or answer")
	}

	if q.QuestionFormat != want {
		return q, fmt.Errorf("question format %q, want %q", r.QuestionFormat, want)
	}
	if q.QuestionFormat == FormatMultipleChoice {
		if len(r.Options) != multipleChoiceSize {
			return q, fmt.Errorf("multiple choice needs %d options, got %d", multipleChoiceSize, len(r.Options))
		}
		q.Options = r.Options
	}

	return q, nil
}

// NewSession generates a PracticeSession targeting the highest ranked
// issues. Question texts from prior sessions are avoided.
func NewSession(
	ctx context.Context,
	rt *Runtime,
	issues []TargetIssue,
	sessionNumber int,
	difficulty string,
	prior []PracticeSession,
	progress Progress,
) (*PracticeSession, error) {
	if len(issues) == 0 {
		return nil, fmt.Errorf("%w: no issues to practice", ErrInvalidSession)
	}
	if sessionNumber < 1 {
		return nil, fmt.Errorf("%w: session number must be positive", ErrInvalidSession)
	}
	if difficulty == "" {
		difficulty = rt.Config.Difficulty
	}
	if !ValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSession, difficulty)
	}

	var used []string
	for _, s := range prior {
		for _, q := range s.Questions {
			used = append(used, q.QuestionText)
		}
	}

	questions := GeneratePractice(ctx, rt, issues, sessionNumber, difficulty, used, progress)

	var focus []string
	for _, issue := range topIssues(issues) {
		focus = append(focus, issue.Issue.Issue)
	}

	return &PracticeSession{
		SessionID:     uuid.NewString(),
		SessionNumber: sessionNumber,
		Date:          rt.now().UTC().Format(time.RFC3339),
		Focus:         focus,
		Questions:     questions,
		UserAnswers:   map[string]string{},
	}, nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
