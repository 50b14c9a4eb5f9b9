package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/formatting"
)

const (
	exactThreshold      = 0.90
	correctionThreshold = 0.75

	feedbackNoAnswer   = "No answer provided."
	feedbackCorrect    = "Correct!"
	feedbackIncorrect  = "Incorrect."
	feedbackMinor      = "Correct, minor differences acceptable."
	feedbackUngradable = "Unable to grade automatically."
)

type gradeItem struct {
	Index          int            `json:"index"`
	QuestionFormat QuestionFormat `json:"question_format"`
	SpecificIssue  string         `json:"specific_issue"`
	Question       string         `json:"question"`
	CorrectAnswer  string         `json:"correct_answer"`
	UserAnswer     string         `json:"user_answer"`
}

// Grade resolves each question by the cheapest tier that can decide it.
// Blank answers and multiple choice are graded by rule, correction and
// writing prompt answers by word-set similarity, and whatever remains goes
// to the model in a single call. Results are ordered by question number.
func Grade(
	ctx context.Context,
	rt *Runtime,
	questions []PracticeQuestion,
	answers map[string]string,
	progress Progress,
) []GradingResult {
	ctx, span := rt.tracer().Start(ctx, "workflow.grade")
	defer span.End()

	logger := rt.logger().With("stage", "grade")
	results := make([]GradingResult, len(questions))

	progress.report("grade: checking %d answers locally", len(questions))

	var pending []int
	for i, q := range questions {
		r, ok := gradeLocal(i+1, q, answers[q.QuestionID])
		results[i] = r
		if !ok {
			pending = append(pending, i)
		}
	}

	if len(pending) > 0 {
		progress.report("grade: sending %d answers to the model", len(pending))
		gradeRemote(ctx, rt, questions, answers, pending, results)
	}

	logger.InfoContext(ctx, "grading complete", "questions", len(questions), "model_graded", len(pending))
	return results
}

// gradeLocal returns false when the answer must be graded by the model.
func gradeLocal(n int, q PracticeQuestion, answer string) (GradingResult, bool) {
	r := GradingResult{
		Question:      n,
		Issue:         q.SpecificIssue,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}

	if strings.TrimSpace(answer) == "" {
		r.Feedback = feedbackNoAnswer
		r.GradingMethod = MethodProgrammatic
		return r, true
	}

	if q.QuestionFormat == FormatMultipleChoice {
		r.Correct = choiceLetter(answer) == choiceLetter(q.CorrectAnswer)
		r.Feedback = feedbackIncorrect
		if r.Correct {
			r.Feedback = feedbackCorrect
		}
		r.GradingMethod = MethodProgrammatic
		return r, true
	}

	sim := Jaccard(answer, q.CorrectAnswer)
	switch {
	case sim > exactThreshold:
		r.Correct = true
		r.Feedback = feedbackCorrect
	case q.QuestionFormat == FormatCorrection && sim >= correctionThreshold:
		r.Correct = true
		r.Feedback = feedbackMinor
	default:
		return r, false
	}

	r.GradingMethod = MethodSimilarity
	return r, true
}

func gradeRemote(
	ctx context.Context,
	rt *Runtime,
	questions []PracticeQuestion,
	answers map[string]string,
	pending []int,
	results []GradingResult,
) {
	items := make([]gradeItem, len(pending))
	for j, i := range pending {
		q := questions[i]
		items[j] = gradeItem{
			Index:          j + 1,
			QuestionFormat: q.QuestionFormat,
			SpecificIssue:  q.SpecificIssue,
			Question:       q.QuestionText,
			CorrectAnswer:  q.CorrectAnswer,
			UserAnswer:     answers[q.QuestionID],
		}
	}

	verdicts, err := gradeCall(ctx, rt, items)
	if err != nil {
		rt.logger().WarnContext(ctx, "model grading failed", "stage", "grade", "error", err)
	}

	for j, i := range pending {
		r := &results[i]
		r.GradingMethod = MethodLLM
		r.Correct = false
		r.Feedback = feedbackUngradable

		if err != nil || verdicts[j].Correct == nil {
			continue
		}

		r.Correct = *verdicts[j].Correct
		if fb := strings.TrimSpace(verdicts[j].Feedback); fb != "" {
			r.Feedback = fb
		} else if r.Correct {
			r.Feedback = feedbackCorrect
		} else {
			r.Feedback = feedbackIncorrect
		}
	}
}

func gradeCall(ctx context.Context, rt *Runtime, items []gradeItem) (prompts.GradeResponse, error) {
	content, err := rt.call(ctx, prompts.StageGrade, items, rt.Config.Tokens.Grade)
	if err != nil {
		return nil, err
	}

	verdicts, err := formatting.Parse[prompts.GradeResponse](content)
	if err != nil {
		return nil, err
	}

	if len(verdicts) != len(items) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(verdicts), len(items))
	}

	return verdicts, nil
}

// GradeSession grades session against its user answers and records the
// results, the fraction correct, and completion on the session.
func GradeSession(ctx context.Context, rt *Runtime, session *PracticeSession, progress Progress) (*PracticeSession, error) {
	if session == nil || len(session.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions to grade", ErrInvalidSession)
	}

	results := Grade(ctx, rt, session.Questions, session.UserAnswers, progress)

	correct := 0
	for _, r := range results {
		if r.Correct {
			correct++
		}
	}
	score := float64(correct) / float64(len(results))

	session.GradingResults = results
	session.Score = &score
	session.Completed = true

	return session, nil
}
