package workflow_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/internal/workflow"
)

func question(id string, format workflow.QuestionFormat, answer string) workflow.PracticeQuestion {
	return workflow.PracticeQuestion{
		QuestionID:     id,
		IssueType:      workflow.Grammar,
		SpecificIssue:  "issue " + id,
		QuestionFormat: format,
		QuestionText:   "question " + id,
		CorrectAnswer:  answer,
		Explanation:    "explanation " + id,
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"The cat sat.", "the CAT sat", 1},
		{"one two three four", "one two three five", 0.6},
		{"", "", 0},
		{"!!!", "words here", 0},
		{"a b c d e f g h i j k l m n o p q r s t", "a b c d e f g h i j k l m n o p q r s", 0.95},
	}

	for _, tt := range tests {
		got := workflow.Jaccard(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestGradeSimilarityWithoutModel(t *testing.T) {
	model := &stubModel{respond: func(_ prompts.Stage, _ int) (string, error) {
		t.Error("model should not be called")
		return "", nil
	}}
	rt, _ := newRuntime(t, model)

	q := question("q1", workflow.FormatWritingPrompt, "a b c d e f g h i j k l m n o p q r s t")
	answers := map[string]string{"q1": "a b c d e f g h i j k l m n o p q r s"}

	results := workflow.Grade(context.Background(), rt, []workflow.PracticeQuestion{q}, answers, nil)

	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	r := results[0]
	if !r.Correct || r.GradingMethod != workflow.MethodSimilarity {
		t.Errorf("result = %+v, want correct by similarity", r)
	}
	if model.calls() != 0 {
		t.Errorf("calls = %d, want 0", model.calls())
	}
}

func TestGradeLocalTiers(t *testing.T) {
	rt, _ := newRuntime(t, nil)

	tests := []struct {
		name        string
		q           workflow.PracticeQuestion
		answer      string
		wantCorrect bool
		wantMethod  workflow.GradingMethod
		wantFeed    string
	}{
		{
			name:       "blank answer",
			q:          question("q", workflow.FormatCorrection, "Anything."),
			answer:     "   ",
			wantMethod: workflow.MethodProgrammatic,
			wantFeed:   "No answer provided.",
		},
		{
			name:        "multiple choice letter with paren",
			q:           question("q", workflow.FormatMultipleChoice, "B) its"),
			answer:      "b) its",
			wantCorrect: true,
			wantMethod:  workflow.MethodProgrammatic,
		},
		{
			name:        "multiple choice bare letter",
			q:           question("q", workflow.FormatMultipleChoice, "C"),
			answer:      "c",
			wantCorrect: true,
			wantMethod:  workflow.MethodProgrammatic,
		},
		{
			name:       "multiple choice wrong",
			q:          question("q", workflow.FormatMultipleChoice, "A"),
			answer:     "D) something",
			wantMethod: workflow.MethodProgrammatic,
		},
		{
			name:        "correction exact",
			q:           question("q", workflow.FormatCorrection, "However, I think we should wait."),
			answer:      "however i think we should wait",
			wantCorrect: true,
			wantMethod:  workflow.MethodSimilarity,
		},
		{
			name:        "correction minor differences",
			q:           question("q", workflow.FormatCorrection, "one two three four five six seven eight nine ten"),
			answer:      "one two three four five six seven eight nine eleven",
			wantCorrect: true,
			wantMethod:  workflow.MethodSimilarity,
			wantFeed:    "minor differences acceptable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := workflow.Grade(context.Background(), rt, []workflow.PracticeQuestion{tt.q}, map[string]string{"q": tt.answer}, nil)
			r := results[0]

			if r.Correct != tt.wantCorrect {
				t.Errorf("Correct = %v, want %v", r.Correct, tt.wantCorrect)
			}
			if r.GradingMethod != tt.wantMethod {
				t.Errorf("GradingMethod = %q, want %q", r.GradingMethod, tt.wantMethod)
			}
			if tt.wantFeed != "" && !strings.Contains(r.Feedback, tt.wantFeed) {
				t.Errorf("Feedback = %q, want it to contain %q", r.Feedback, tt.wantFeed)
			}
			if r.Question != 1 || r.CorrectAnswer != tt.q.CorrectAnswer || r.Explanation != tt.q.Explanation {
				t.Errorf("result metadata = %+v", r)
			}
		})
	}
}

func TestGradeBatchesDeferredAnswers(t *testing.T) {
	model := &stubModel{respond: func(_ prompts.Stage, _ int) (string, error) {
		return `[{"correct": true, "feedback": "Nice rewrite."}, {"correct": false}]`, nil
	}}
	rt, _ := newRuntime(t, model)

	questions := []workflow.PracticeQuestion{
		question("q1", workflow.FormatCorrection, "The dog's bowl is empty again."),
		question("q2", workflow.FormatMultipleChoice, "A"),
		question("q3", workflow.FormatWritingPrompt, "Write a polite request for time off."),
		question("q4", workflow.FormatCorrection, "Each of the students has finished."),
	}
	answers := map[string]string{
		"q1": "Our dog has nothing left in its dish.",
		"q2": "A",
		"q3": "Could I please take Friday off to attend a family event?",
		"q4": "Each of the students has finished.",
	}

	results := workflow.Grade(context.Background(), rt, questions, answers, nil)

	if model.callsFor(prompts.StageGrade) != 1 {
		t.Fatalf("grade calls = %d, want 1", model.callsFor(prompts.StageGrade))
	}

	want := []struct {
		correct bool
		method  workflow.GradingMethod
	}{
		{true, workflow.MethodLLM},
		{true, workflow.MethodProgrammatic},
		{false, workflow.MethodLLM},
		{true, workflow.MethodSimilarity},
	}

	for i, w := range want {
		if results[i].Question != i+1 {
			t.Errorf("results[%d].Question = %d, want %d", i, results[i].Question, i+1)
		}
		if results[i].Correct != w.correct || results[i].GradingMethod != w.method {
			t.Errorf("results[%d] = %v/%s, want %v/%s", i, results[i].Correct, results[i].GradingMethod, w.correct, w.method)
		}
	}
	if results[0].Feedback != "Nice rewrite." {
		t.Errorf("Feedback = %q", results[0].Feedback)
	}
}

func TestGradeModelFailure(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"error", "", errors.New("unavailable")},
		{"unparseable", "looks good to me", nil},
		{"wrong length", `[{"correct": true}, {"correct": true}]`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &stubModel{respond: func(_ prompts.Stage, _ int) (string, error) {
				return tt.response, tt.err
			}}
			rt, _ := newRuntime(t, model)

			q := question("q", workflow.FormatWritingPrompt, "a completely different reference answer")
			results := workflow.Grade(context.Background(), rt, []workflow.PracticeQuestion{q}, map[string]string{"q": "my own words"}, nil)

			r := results[0]
			if r.Correct || r.GradingMethod != workflow.MethodLLM || r.Feedback != "Unable to grade automatically." {
				t.Errorf("result = %+v, want ungraded llm fallback", r)
			}
		})
	}
}

func TestGradeSession(t *testing.T) {
	rt, _ := newRuntime(t, nil)

	session := &workflow.PracticeSession{
		SessionID: "s",
		Questions: []workflow.PracticeQuestion{
			question("q1", workflow.FormatMultipleChoice, "A"),
			question("q2", workflow.FormatMultipleChoice, "B"),
			question("q3", workflow.FormatMultipleChoice, "C"),
			question("q4", workflow.FormatCorrection, "Fixed sentence."),
		},
		UserAnswers: map[string]string{"q1": "A", "q2": "B", "q3": "D", "q4": "fixed sentence"},
	}

	graded, err := workflow.GradeSession(context.Background(), rt, session, nil)
	if err != nil {
		t.Fatalf("GradeSession: %v", err)
	}

	if !graded.Completed {
		t.Error("session not completed")
	}
	if graded.Score == nil || *graded.Score != 0.75 {
		t.Errorf("Score = %v, want 0.75", graded.Score)
	}
	if len(graded.GradingResults) != 4 {
		t.Errorf("results = %d, want 4", len(graded.GradingResults))
	}

	if _, err := workflow.GradeSession(context.Background(), rt, &workflow.PracticeSession{}, nil); !errors.Is(err, workflow.ErrInvalidSession) {
		t.Errorf("empty session err = %v, want ErrInvalidSession", err)
	}
}
