package workflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/internal/workflow"
)

func sampleTargets() []workflow.TargetIssue {
	return []workflow.TargetIssue{
		{Type: workflow.Grammar, Issue: workflow.Issue{Issue: "subject-verb agreement", Frequency: 9}},
		{Type: workflow.Punctuation, Issue: workflow.Issue{Issue: "missing comma", Frequency: 5}},
		{Type: workflow.Tone, Issue: workflow.Issue{Issue: "too casual", Frequency: 4}},
		{Type: workflow.Grammar, Issue: workflow.Issue{Issue: "tense shifts", Frequency: 2}},
	}
}

func generated(n int, prefix string) string {
	var out []prompts.QuestionResponse
	for i := range n {
		q := prompts.QuestionResponse{
			IssueType:     "grammar",
			SpecificIssue: fmt.Sprintf("issue %d", i/2),
			QuestionText:  fmt.Sprintf("%s question %d", prefix, i),
			CorrectAnswer: "The answer.",
			Explanation:   "Because.",
		}
		if i%2 == 0 {
			q.QuestionFormat = "correction"
		} else {
			q.QuestionFormat = "multiple_choice"
			q.Options = []string{"A) one", "B) two", "C) three", "D) four"}
			q.CorrectAnswer = "B"
		}
		out = append(out, q)
	}
	data, _ := json.Marshal(out)
	return string(data)
}

func allMultipleChoice(n int) string {
	out := make([]prompts.QuestionResponse, n)
	for i := range out {
		out[i] = prompts.QuestionResponse{
			IssueType:      "grammar",
			QuestionFormat: "multiple_choice",
			QuestionText:   fmt.Sprintf("choice question %d", i),
			CorrectAnswer:  "A",
			Options:        []string{"A) one", "B) two", "C) three", "D) four"},
		}
	}
	data, _ := json.Marshal(out)
	return string(data)
}

func TestGeneratePracticeFromModel(t *testing.T) {
	model := &stubModel{respond: func(_ prompts.Stage, _ int) (string, error) {
		return generated(6, "fresh"), nil
	}}
	rt, _ := newRuntime(t, model)

	qs := workflow.GeneratePractice(context.Background(), rt, sampleTargets(), 1, "intermediate", nil, nil)

	if len(qs) != 6 {
		t.Fatalf("questions = %d, want 6", len(qs))
	}
	if model.calls() != 1 {
		t.Errorf("calls = %d, want 1", model.calls())
	}

	seen := make(map[string]bool)
	for i, q := range qs {
		if q.QuestionID == "" || seen[q.QuestionID] {
			t.Errorf("questions[%d] has missing or duplicate id %q", i, q.QuestionID)
		}
		seen[q.QuestionID] = true
		if q.QuestionText != fmt.Sprintf("fresh question %d", i) {
			t.Errorf("questions[%d].QuestionText = %q", i, q.QuestionText)
		}
	}
}

func TestGeneratePracticeFallback(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"model error", "", errors.New("boom")},
		{"wrong count", generated(4, "short"), nil},
		{"bad options", `[{"question_format":"multiple_choice","question_text":"q","correct_answer":"A","options":["A) x"]}]`, nil},
		{"prose", "Sorry, I can't do that.", nil},
		{"formats out of order", allMultipleChoice(6), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &stubModel{respond: func(_ prompts.Stage, _ int) (string, error) {
				return tt.response, tt.err
			}}
			rt, _ := newRuntime(t, model)
			targets := sampleTargets()

			qs := workflow.GeneratePractice(context.Background(), rt, targets, 2, "beginner", nil, nil)

			if len(qs) != 6 {
				t.Fatalf("questions = %d, want 6", len(qs))
			}
			for i, q := range qs {
				target := targets[i/2]
				if q.SpecificIssue != target.Issue.Issue || q.IssueType != target.Type {
					t.Errorf("questions[%d] targets %s/%q, want %s/%q", i, q.IssueType, q.SpecificIssue, target.Type, target.Issue.Issue)
				}
				wantFormat := workflow.FormatCorrection
				if i%2 == 1 {
					wantFormat = workflow.FormatMultipleChoice
					if len(q.Options) != 4 {
						t.Errorf("questions[%d] options = %d, want 4", i, len(q.Options))
					}
				}
				if q.QuestionFormat != wantFormat {
					t.Errorf("questions[%d].QuestionFormat = %q, want %q", i, q.QuestionFormat, wantFormat)
				}
			}
		})
	}
}

func TestGeneratePracticeVariesBySession(t *testing.T) {
	rt, _ := newRuntime(t, nil)
	targets := sampleTargets()[:1]

	first := workflow.GeneratePractice(context.Background(), rt, targets, 1, "beginner", nil, nil)
	second := workflow.GeneratePractice(context.Background(), rt, targets, 2, "beginner", nil, nil)

	if first[0].QuestionText == second[0].QuestionText {
		t.Errorf("sessions 1 and 2 share question %q", first[0].QuestionText)
	}
}

func TestGeneratePracticeReplacesRepeats(t *testing.T) {
	model := &stubModel{respond: func(_ prompts.Stage, _ int) (string, error) {
		return generated(6, "fresh"), nil
	}}
	rt, _ := newRuntime(t, model)

	prior := []string{"FRESH   question 2"}
	qs := workflow.GeneratePractice(context.Background(), rt, sampleTargets(), 3, "advanced", prior, nil)

	if qs[2].QuestionText == "fresh question 2" {
		t.Fatal("repeated question was not replaced")
	}
	if qs[2].QuestionFormat != workflow.FormatCorrection || qs[2].SpecificIssue != "missing comma" {
		t.Errorf("replacement = %+v, want correction for missing comma", qs[2])
	}
	if qs[3].QuestionText != "fresh question 3" {
		t.Errorf("unrelated question changed: %q", qs[3].QuestionText)
	}
}

func TestGeneratePracticeTemplatesAvoidPrior(t *testing.T) {
	rt, _ := newRuntime(t, nil)
	targets := sampleTargets()

	first := workflow.GeneratePractice(context.Background(), rt, targets, 1, "beginner", nil, nil)

	var prior []string
	for _, q := range first {
		prior = append(prior, q.QuestionText)
	}

	fourth := workflow.GeneratePractice(context.Background(), rt, targets, 4, "beginner", prior, nil)

	if len(fourth) != 6 {
		t.Fatalf("questions = %d, want 6", len(fourth))
	}
	seen := make(map[string]bool)
	for _, p := range prior {
		seen[p] = true
	}
	for i, q := range fourth {
		if seen[q.QuestionText] {
			t.Errorf("questions[%d] repeats %q", i, q.QuestionText)
		}
		seen[q.QuestionText] = true
	}
}

func TestTemplatedExplanations(t *testing.T) {
	rt, _ := newRuntime(t, nil)

	tests := []struct {
		dimension workflow.Dimension
		sentence  string
		want      string
	}{
		{workflow.Grammar, "Each of the students have", `"has"`},
		{workflow.Grammar, "Me and him", "subject forms"},
		{workflow.Punctuation, "However I think", "However"},
		{workflow.Punctuation, "The dogs bowl", "apostrophe"},
		{workflow.Punctuation, "When the meeting ended we", "introductory clause"},
		{workflow.Tone, "Send me the report now", "polite question"},
	}

	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			target := []workflow.TargetIssue{{Type: tt.dimension, Issue: workflow.Issue{Issue: "x", Frequency: 1}}}

			var found bool
			for session := 1; session <= 3; session++ {
				qs := workflow.GeneratePractice(context.Background(), rt, target, session, "beginner", nil, nil)
				correction, choice := qs[0], qs[1]
				if correction.Explanation == choice.Explanation {
					t.Errorf("session %d: correction and choice share explanation %q", session, correction.Explanation)
				}
				if !strings.Contains(correction.QuestionText, tt.sentence) {
					continue
				}
				found = true
				if !strings.Contains(correction.Explanation, tt.want) {
					t.Errorf("explanation %q should mention %s", correction.Explanation, tt.want)
				}
			}
			if !found {
				t.Fatalf("no templated correction contains %q", tt.sentence)
			}
		})
	}
}

func TestNewSession(t *testing.T) {
	rt, _ := newRuntime(t, nil)

	session, err := workflow.NewSession(context.Background(), rt, sampleTargets(), 1, "", nil, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if session.SessionID == "" || session.SessionNumber != 1 || session.Completed {
		t.Errorf("session = %+v", session)
	}
	if len(session.Focus) != 3 || session.Focus[0] != "subject-verb agreement" {
		t.Errorf("Focus = %v", session.Focus)
	}
	if len(session.Questions) != 6 {
		t.Errorf("questions = %d, want 6", len(session.Questions))
	}
	if session.UserAnswers == nil {
		t.Error("UserAnswers is nil")
	}

	tests := []struct {
		name       string
		issues     []workflow.TargetIssue
		number     int
		difficulty string
	}{
		{"no issues", nil, 1, ""},
		{"zero session", sampleTargets(), 0, ""},
		{"unknown difficulty", sampleTargets(), 1, "expert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := workflow.NewSession(context.Background(), rt, tt.issues, tt.number, tt.difficulty, nil, nil)
			if !errors.Is(err, workflow.ErrInvalidSession) {
				t.Errorf("err = %v, want ErrInvalidSession", err)
			}
		})
	}
}
