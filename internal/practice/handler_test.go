package practice_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/quill/internal/practice"
	"github.com/JaimeStill/quill/internal/workflow"
	"github.com/JaimeStill/quill/pkg/routes"
)

func setupMux() *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt := &workflow.Runtime{Logger: logger}
	rt.Config.Finalize(nil)

	mux := http.NewServeMux()
	routes.Register(mux, practice.New(rt, logger).Handler(1<<20).Routes())
	return mux
}

func post(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var data []byte
	switch b := body.(type) {
	case string:
		data = []byte(b)
	default:
		var err error
		if data, err = json.Marshal(b); err != nil {
			t.Fatalf("marshal: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(string(data)))
	mux.ServeHTTP(rec, req)
	return rec
}

func targets() []workflow.TargetIssue {
	return []workflow.TargetIssue{
		{Type: workflow.Grammar, Issue: workflow.Issue{Issue: "subject-verb agreement", Frequency: 7}},
		{Type: workflow.Punctuation, Issue: workflow.Issue{Issue: "comma splices", Frequency: 4}},
		{Type: workflow.Tone, Issue: workflow.Issue{Issue: "overly casual", Frequency: 3}},
		{Type: workflow.Grammar, Issue: workflow.Issue{Issue: "tense shifts", Frequency: 1}},
	}
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) workflow.PracticeSession {
	t.Helper()
	var s workflow.PracticeSession
	if err := json.NewDecoder(rec.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return s
}

func TestHandlerCreate(t *testing.T) {
	mux := setupMux()

	rec := post(t, mux, "/practice/sessions", practice.SessionRequest{
		Issues:        targets(),
		SessionNumber: 2,
		Difficulty:    workflow.DifficultyBeginner,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	s := decodeSession(t, rec)
	if s.SessionNumber != 2 {
		t.Errorf("session number = %d, want 2", s.SessionNumber)
	}
	if len(s.Focus) != 3 || s.Focus[0] != "subject-verb agreement" {
		t.Errorf("focus = %v, want the three most frequent issues", s.Focus)
	}
	if len(s.Questions) != 6 {
		t.Errorf("questions = %d, want 6", len(s.Questions))
	}
	if s.Completed {
		t.Error("new session should not be completed")
	}
}

func TestHandlerCreateFromAnalysis(t *testing.T) {
	mux := setupMux()

	analysis := &workflow.Analysis{
		TopGrammarIssues:     []workflow.Issue{{Issue: "run-on sentences", Frequency: 2}},
		TopPunctuationIssues: []workflow.Issue{{Issue: "missing apostrophes", Frequency: 6}},
	}

	rec := post(t, mux, "/practice/sessions", practice.SessionRequest{
		Analysis:      analysis,
		SessionNumber: 1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	s := decodeSession(t, rec)
	if len(s.Focus) != 2 || s.Focus[0] != "missing apostrophes" {
		t.Errorf("focus = %v, want ranked analysis issues", s.Focus)
	}
}

func TestHandlerCreateErrors(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"malformed json", `{"issues":`},
		{"no issues", practice.SessionRequest{SessionNumber: 1}},
		{"session number zero", practice.SessionRequest{Issues: targets()}},
		{"unknown difficulty", practice.SessionRequest{Issues: targets(), SessionNumber: 1, Difficulty: "expert"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, setupMux(), "/practice/sessions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestHandlerGrade(t *testing.T) {
	mux := setupMux()

	session := workflow.PracticeSession{
		SessionID:     "s1",
		SessionNumber: 1,
		Questions: []workflow.PracticeQuestion{
			{
				QuestionID:     "q1",
				QuestionFormat: workflow.FormatMultipleChoice,
				QuestionText:   "Which sentence is correct?",
				Options:        []string{"A) They was late.", "B) They were late.", "C) They is late.", "D) They be late."},
				CorrectAnswer:  "B",
			},
			{
				QuestionID:     "q2",
				QuestionFormat: workflow.FormatCorrection,
				QuestionText:   "Fix: The team have finished there work.",
				CorrectAnswer:  "The team has finished their work.",
			},
			{
				QuestionID:     "q3",
				QuestionFormat: workflow.FormatCorrection,
				QuestionText:   "Fix: Its raining outside.",
				CorrectAnswer:  "It's raining outside.",
			},
		},
		UserAnswers: map[string]string{
			"q1": "b) They were late.",
			"q2": "the team has finished their work",
		},
	}

	rec := post(t, mux, "/practice/sessions/grade", session)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	graded := decodeSession(t, rec)
	if !graded.Completed {
		t.Error("graded session should be completed")
	}
	if len(graded.GradingResults) != 3 {
		t.Fatalf("results = %d, want 3", len(graded.GradingResults))
	}
	if graded.Score == nil || math.Abs(*graded.Score-2.0/3.0) > 1e-9 {
		t.Errorf("score = %v, want 2/3", graded.Score)
	}

	want := []bool{true, true, false}
	for i, r := range graded.GradingResults {
		if r.Correct != want[i] {
			t.Errorf("question %d correct = %v, want %v", r.Question, r.Correct, want[i])
		}
	}
}

func TestHandlerGradeErrors(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"malformed json", `[`},
		{"no questions", workflow.PracticeSession{SessionID: "empty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, setupMux(), "/practice/sessions/grade", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body)
			}
		})
	}
}
