package workflow_test

import (
	"context"
	"strings"
	"testing"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/internal/workflow"
)

func analysisWith(grammar, punctuation, tone float64, issues map[workflow.Dimension][]string) *workflow.Analysis {
	list := func(d workflow.Dimension) []workflow.Issue {
		var out []workflow.Issue
		for _, text := range issues[d] {
			out = append(out, workflow.Issue{Issue: text, Frequency: 3, Severity: workflow.SeverityMedium})
		}
		return out
	}

	return &workflow.Analysis{
		Summary: workflow.Summary{
			AvgGrammarScore:     grammar,
			AvgPunctuationScore: punctuation,
			AvgToneScore:        tone,
		},
		TopGrammarIssues:     list(workflow.Grammar),
		TopPunctuationIssues: list(workflow.Punctuation),
		TopToneIssues:        list(workflow.Tone),
	}
}

func texts(issues []workflow.Issue) string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Issue
	}
	return strings.Join(out, ",")
}

func TestClassifyIssues(t *testing.T) {
	issue := func(text string, freq int) workflow.Issue {
		return workflow.Issue{Issue: text, Frequency: freq}
	}

	tests := []struct {
		name           string
		baseline       []workflow.Issue
		followup       []workflow.Issue
		wantResolved   string
		wantPersistent string
		wantNew        string
	}{
		{
			name:           "mixed",
			baseline:       []workflow.Issue{issue("A", 1), issue("B", 1), issue("C", 1)},
			followup:       []workflow.Issue{issue("B", 1), issue("D", 1)},
			wantResolved:   "A,C",
			wantPersistent: "B",
			wantNew:        "D",
		},
		{
			name:           "case insensitive",
			baseline:       []workflow.Issue{issue("Comma splice", 4)},
			followup:       []workflow.Issue{issue("comma SPLICE", 2)},
			wantPersistent: "comma SPLICE",
		},
		{
			name:         "empty followup",
			baseline:     []workflow.Issue{issue("A", 1)},
			wantResolved: "A",
		},
		{
			name:         "duplicates collapse",
			baseline:     []workflow.Issue{issue("A", 1), issue("a", 2)},
			followup:     []workflow.Issue{issue("D", 1), issue("d", 1)},
			wantResolved: "A",
			wantNew:      "D",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, persistent, newIssues := workflow.ClassifyIssues(tt.baseline, tt.followup)

			if got := texts(resolved); got != tt.wantResolved {
				t.Errorf("resolved = %q, want %q", got, tt.wantResolved)
			}
			if got := texts(persistent); got != tt.wantPersistent {
				t.Errorf("persistent = %q, want %q", got, tt.wantPersistent)
			}
			if got := texts(newIssues); got != tt.wantNew {
				t.Errorf("new = %q, want %q", got, tt.wantNew)
			}
			if resolved == nil || persistent == nil || newIssues == nil {
				t.Error("classification lists must be non-nil")
			}
		})
	}
}

func TestClassifyIssuesPersistentUsesFollowup(t *testing.T) {
	_, persistent, _ := workflow.ClassifyIssues(
		[]workflow.Issue{{Issue: "Run-on sentence", Frequency: 8}},
		[]workflow.Issue{{Issue: "run-on sentence", Frequency: 2}},
	)

	if len(persistent) != 1 || persistent[0].Frequency != 2 {
		t.Errorf("persistent = %+v, want followup frequency 2", persistent)
	}
}

func TestCompareScores(t *testing.T) {
	rt, _ := newRuntime(t, nil)

	baseline := analysisWith(3.0, 0, 4.0, nil)
	followup := analysisWith(3.6, 2.5, 3.0, nil)

	result := workflow.Compare(context.Background(), rt, baseline, followup, nil)

	if result.Grammar.Change != 0.6 {
		t.Errorf("grammar change = %v, want 0.6", result.Grammar.Change)
	}
	if result.Grammar.ChangePercent == nil || *result.Grammar.ChangePercent != 20 {
		t.Errorf("grammar percent = %v, want 20", result.Grammar.ChangePercent)
	}
	if result.Punctuation.ChangePercent != nil {
		t.Errorf("punctuation percent = %v, want nil for zero baseline", *result.Punctuation.ChangePercent)
	}
	if result.Punctuation.Change != 2.5 {
		t.Errorf("punctuation change = %v, want 2.5", result.Punctuation.Change)
	}
	if result.Tone.ChangePercent == nil || *result.Tone.ChangePercent != -25 {
		t.Errorf("tone percent = %v, want -25", result.Tone.ChangePercent)
	}
}

func TestCompareIssuesAcrossDimensions(t *testing.T) {
	rt, _ := newRuntime(t, nil)

	baseline := analysisWith(3, 3, 3, map[workflow.Dimension][]string{
		workflow.Grammar:     {"A", "B"},
		workflow.Punctuation: {"C"},
	})
	followup := analysisWith(3, 3, 3, map[workflow.Dimension][]string{
		workflow.Grammar: {"B"},
		workflow.Tone:    {"D"},
	})

	result := workflow.Compare(context.Background(), rt, baseline, followup, nil)

	if got := texts(result.Resolved); got != "A,C" {
		t.Errorf("resolved = %q, want A,C", got)
	}
	if got := texts(result.Persistent); got != "B" {
		t.Errorf("persistent = %q, want B", got)
	}
	if got := texts(result.NewIssues); got != "D" {
		t.Errorf("new = %q, want D", got)
	}
}

func TestCompareNarrative(t *testing.T) {
	tests := []struct {
		name     string
		followup float64
		want     string
	}{
		{"great", 3.3, "Great progress"},
		{"steady", 3.09, "Steady progress"},
		{"stable", 3.0, "Stable"},
		{"decline", 2.5, "Stable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, _ := newRuntime(t, nil)

			result := workflow.Compare(
				context.Background(), rt,
				analysisWith(3, 3, 3, map[workflow.Dimension][]string{workflow.Grammar: {"A"}}),
				analysisWith(tt.followup, tt.followup, tt.followup, nil),
				nil,
			)

			if !strings.HasPrefix(result.Narrative, tt.want) {
				t.Errorf("Narrative = %q, want prefix %q", result.Narrative, tt.want)
			}
			if !strings.Contains(result.Narrative, "1 issues resolved, 0 persistent, 0 new") {
				t.Errorf("Narrative = %q, missing issue counts", result.Narrative)
			}
		})
	}
}

func TestCompareModelNarrative(t *testing.T) {
	model := &stubModel{respond: func(stage prompts.Stage, _ int) (string, error) {
		if stage != prompts.StageCompare {
			t.Errorf("unexpected stage %q", stage)
		}
		return "```json\n{\"narrative\": \"Your grammar improved noticeably.\"}\n```", nil
	}}
	rt, _ := newRuntime(t, model)

	result := workflow.Compare(context.Background(), rt, analysisWith(3, 3, 3, nil), analysisWith(4, 4, 4, nil), nil)

	if result.Narrative != "Your grammar improved noticeably." {
		t.Errorf("Narrative = %q", result.Narrative)
	}
}

func TestCompareEmptyNarrativeFallsBack(t *testing.T) {
	model := &stubModel{respond: func(_ prompts.Stage, _ int) (string, error) {
		return `{"narrative": "  "}`, nil
	}}
	rt, _ := newRuntime(t, model)

	result := workflow.Compare(context.Background(), rt, analysisWith(3, 3, 3, nil), analysisWith(3, 3, 3, nil), nil)

	if !strings.HasPrefix(result.Narrative, "Stable") {
		t.Errorf("Narrative = %q, want templated fallback", result.Narrative)
	}
}
