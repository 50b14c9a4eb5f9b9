package workflow

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/formatting"
)

// Baselines whose magnitude rounds to zero at two decimals have no
// meaningful percent change.
const zeroBaseline = 0.005

type compareInput struct {
	Grammar     DimensionChange `json:"grammar"`
	Punctuation DimensionChange `json:"punctuation"`
	Tone        DimensionChange `json:"tone"`
	Resolved    []string        `json:"resolved_issues"`
	Persistent  []string        `json:"persistent_issues"`
	NewIssues   []string        `json:"new_issues"`
}

// Compare contrasts two analyses. Score changes and issue classification
// are computed locally; the model only writes the narrative, which falls
// back to a templated sentence.
func Compare(ctx context.Context, rt *Runtime, baseline, followup *Analysis, progress Progress) *ComparisonResult {
	ctx, span := rt.tracer().Start(ctx, "workflow.compare")
	defer span.End()

	result := &ComparisonResult{
		Grammar:     change(baseline.Average(Grammar), followup.Average(Grammar)),
		Punctuation: change(baseline.Average(Punctuation), followup.Average(Punctuation)),
		Tone:        change(baseline.Average(Tone), followup.Average(Tone)),
	}

	result.Resolved, result.Persistent, result.NewIssues = ClassifyIssues(allIssues(baseline), allIssues(followup))

	progress.report("compare: writing progress summary")

	narrative, err := compareCall(ctx, rt, result)
	if err != nil {
		rt.logger().WarnContext(ctx, "using templated narrative", "stage", "compare", "error", err)
		narrative = templatedNarrative(result)
	}
	result.Narrative = narrative

	return result
}

func change(baseline, followup float64) DimensionChange {
	d := DimensionChange{
		Baseline: baseline,
		Followup: followup,
		Change:   round2(followup - baseline),
	}
	if math.Abs(baseline) >= zeroBaseline {
		pct := round2((followup - baseline) / baseline * 100)
		d.ChangePercent = &pct
	}
	return d
}

func allIssues(a *Analysis) []Issue {
	var out []Issue
	for _, d := range Dimensions {
		out = append(out, a.Issues(d)...)
	}
	return out
}

// ClassifyIssues matches issues by case-insensitive exact text. Issues
// only in baseline are resolved, those in both persist (reported with
// followup values), and those only in followup are new.
func ClassifyIssues(baseline, followup []Issue) (resolved, persistent, newIssues []Issue) {
	before := issueKeys(baseline)
	after := issueKeys(followup)

	resolved, persistent, newIssues = []Issue{}, []Issue{}, []Issue{}
	seen := make(map[string]struct{})

	for _, issue := range baseline {
		key := issueKey(issue)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := after[key]; !ok {
			resolved = append(resolved, issue)
		}
	}

	clear(seen)
	for _, issue := range followup {
		key := issueKey(issue)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := before[key]; ok {
			persistent = append(persistent, issue)
		} else {
			newIssues = append(newIssues, issue)
		}
	}

	return resolved, persistent, newIssues
}

func issueKey(i Issue) string {
	return strings.ToLower(strings.TrimSpace(i.Issue))
}

func issueKeys(issues []Issue) map[string]struct{} {
	keys := make(map[string]struct{}, len(issues))
	for _, i := range issues {
		keys[issueKey(i)] = struct{}{}
	}
	return keys
}

func compareCall(ctx context.Context, rt *Runtime, r *ComparisonResult) (string, error) {
	input := compareInput{
		Grammar:     r.Grammar,
		Punctuation: r.Punctuation,
		Tone:        r.Tone,
		Resolved:    issueTexts(r.Resolved),
		Persistent:  issueTexts(r.Persistent),
		NewIssues:   issueTexts(r.NewIssues),
	}

	content, err := rt.call(ctx, prompts.StageCompare, input, rt.Config.Tokens.Compare)
	if err != nil {
		return "", err
	}

	resp, err := formatting.Parse[prompts.CompareResponse](content)
	if err != nil {
		return "", err
	}

	narrative := strings.TrimSpace(resp.Narrative)
	if narrative == "" {
		return "", fmt.Errorf("%w: empty narrative", formatting.ErrParseFailed)
	}
	return narrative, nil
}

func issueTexts(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Issue
	}
	return out
}

func templatedNarrative(r *ComparisonResult) string {
	var sum float64
	var n int
	for _, d := range []DimensionChange{r.Grammar, r.Punctuation, r.Tone} {
		if d.ChangePercent != nil {
			sum += *d.ChangePercent
			n++
		}
	}

	var avg float64
	if n > 0 {
		avg = sum / float64(n)
	}

	var headline string
	switch {
	case avg > 5:
		headline = "Great progress"
	case avg > 0:
		headline = "Steady progress"
	default:
		headline = "Stable"
	}

	return fmt.Sprintf(
		"%s: average scores changed by %.1f%%. %d issues resolved, %d persistent, %d new.",
		headline, avg, len(r.Resolved), len(r.Persistent), len(r.NewIssues),
	)
}
