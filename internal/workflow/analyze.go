package workflow

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/formatting"
)

const maxIssues = 5

type averages struct {
	Grammar     float64 `json:"grammar"`
	Punctuation float64 `json:"punctuation"`
	Tone        float64 `json:"tone"`
}

type analyzeInput struct {
	TotalMessages     int      `json:"total_messages"`
	Averages          averages `json:"averages"`
	GrammarIssues     []string `json:"grammar_issues"`
	PunctuationIssues []string `json:"punctuation_issues"`
	ToneIssues        []string `json:"tone_issues"`
}

// analyzeReply holds the model reply with each field still encoded, so
// one malformed dimension cannot discard the others.
type analyzeReply struct {
	OverallAssessment    json.RawMessage `json:"overall_assessment"`
	TopGrammarIssues     json.RawMessage `json:"top_grammar_issues"`
	TopPunctuationIssues json.RawMessage `json:"top_punctuation_issues"`
	TopToneIssues        json.RawMessage `json:"top_tone_issues"`
}

func (r analyzeReply) dimension(d Dimension) json.RawMessage {
	switch d {
	case Grammar:
		return r.TopGrammarIssues
	case Punctuation:
		return r.TopPunctuationIssues
	case Tone:
		return r.TopToneIssues
	}
	return nil
}

var recommendations = map[Dimension]string{
	Grammar:     "Reread each sentence for agreement and tense before sending.",
	Punctuation: "Check commas, apostrophes, and end marks in a final pass.",
	Tone:        "Match word choice and formality to the reader you are writing for.",
}

// Analyze aggregates records into an Analysis. Averages are computed
// locally. The model groups issue strings into ranked patterns; any
// dimension it leaves empty or malformed falls back to local grouping,
// and if the call fails entirely every dimension does and the overall
// assessment is a fixed description of the averages.
func Analyze(ctx context.Context, rt *Runtime, records []EvaluationRecord, progress Progress) (*Analysis, error) {
	if len(records) == 0 {
		return nil, &EmptyResultError{Stage: StageEvaluate}
	}

	ctx, span := rt.tracer().Start(ctx, "workflow.analyze")
	defer span.End()

	logger := rt.logger().With("stage", "analyze")
	input := analyzeInput{
		TotalMessages: len(records),
		Averages:      average(records),
	}
	for _, r := range records {
		input.GrammarIssues = append(input.GrammarIssues, r.GrammarIssues...)
		input.PunctuationIssues = append(input.PunctuationIssues, r.PunctuationIssues...)
		input.ToneIssues = append(input.ToneIssues, r.ToneIssues...)
	}

	raw := map[Dimension][]string{
		Grammar:     input.GrammarIssues,
		Punctuation: input.PunctuationIssues,
		Tone:        input.ToneIssues,
	}

	analysis := &Analysis{
		Summary: Summary{
			TotalMessages:       len(records),
			AvgGrammarScore:     input.Averages.Grammar,
			AvgPunctuationScore: input.Averages.Punctuation,
			AvgToneScore:        input.Averages.Tone,
		},
		Metadata: Metadata{
			EvaluationDate:    rt.now().UTC().Format(time.RFC3339),
			MessagesEvaluated: len(records),
		},
	}

	progress.report("analyze: grouping issue patterns")

	resp, err := analyzeCall(ctx, rt, input)
	if err != nil {
		logger.WarnContext(ctx, "using local analysis", "error", err)
		progress.report("analyze: model unavailable, grouping issues locally")
		analysis.Summary.OverallAssessment = staticAssessment(input.Averages, len(records))
		analysis.TopGrammarIssues = FallbackIssues(Grammar, raw[Grammar])
		analysis.TopPunctuationIssues = FallbackIssues(Punctuation, raw[Punctuation])
		analysis.TopToneIssues = FallbackIssues(Tone, raw[Tone])
		return analysis, nil
	}

	var assessment string
	if len(resp.OverallAssessment) > 0 {
		if err := json.Unmarshal(resp.OverallAssessment, &assessment); err != nil {
			logger.InfoContext(ctx, "assessment fallback", "error", err)
		}
	}
	analysis.Summary.OverallAssessment = strings.TrimSpace(assessment)
	if analysis.Summary.OverallAssessment == "" {
		analysis.Summary.OverallAssessment = staticAssessment(input.Averages, len(records))
	}

	analysis.TopGrammarIssues = resolveIssues(ctx, logger, Grammar, resp.dimension(Grammar), raw[Grammar])
	analysis.TopPunctuationIssues = resolveIssues(ctx, logger, Punctuation, resp.dimension(Punctuation), raw[Punctuation])
	analysis.TopToneIssues = resolveIssues(ctx, logger, Tone, resp.dimension(Tone), raw[Tone])

	progress.report("analyze: complete")
	return analysis, nil
}

// analyzeCall fails only when the reply is not a JSON object. Field
// shapes are checked per dimension by resolveIssues.
func analyzeCall(ctx context.Context, rt *Runtime, input analyzeInput) (analyzeReply, error) {
	content, err := rt.call(ctx, prompts.StageAnalyze, input, rt.Config.Tokens.Analyze)
	if err != nil {
		return analyzeReply{}, err
	}
	return formatting.Parse[analyzeReply](content)
}

func resolveIssues(
	ctx context.Context,
	logger *slog.Logger,
	d Dimension,
	reply json.RawMessage,
	raw []string,
) []Issue {
	var resp []prompts.IssueResponse
	if len(reply) > 0 {
		if err := json.Unmarshal(reply, &resp); err != nil {
			logger.InfoContext(ctx, "dimension fallback", "dimension", d, "error", err)
			return FallbackIssues(d, raw)
		}
	}

	issues := modelIssues(d, resp, raw)
	if len(issues) == 0 {
		logger.InfoContext(ctx, "dimension fallback", "dimension", d)
		return FallbackIssues(d, raw)
	}
	return issues
}

func modelIssues(d Dimension, resp []prompts.IssueResponse, raw []string) []Issue {
	var out []Issue
	for _, r := range resp {
		text := strings.TrimSpace(r.Issue)
		if text == "" {
			continue
		}

		freq := countMatches(text, raw)
		if r.Frequency != nil && *r.Frequency >= 0 {
			freq = int(math.Round(*r.Frequency))
		}

		rec := strings.TrimSpace(r.Recommendation)
		if rec == "" {
			rec = recommendations[d]
		}

		out = append(out, Issue{
			Issue:          text,
			Frequency:      freq,
			Severity:       SeverityFor(freq),
			Recommendation: rec,
		})
	}
	return capIssues(out)
}

// FallbackIssues groups raw issue strings by case-insensitive exact text,
// ranks groups by frequency, and caps the list at five. With no issue
// strings it returns a single low-severity placeholder, never nothing.
func FallbackIssues(d Dimension, raw []string) []Issue {
	type group struct {
		text  string
		count int
		first int
	}

	groups := make(map[string]*group)
	for i, s := range raw {
		text := strings.TrimSpace(s)
		if text == "" {
			continue
		}
		key := strings.ToLower(text)
		if g, ok := groups[key]; ok {
			g.count++
			continue
		}
		groups[key] = &group{text: text, count: 1, first: i}
	}

	if len(groups) == 0 {
		return []Issue{{
			Issue:          fmt.Sprintf("No recurring %s issues detected", d),
			Frequency:      0,
			Severity:       SeverityLow,
			Recommendation: recommendations[d],
		}}
	}

	sorted := make([]*group, 0, len(groups))
	for _, g := range groups {
		sorted = append(sorted, g)
	}
	slices.SortFunc(sorted, func(a, b *group) int {
		return cmp.Or(cmp.Compare(b.count, a.count), cmp.Compare(a.first, b.first))
	})

	out := make([]Issue, 0, len(sorted))
	for _, g := range sorted {
		out = append(out, Issue{
			Issue:          g.text,
			Frequency:      g.count,
			Severity:       SeverityFor(g.count),
			Recommendation: recommendations[d],
		})
	}
	return capIssues(out)
}

func capIssues(issues []Issue) []Issue {
	if len(issues) > maxIssues {
		return issues[:maxIssues]
	}
	return issues
}

func countMatches(text string, raw []string) int {
	n := 0
	for _, s := range raw {
		if strings.EqualFold(strings.TrimSpace(s), text) {
			n++
		}
	}
	return n
}

func average(records []EvaluationRecord) averages {
	var g, p, t int
	for _, r := range records {
		g += r.GrammarScore
		p += r.PunctuationScore
		t += r.ToneScore
	}
	n := float64(len(records))
	return averages{
		Grammar:     round2(float64(g) / n),
		Punctuation: round2(float64(p) / n),
		Tone:        round2(float64(t) / n),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func staticAssessment(avg averages, n int) string {
	return fmt.Sprintf(
		"Across %d evaluated messages, average scores were %.2f for grammar, %.2f for punctuation, and %.2f for tone on a 1 to 5 scale.",
		n, avg.Grammar, avg.Punctuation, avg.Tone,
	)
}
