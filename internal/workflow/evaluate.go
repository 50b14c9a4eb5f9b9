package workflow

import (
	"context"
	"encoding/json"
	"math"

	"github.com/JaimeStill/quill/internal/messages"
	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/formatting"
)

const (
	neutralScore = 3
	minScore     = 1
	maxScore     = 5

	placeholderIssue = "Evaluation unavailable: the model response for this message could not be used"
)

// Evaluate scores every message on grammar, punctuation, and tone, one
// batch per model call. Output has exactly one record per input message in
// input order. Record identity is always taken from the input message.
// Missing scores default to 3 and missing issue lists to empty; a batch
// that fails outright yields neutral placeholder records.
func Evaluate(
	ctx context.Context,
	rt *Runtime,
	msgs []messages.Message,
	progress Progress,
) ([]EvaluationRecord, error) {
	ctx, span := rt.tracer().Start(ctx, "workflow.evaluate")
	defer span.End()

	logger := rt.logger().With("stage", StageEvaluate)
	records := make([]EvaluationRecord, 0, len(msgs))

	err := forEachBatch(ctx, rt, StageEvaluate, msgs, rt.Config.EvaluateBatchSize, progress,
		func(ctx context.Context, batch []messages.Message) {
			scores, err := evaluateBatch(ctx, rt, batch)
			if err != nil {
				logger.WarnContext(ctx, "placeholder batch", "size", len(batch), "error", err)
				for _, m := range batch {
					records = append(records, placeholderRecord(m))
				}
				return
			}

			for i, m := range batch {
				var score prompts.ScoreResponse
				if i < len(scores) {
					// a malformed entry leaves score zero-valued and gets defaults
					_ = json.Unmarshal(scores[i], &score)
				}
				records = append(records, newRecord(m, score))
			}
		},
	)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "evaluation complete", "records", len(records))
	return records, nil
}

func evaluateBatch(ctx context.Context, rt *Runtime, batch []messages.Message) ([]json.RawMessage, error) {
	content, err := rt.call(ctx, prompts.StageEvaluate, batchItems(batch), rt.Config.Tokens.Evaluate)
	if err != nil {
		return nil, err
	}

	return formatting.Parse[[]json.RawMessage](content)
}

func newRecord(m messages.Message, s prompts.ScoreResponse) EvaluationRecord {
	return EvaluationRecord{
		MessageID:         m.ID,
		Text:              m.Text,
		GrammarScore:      score(s.GrammarScore),
		PunctuationScore:  score(s.PunctuationScore),
		ToneScore:         score(s.ToneScore),
		GrammarIssues:     issueList(s.GrammarIssues),
		PunctuationIssues: issueList(s.PunctuationIssues),
		ToneIssues:        issueList(s.ToneIssues),
	}
}

func placeholderRecord(m messages.Message) EvaluationRecord {
	return EvaluationRecord{
		MessageID:         m.ID,
		Text:              m.Text,
		GrammarScore:      neutralScore,
		PunctuationScore:  neutralScore,
		ToneScore:         neutralScore,
		GrammarIssues:     []string{placeholderIssue},
		PunctuationIssues: []string{},
		ToneIssues:        []string{},
	}
}

func score(v *float64) int {
	if v == nil || math.IsNaN(*v) {
		return neutralScore
	}
	return min(max(int(math.Round(*v)), minScore), maxScore)
}

func issueList(issues []string) []string {
	out := make([]string, 0, len(issues))
	for _, s := range issues {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
