package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/quill/internal/messages"
	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/formatting"
)

type batchItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

func batchItems(batch []messages.Message) []batchItem {
	items := make([]batchItem, len(batch))
	for i, m := range batch {
		items[i] = batchItem{Index: i + 1, Text: m.Text}
	}
	return items
}

// ConfirmRelevance asks the model, batch by batch, which messages are
// samples of the user's writing and returns those it confirms, in input
// order. A batch whose response cannot be parsed or has the wrong length
// is kept whole. The only error returned is ctx cancellation.
func ConfirmRelevance(
	ctx context.Context,
	rt *Runtime,
	msgs []messages.Message,
	progress Progress,
) ([]messages.Message, error) {
	ctx, span := rt.tracer().Start(ctx, "workflow.relevance")
	defer span.End()

	logger := rt.logger().With("stage", StageRelevance)
	kept := make([]messages.Message, 0, len(msgs))

	err := forEachBatch(ctx, rt, StageRelevance, msgs, rt.Config.RelevanceBatchSize, progress,
		func(ctx context.Context, batch []messages.Message) {
			verdicts, err := confirmBatch(ctx, rt, batch)
			if err != nil {
				logger.WarnContext(ctx, "keeping batch", "size", len(batch), "error", err)
				kept = append(kept, batch...)
				return
			}

			for i, ok := range verdicts {
				if ok {
					kept = append(kept, batch[i])
				}
			}
		},
	)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "relevance complete", "input", len(msgs), "kept", len(kept))
	return kept, nil
}

func confirmBatch(ctx context.Context, rt *Runtime, batch []messages.Message) (prompts.RelevanceResponse, error) {
	content, err := rt.call(ctx, prompts.StageRelevance, batchItems(batch), rt.Config.Tokens.Relevance)
	if err != nil {
		return nil, err
	}

	verdicts, err := formatting.Parse[prompts.RelevanceResponse](content)
	if err != nil {
		return nil, err
	}

	if len(verdicts) != len(batch) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(verdicts), len(batch))
	}

	return verdicts, nil
}
