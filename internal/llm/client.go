package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/quill/pkg/scheduler"
)

// Client routes every model call through a single scheduler so that calls
// run one at a time with minimum spacing between starts.
type Client struct {
	model     Model
	scheduler *scheduler.Scheduler
	logger    *slog.Logger
}

// NewClient creates a Client that owns its own request queue.
func NewClient(model Model, sched *scheduler.Scheduler, logger *slog.Logger) *Client {
	return &Client{
		model:     model,
		scheduler: sched,
		logger:    logger.With("system", "llm"),
	}
}

// Call enqueues prompt and waits for the raw response text.
func (c *Client) Call(ctx context.Context, prompt string, maxTokens int) (string, error) {
	start := time.Now()

	content, err := scheduler.Do(ctx, c.scheduler, func(ctx context.Context) (string, error) {
		return c.model.Complete(ctx, prompt, maxTokens)
	})
	if err != nil {
		return "", err
	}

	c.logger.DebugContext(
		ctx, "model call complete",
		"max_tokens", maxTokens,
		"response_bytes", len(content),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return content, nil
}

// QueueLength returns the number of calls waiting to start.
func (c *Client) QueueLength() int {
	return c.scheduler.QueueLength()
}

// EstimatedWait returns QueueLength multiplied by the minimum interval.
func (c *Client) EstimatedWait() time.Duration {
	return c.scheduler.EstimatedWait()
}
