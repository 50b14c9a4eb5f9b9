// Package llm defines the model call contract used by the pipeline and
// adapts the OpenAI and Anthropic SDKs and go-agents providers to it.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
)

var (
	ErrMissingAPIKey = errors.New("api key required")
	ErrEmptyResponse = errors.New("model returned no content")
)

// Model completes a single prompt. Implementations return the raw response
// text; callers sanitize and parse it.
type Model interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Error is a failed model call with an HTTP-like status.
// Status is zero when no response was received.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("model call failed: %s", e.Message)
	}
	return fmt.Sprintf("model call failed (%d): %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RateLimited reports whether the provider rejected the call for rate.
func (e *Error) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// New creates the provider-specific Model described by cfg.
func New(cfg *Config) (Model, error) {
	if cfg.APIKey == "" && keyRequired(cfg.Provider) {
		return nil, ErrMissingAPIKey
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return newOpenAI(cfg), nil
	case ProviderAnthropic:
		return newAnthropic(cfg), nil
	case ProviderAzure, ProviderOllama:
		return newAgent(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var le *Error
	if errors.As(err, &le) {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var oaiErr *openai.Error
	if errors.As(err, &oaiErr) {
		return &Error{Status: oaiErr.StatusCode, Message: oaiErr.Message, Err: err}
	}

	var antErr *anthropic.Error
	if errors.As(err, &antErr) {
		return &Error{Status: antErr.StatusCode, Message: anthropicMessage(antErr), Err: err}
	}

	return &Error{Message: err.Error(), Err: err}
}

// anthropicMessage extracts error.message from the response body and falls
// back to the SDK's own rendering when the body is not the documented shape.
func anthropicMessage(e *anthropic.Error) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(e.RawJSON()), &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return e.Error()
}
