package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicModel struct {
	client      anthropic.Client
	model       string
	temperature *float64
}

func newAnthropic(cfg *Config) *anthropicModel {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &anthropicModel{
		client:      anthropic.NewClient(opts...),
		model:       cfg.Name,
		temperature: cfg.Temperature,
	}
}

func (m *anthropicModel) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(prompt),
				},
			},
		},
	}
	if m.temperature != nil {
		params.Temperature = anthropic.Float(*m.temperature)
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", wrapError(err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if sb.Len() == 0 {
		return "", wrapError(ErrEmptyResponse)
	}

	return sb.String(), nil
}
