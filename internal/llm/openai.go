package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAIModel struct {
	client      openai.Client
	model       string
	temperature *float64
}

func newOpenAI(cfg *Config) *openAIModel {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &openAIModel{
		client:      openai.NewClient(opts...),
		model:       cfg.Name,
		temperature: cfg.Temperature,
	}
}

func (m *openAIModel) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: m.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	}
	if m.temperature != nil {
		params.Temperature = openai.Float(*m.temperature)
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", wrapError(ErrEmptyResponse)
	}

	return resp.Choices[0].Message.Content, nil
}
