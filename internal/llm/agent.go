package llm

import (
	"context"
	"maps"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const agentName = "quill"

// agentModel serves the ollama and azure providers through go-agents.
// Token limits and temperature come from the provider's model options.
type agentModel struct {
	chat func(ctx context.Context, prompt string) (string, error)
}

func newAgent(cfg *Config) (*agentModel, error) {
	ac := agentConfig(cfg)

	a, err := agent.New(&ac)
	if err != nil {
		return nil, err
	}

	return &agentModel{
		chat: func(ctx context.Context, prompt string) (string, error) {
			resp, err := a.Chat(ctx, prompt)
			if err != nil {
				return "", err
			}
			return resp.Content(), nil
		},
	}, nil
}

// agentConfig layers cfg over the go-agents defaults. The api key travels
// as the provider's token option.
func agentConfig(cfg *Config) gaconfig.AgentConfig {
	options := make(map[string]any, len(cfg.Options)+1)
	maps.Copy(options, cfg.Options)
	if cfg.APIKey != "" {
		options["token"] = cfg.APIKey
	}

	ac := gaconfig.DefaultAgentConfig()
	ac.Merge(&gaconfig.AgentConfig{
		Name: agentName,
		Provider: &gaconfig.ProviderConfig{
			Name:    cfg.Provider,
			BaseURL: cfg.BaseURL,
			Options: options,
		},
		Model: &gaconfig.ModelConfig{
			Name: cfg.Name,
		},
	})
	return ac
}

func (m *agentModel) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	content, err := m.chat(ctx, prompt)
	if err != nil {
		return "", wrapError(err)
	}
	if content == "" {
		return "", wrapError(ErrEmptyResponse)
	}
	return content, nil
}
