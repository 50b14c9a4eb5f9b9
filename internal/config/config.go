// Package config loads Quill's layered configuration: an optional
// config.toml, an optional config.<QUILL_ENV>.toml overlay, then QUILL_
// environment variables, then defaults and validation per section.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/quill/internal/llm"
	"github.com/JaimeStill/quill/internal/workflow"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvQuillEnv             = "QUILL_ENV"
	EnvQuillShutdownTimeout = "QUILL_SHUTDOWN_TIMEOUT"
	EnvQuillVersion         = "QUILL_VERSION"
)

var modelEnv = &llm.Env{
	Provider:    "QUILL_MODEL_PROVIDER",
	APIKey:      "QUILL_MODEL_API_KEY",
	BaseURL:     "QUILL_MODEL_BASE_URL",
	Name:        "QUILL_MODEL_NAME",
	Temperature: "QUILL_MODEL_TEMPERATURE",
	Options: map[string]string{
		"deployment":  "QUILL_MODEL_DEPLOYMENT",
		"api_version": "QUILL_MODEL_API_VERSION",
		"auth_type":   "QUILL_MODEL_AUTH_TYPE",
	},
}

var pipelineEnv = &workflow.Env{
	RelevanceBatchSize: "QUILL_PIPELINE_RELEVANCE_BATCH_SIZE",
	EvaluateBatchSize:  "QUILL_PIPELINE_EVALUATE_BATCH_SIZE",
	MinInterval:        "QUILL_PIPELINE_MIN_INTERVAL",
	Cooldown:           "QUILL_PIPELINE_COOLDOWN",
	CooldownEvery:      "QUILL_PIPELINE_COOLDOWN_EVERY",
	MaxMessages:        "QUILL_PIPELINE_MAX_MESSAGES",
	Difficulty:         "QUILL_PIPELINE_DIFFICULTY",
}

// Config is the root configuration for the Quill service and CLI.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	API             APIConfig       `toml:"api"`
	Model           llm.Config      `toml:"model"`
	Pipeline        workflow.Config `toml:"pipeline"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the QUILL_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvQuillEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile is Load with an explicit base config path. The overlay is
// resolved beside it.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(path); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Model.Merge(&overlay.Model)
	c.Pipeline.Merge(&overlay.Pipeline)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(serverEnv); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Model.Finalize(modelEnv); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := c.Pipeline.Finalize(pipelineEnv); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvQuillShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvQuillVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	env := os.Getenv(EnvQuillEnv)
	if env == "" {
		return ""
	}

	path := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
