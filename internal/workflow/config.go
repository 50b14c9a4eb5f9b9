package workflow

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"
)

// Practice difficulty levels.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

var difficulties = []string{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyAdvanced,
}

// ValidDifficulty reports whether d is a known difficulty level.
func ValidDifficulty(d string) bool {
	return slices.Contains(difficulties, d)
}

// Config holds batching, pacing, and output budget settings for the pipeline.
type Config struct {
	RelevanceBatchSize int         `toml:"relevance_batch_size"`
	EvaluateBatchSize  int         `toml:"evaluate_batch_size"`
	MinInterval        string      `toml:"min_interval"`
	Cooldown           string      `toml:"cooldown"`
	CooldownEvery      int         `toml:"cooldown_every"`
	MaxMessages        int         `toml:"max_messages"`
	Difficulty         string      `toml:"difficulty"`
	Tokens             TokenLimits `toml:"tokens"`
}

// TokenLimits caps model output per stage.
type TokenLimits struct {
	Relevance int `toml:"relevance"`
	Evaluate  int `toml:"evaluate"`
	Analyze   int `toml:"analyze"`
	Practice  int `toml:"practice"`
	Grade     int `toml:"grade"`
	Compare   int `toml:"compare"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	RelevanceBatchSize string
	EvaluateBatchSize  string
	MinInterval        string
	Cooldown           string
	CooldownEvery      string
	MaxMessages        string
	Difficulty         string
}

// MinIntervalDuration returns MinInterval as a time.Duration.
func (c *Config) MinIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.MinInterval)
	return d
}

// CooldownDuration returns Cooldown as a time.Duration.
func (c *Config) CooldownDuration() time.Duration {
	d, _ := time.ParseDuration(c.Cooldown)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.RelevanceBatchSize != 0 {
		c.RelevanceBatchSize = overlay.RelevanceBatchSize
	}
	if overlay.EvaluateBatchSize != 0 {
		c.EvaluateBatchSize = overlay.EvaluateBatchSize
	}
	if overlay.MinInterval != "" {
		c.MinInterval = overlay.MinInterval
	}
	if overlay.Cooldown != "" {
		c.Cooldown = overlay.Cooldown
	}
	if overlay.CooldownEvery != 0 {
		c.CooldownEvery = overlay.CooldownEvery
	}
	if overlay.MaxMessages != 0 {
		c.MaxMessages = overlay.MaxMessages
	}
	if overlay.Difficulty != "" {
		c.Difficulty = overlay.Difficulty
	}
	c.Tokens.merge(&overlay.Tokens)
}

func (c *Config) loadDefaults() {
	if c.RelevanceBatchSize == 0 {
		c.RelevanceBatchSize = 20
	}
	if c.EvaluateBatchSize == 0 {
		c.EvaluateBatchSize = 10
	}
	if c.MinInterval == "" {
		c.MinInterval = "2s"
	}
	if c.Cooldown == "" {
		c.Cooldown = "60s"
	}
	if c.CooldownEvery == 0 {
		c.CooldownEvery = 4
	}
	if c.Difficulty == "" {
		c.Difficulty = DifficultyIntermediate
	}
	c.Tokens.loadDefaults()
}

func (c *Config) loadEnv(env *Env) {
	setInt := func(name string, dst *int) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setString := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	setInt(env.RelevanceBatchSize, &c.RelevanceBatchSize)
	setInt(env.EvaluateBatchSize, &c.EvaluateBatchSize)
	setString(env.MinInterval, &c.MinInterval)
	setString(env.Cooldown, &c.Cooldown)
	setInt(env.CooldownEvery, &c.CooldownEvery)
	setInt(env.MaxMessages, &c.MaxMessages)
	setString(env.Difficulty, &c.Difficulty)
}

func (c *Config) validate() error {
	if c.RelevanceBatchSize < 1 {
		return fmt.Errorf("invalid relevance_batch_size: %d", c.RelevanceBatchSize)
	}
	if c.EvaluateBatchSize < 1 {
		return fmt.Errorf("invalid evaluate_batch_size: %d", c.EvaluateBatchSize)
	}
	if c.CooldownEvery < 1 {
		return fmt.Errorf("invalid cooldown_every: %d", c.CooldownEvery)
	}
	if c.MaxMessages < 0 {
		return fmt.Errorf("invalid max_messages: %d", c.MaxMessages)
	}
	if _, err := time.ParseDuration(c.MinInterval); err != nil {
		return fmt.Errorf("invalid min_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Cooldown); err != nil {
		return fmt.Errorf("invalid cooldown: %w", err)
	}
	if !ValidDifficulty(c.Difficulty) {
		return fmt.Errorf("invalid difficulty: %s", c.Difficulty)
	}
	return nil
}

func (t *TokenLimits) loadDefaults() {
	if t.Relevance == 0 {
		t.Relevance = 1000
	}
	if t.Evaluate == 0 {
		t.Evaluate = 4000
	}
	if t.Analyze == 0 {
		t.Analyze = 3000
	}
	if t.Practice == 0 {
		t.Practice = 3000
	}
	if t.Grade == 0 {
		t.Grade = 2000
	}
	if t.Compare == 0 {
		t.Compare = 500
	}
}

func (t *TokenLimits) merge(overlay *TokenLimits) {
	if overlay.Relevance != 0 {
		t.Relevance = overlay.Relevance
	}
	if overlay.Evaluate != 0 {
		t.Evaluate = overlay.Evaluate
	}
	if overlay.Analyze != 0 {
		t.Analyze = overlay.Analyze
	}
	if overlay.Practice != 0 {
		t.Practice = overlay.Practice
	}
	if overlay.Grade != 0 {
		t.Grade = overlay.Grade
	}
	if overlay.Compare != 0 {
		t.Compare = overlay.Compare
	}
}
