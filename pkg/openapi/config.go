package openapi

import "os"

// Config carries document metadata. ServerURL replaces the default
// server entry when the API sits behind a proxy that rewrites paths.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	ServerURL   string `toml:"server_url"`
}

// ConfigEnv names the environment variables that override Config.
type ConfigEnv struct {
	Title       string
	Description string
	ServerURL   string
}

const (
	defaultTitle       = "Quill API"
	defaultDescription = "Writing evaluation and practice service for chat history exports."
)

func (c *Config) Finalize(env *ConfigEnv) error {
	if env != nil {
		override(&c.Title, env.Title)
		override(&c.Description, env.Description)
		override(&c.ServerURL, env.ServerURL)
	}
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Description == "" {
		c.Description = defaultDescription
	}
	return nil
}

// Merge overwrites fields that are set in overlay.
func (c *Config) Merge(overlay *Config) {
	keep(&c.Title, overlay.Title)
	keep(&c.Description, overlay.Description)
	keep(&c.ServerURL, overlay.ServerURL)
}

// Server returns ServerURL, or fallback when unset.
func (c *Config) Server(fallback string) string {
	if c.ServerURL != "" {
		return c.ServerURL
	}
	return fallback
}

func override(dst *string, name string) {
	if name == "" {
		return
	}
	if v, ok := os.LookupEnv(name); ok {
		keep(dst, v)
	}
}

func keep(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
