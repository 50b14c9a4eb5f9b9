package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/quill/pkg/formatting"
	"github.com/JaimeStill/quill/pkg/middleware"
	"github.com/JaimeStill/quill/pkg/openapi"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "QUILL_CORS_ENABLED",
	Origins:          "QUILL_CORS_ORIGINS",
	AllowedMethods:   "QUILL_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "QUILL_CORS_ALLOWED_HEADERS",
	AllowCredentials: "QUILL_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "QUILL_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "QUILL_OPENAPI_TITLE",
	Description: "QUILL_OPENAPI_DESCRIPTION",
	ServerURL:   "QUILL_OPENAPI_SERVER_URL",
}

// APIConfig holds API routing, request limits, CORS, and OpenAPI settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes. Chat exports can be large.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 100 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "100MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("QUILL_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("QUILL_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
}

func (c *APIConfig) validate() error {
	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	return nil
}
