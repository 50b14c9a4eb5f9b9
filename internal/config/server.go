package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// ServerEnv names the environment variables that override ServerConfig.
type ServerEnv struct {
	Host            string
	Port            string
	ReadTimeout     string
	WriteTimeout    string
	ShutdownTimeout string
}

var serverEnv = &ServerEnv{
	Host:            "QUILL_SERVER_HOST",
	Port:            "QUILL_SERVER_PORT",
	ReadTimeout:     "QUILL_SERVER_READ_TIMEOUT",
	WriteTimeout:    "QUILL_SERVER_WRITE_TIMEOUT",
	ShutdownTimeout: "QUILL_SERVER_SHUTDOWN_TIMEOUT",
}

// ServerConfig holds the HTTP listener settings. A full evaluation run
// happens inside one request, so WriteTimeout defaults to 30m.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`

	read, write, shutdown time.Duration
}

func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration     { return c.read }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration    { return c.write }
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration { return c.shutdown }

// Finalize fills defaults, applies env overrides, then parses and checks
// every field. All invalid fields are reported together.
func (c *ServerConfig) Finalize(env *ServerEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.parse()
}

// Merge overwrites fields that are set in overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	mergeString(&c.Host, overlay.Host)
	mergeString(&c.ReadTimeout, overlay.ReadTimeout)
	mergeString(&c.WriteTimeout, overlay.WriteTimeout)
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
}

func (c *ServerConfig) loadDefaults() {
	c.Host = orDefault(c.Host, "0.0.0.0")
	c.ReadTimeout = orDefault(c.ReadTimeout, "2m")
	c.WriteTimeout = orDefault(c.WriteTimeout, "30m")
	c.ShutdownTimeout = orDefault(c.ShutdownTimeout, "30s")
	if c.Port == 0 {
		c.Port = 8400
	}
}

func (c *ServerConfig) loadEnv(env *ServerEnv) {
	mergeString(&c.Host, os.Getenv(env.Host))
	mergeString(&c.ReadTimeout, os.Getenv(env.ReadTimeout))
	mergeString(&c.WriteTimeout, os.Getenv(env.WriteTimeout))
	mergeString(&c.ShutdownTimeout, os.Getenv(env.ShutdownTimeout))
	if v := os.Getenv(env.Port); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

func (c *ServerConfig) parse() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"read_timeout", c.ReadTimeout, &c.read},
		{"write_timeout", c.WriteTimeout, &c.write},
		{"shutdown_timeout", c.ShutdownTimeout, &c.shutdown},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", d.name, err))
			continue
		}
		*d.dst = v
	}
	return errors.Join(errs...)
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
