package middleware

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// CORSConfig is the cross-origin policy for a module.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv names the environment variables that override CORSConfig.
// List values are comma-separated.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials string
	MaxAge           string
}

// Finalize applies env overrides and fills defaults. Unparseable boolean
// or integer overrides are reported together.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	var err error
	if env != nil {
		err = c.loadEnv(env)
	}

	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}
	return err
}

// Merge applies overlay. The two booleans always take the overlay value
// since TOML cannot distinguish false from unset; other fields apply when set.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials

	for _, l := range []struct{ dst, src *[]string }{
		{&c.Origins, &overlay.Origins},
		{&c.AllowedMethods, &overlay.AllowedMethods},
		{&c.AllowedHeaders, &overlay.AllowedHeaders},
	} {
		if *l.src != nil {
			*l.dst = *l.src
		}
	}
	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *CORSConfig) loadEnv(env *CORSEnv) error {
	var errs []error

	if v, ok := lookup(env.Origins); ok {
		c.Origins = splitList(v)
	}
	if v, ok := lookup(env.AllowedMethods); ok {
		c.AllowedMethods = splitList(v)
	}
	if v, ok := lookup(env.AllowedHeaders); ok {
		c.AllowedHeaders = splitList(v)
	}

	errs = append(errs,
		parseEnv(env.Enabled, strconv.ParseBool, &c.Enabled),
		parseEnv(env.AllowCredentials, strconv.ParseBool, &c.AllowCredentials),
		parseEnv(env.MaxAge, strconv.Atoi, &c.MaxAge),
	)
	return errors.Join(errs...)
}

func lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	v := os.Getenv(name)
	return v, v != ""
}

func parseEnv[T any](name string, parse func(string) (T, error), dst *T) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	parsed, err := parse(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = parsed
	return nil
}

// splitList parses a comma-separated value, dropping blank entries.
func splitList(v string) []string {
	var out []string
	for p := range strings.SplitSeq(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
