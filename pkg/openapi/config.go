package openapi

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds document metadata.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	// ServerURL is the public origin the API is reached through, such as a
	// reverse proxy. Empty documents a server relative to the document.
	ServerURL string `toml:"server_url"`
}

type ConfigEnv struct {
	Title       string
	Description string
	ServerURL   string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Triage API"
	}
	if c.Description == "" {
		c.Description = "Support ticket triage: classification, knowledge retrieval, drafted replies, and review."
	}

	if env != nil {
		for dst, name := range map[*string]string{
			&c.Title:       env.Title,
			&c.Description: env.Description,
			&c.ServerURL:   env.ServerURL,
		} {
			if name == "" {
				continue
			}
			if v := os.Getenv(name); v != "" {
				*dst = v
			}
		}
	}

	if c.ServerURL != "" {
		u, err := url.Parse(c.ServerURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid server_url %q: must be an absolute URL", c.ServerURL)
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	for dst, v := range map[*string]string{
		&c.Title:       overlay.Title,
		&c.Description: overlay.Description,
		&c.ServerURL:   overlay.ServerURL,
	} {
		if v != "" {
			*dst = v
		}
	}
}

// ServerFor joins the public origin with basePath.
func (c *Config) ServerFor(basePath string) string {
	return strings.TrimSuffix(c.ServerURL, "/") + basePath
}
