package knowledge

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultCategories is the fixed ticket category set with a knowledge index each.
var DefaultCategories = []string{"billing", "technical", "security", "general"}

// Config holds knowledge index build and query settings.
type Config struct {
	DataDir        string   `toml:"data_dir"`
	Categories     []string `toml:"categories"`
	ChunkSize      int      `toml:"chunk_size"`
	ChunkOverlap   int      `toml:"chunk_overlap"`
	TopK           int      `toml:"top_k"`
	QueryCacheSize int      `toml:"query_cache_size"`
	IndexPrefix    string   `toml:"index_prefix"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	DataDir        string
	Categories     string
	ChunkSize      string
	ChunkOverlap   string
	TopK           string
	QueryCacheSize string
	IndexPrefix    string
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
	if overlay.DataDir != "" {
		c.DataDir = overlay.DataDir
	}
	if len(overlay.Categories) > 0 {
		c.Categories = overlay.Categories
	}
	if overlay.ChunkSize != 0 {
		c.ChunkSize = overlay.ChunkSize
	}
	if overlay.ChunkOverlap != 0 {
		c.ChunkOverlap = overlay.ChunkOverlap
	}
	if overlay.TopK != 0 {
		c.TopK = overlay.TopK
	}
	if overlay.QueryCacheSize != 0 {
		c.QueryCacheSize = overlay.QueryCacheSize
	}
	if overlay.IndexPrefix != "" {
		c.IndexPrefix = overlay.IndexPrefix
	}
}

// IndexKey returns the storage key of category's persisted index.
func (c *Config) IndexKey(category string) string {
	return c.IndexPrefix + "/" + category + "/index.cbor.zst"
}

func (c *Config) loadDefaults() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if len(c.Categories) == 0 {
		c.Categories = append([]string(nil), DefaultCategories...)
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = 600
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = 80
	}
	if c.TopK == 0 {
		c.TopK = 3
	}
	if c.QueryCacheSize == 0 {
		c.QueryCacheSize = 1024
	}
	if c.IndexPrefix == "" {
		c.IndexPrefix = "vectorstores"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.DataDir != "" {
		if v := os.Getenv(env.DataDir); v != "" {
			c.DataDir = v
		}
	}
	if env.Categories != "" {
		if v := os.Getenv(env.Categories); v != "" {
			c.Categories = splitList(v)
		}
	}
	if env.ChunkSize != "" {
		if v := os.Getenv(env.ChunkSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.ChunkSize = n
			}
		}
	}
	if env.ChunkOverlap != "" {
		if v := os.Getenv(env.ChunkOverlap); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.ChunkOverlap = n
			}
		}
	}
	if env.TopK != "" {
		if v := os.Getenv(env.TopK); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.TopK = n
			}
		}
	}
	if env.QueryCacheSize != "" {
		if v := os.Getenv(env.QueryCacheSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.QueryCacheSize = n
			}
		}
	}
	if env.IndexPrefix != "" {
		if v := os.Getenv(env.IndexPrefix); v != "" {
			c.IndexPrefix = v
		}
	}
}

func (c *Config) validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("categories required")
	}
	for _, cat := range c.Categories {
		if cat == "" || strings.ContainsAny(cat, "/\\.") {
			return fmt.Errorf("invalid category %q", cat)
		}
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size)")
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be positive")
	}
	if c.QueryCacheSize < 1 {
		return fmt.Errorf("query_cache_size must be positive")
	}
	if strings.Contains(c.IndexPrefix, "..") {
		return fmt.Errorf("index_prefix must not contain ..")
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
