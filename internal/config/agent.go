package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/triage/internal/workflow"
)

// Supported model providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

const (
	EnvAgentProvider            = "TRIAGE_AGENT_PROVIDER"
	EnvAgentBaseURL             = "TRIAGE_AGENT_BASE_URL"
	EnvAgentToken               = "TRIAGE_AGENT_TOKEN"
	EnvAgentModel               = "TRIAGE_AGENT_MODEL"
	EnvAgentEmbeddingModel      = "TRIAGE_AGENT_EMBEDDING_MODEL"
	EnvAgentTimeout             = "TRIAGE_AGENT_TIMEOUT"
	EnvAgentClassifyTemperature = "TRIAGE_AGENT_CLASSIFY_TEMPERATURE"
	EnvAgentDraftTemperature    = "TRIAGE_AGENT_DRAFT_TEMPERATURE"
	EnvAgentReviewTemperature   = "TRIAGE_AGENT_REVIEW_TEMPERATURE"
)

// TemperatureConfig holds per-stage sampling temperatures. Nil fields take
// the pipeline defaults, so an explicit 0 survives merging.
type TemperatureConfig struct {
	Classify *float64 `toml:"classify"`
	Draft    *float64 `toml:"draft"`
	Review   *float64 `toml:"review"`
}

// AgentConfig selects the text generation and embedding provider.
type AgentConfig struct {
	Provider       string            `toml:"provider"`
	BaseURL        string            `toml:"base_url"`
	Token          string            `toml:"token"`
	Model          string            `toml:"model"`
	EmbeddingModel string            `toml:"embedding_model"`
	Timeout        string            `toml:"timeout"`
	Temperature    TemperatureConfig `toml:"temperature"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *AgentConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Temperatures returns the finalized per-stage temperatures.
func (c *AgentConfig) Temperatures() workflow.Temperatures {
	return workflow.Temperatures{
		Classify: *c.Temperature.Classify,
		Draft:    *c.Temperature.Draft,
		Review:   *c.Temperature.Review,
	}
}

// Finalize applies environment variable overrides, then defaults, then
// validation. Model defaults depend on the provider, so the environment is
// read first.
func (c *AgentConfig) Finalize() error {
	c.loadEnv()
	c.loadDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AgentConfig) Merge(overlay *AgentConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.EmbeddingModel != "" {
		c.EmbeddingModel = overlay.EmbeddingModel
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Temperature.Classify != nil {
		c.Temperature.Classify = overlay.Temperature.Classify
	}
	if overlay.Temperature.Draft != nil {
		c.Temperature.Draft = overlay.Temperature.Draft
	}
	if overlay.Temperature.Review != nil {
		c.Temperature.Review = overlay.Temperature.Review
	}
}

func (c *AgentConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Model == "" {
		switch c.Provider {
		case ProviderOllama:
			c.Model = "llama3.1"
		default:
			c.Model = "gpt-4o-mini"
		}
	}
	if c.EmbeddingModel == "" {
		switch c.Provider {
		case ProviderOllama:
			c.EmbeddingModel = "nomic-embed-text"
		default:
			c.EmbeddingModel = "text-embedding-3-small"
		}
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}

	defaults := workflow.DefaultTemperatures()
	if c.Temperature.Classify == nil {
		c.Temperature.Classify = &defaults.Classify
	}
	if c.Temperature.Draft == nil {
		c.Temperature.Draft = &defaults.Draft
	}
	if c.Temperature.Review == nil {
		c.Temperature.Review = &defaults.Review
	}
}

func (c *AgentConfig) loadEnv() {
	if v := os.Getenv(EnvAgentProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvAgentToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvAgentModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvAgentEmbeddingModel); v != "" {
		c.EmbeddingModel = v
	}
	if v := os.Getenv(EnvAgentTimeout); v != "" {
		c.Timeout = v
	}

	setTemperature := func(envVar string, dst **float64) {
		if v := os.Getenv(envVar); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = &f
			}
		}
	}

	setTemperature(EnvAgentClassifyTemperature, &c.Temperature.Classify)
	setTemperature(EnvAgentDraftTemperature, &c.Temperature.Draft)
	setTemperature(EnvAgentReviewTemperature, &c.Temperature.Review)
}

func (c *AgentConfig) validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model required")
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout %q", c.Timeout)
	}

	t := c.Temperatures()
	for name, v := range map[string]float64{"classify": t.Classify, "draft": t.Draft, "review": t.Review} {
		if v < 0 || v > 2 {
			return fmt.Errorf("%s temperature must be in [0, 2]", name)
		}
	}
	if t.Draft <= 0 {
		return fmt.Errorf("draft temperature must be positive")
	}
	return nil
}
