package infrastructure

import (
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/JaimeStill/triage/internal/config"
	"github.com/JaimeStill/triage/internal/knowledge"
)

// NewModel creates the text generation model for the configured provider.
// No network traffic happens until the first call.
func NewModel(cfg *config.AgentConfig) (llms.Model, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return newOpenAI(cfg, cfg.Model)
	case config.ProviderOllama:
		return newOllama(cfg, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

// NewEmbedder creates the embedding client for the configured provider,
// wrapped in a query cache holding up to cacheSize vectors.
func NewEmbedder(cfg *config.AgentConfig, cacheSize int) (embeddings.Embedder, error) {
	var (
		client embeddings.EmbedderClient
		err    error
	)

	switch cfg.Provider {
	case config.ProviderOpenAI:
		client, err = newOpenAI(cfg, cfg.Model)
	case config.ProviderOllama:
		client, err = newOllama(cfg, cfg.EmbeddingModel)
	default:
		err = fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	return knowledge.NewCachedEmbedder(embedder, cacheSize)
}

func newOpenAI(cfg *config.AgentConfig, model string) (*openai.LLM, error) {
	opts := []openai.Option{
		openai.WithModel(model),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	}
	if cfg.Token != "" {
		opts = append(opts, openai.WithToken(cfg.Token))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return llm, nil
}

func newOllama(cfg *config.AgentConfig, model string) (*ollama.LLM, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return llm, nil
}
