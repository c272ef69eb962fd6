package knowledge

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tmc/langchaingo/embeddings"
)

// CachedEmbedder memoizes query embeddings in an LRU cache. Document
// embeddings pass straight through since each build embeds a chunk once.
type CachedEmbedder struct {
	impl  embeddings.Embedder
	cache *lru.Cache[string, []float32]
}

var _ embeddings.Embedder = (*CachedEmbedder)(nil)

// NewCachedEmbedder wraps impl with a query cache holding up to size entries.
func NewCachedEmbedder(impl embeddings.Embedder, size int) (*CachedEmbedder, error) {
	if size <= 0 {
		return nil, fmt.Errorf("query cache size must be greater than zero, got %d", size)
	}

	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("init query cache: %w", err)
	}

	return &CachedEmbedder{impl: impl, cache: cache}, nil
}

// EmbedDocuments delegates to the wrapped embedder.
func (c *CachedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.impl.EmbedDocuments(ctx, texts)
}

// EmbedQuery returns the cached vector for text or embeds and caches it.
func (c *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		return v, nil
	}

	v, err := c.impl.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}

	c.cache.Add(text, v)
	return v, nil
}
