package knowledge

import (
	"context"
	"sync/atomic"
)

// Catalog publishes the Registry built at startup to request handlers and
// the pipeline. Until a Registry is set every lookup fails with
// ErrNotLoaded, which the retriever turns into its placeholder passage.
type Catalog struct {
	registry atomic.Pointer[Registry]
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Set publishes r. It is called once when startup indexing completes.
func (c *Catalog) Set(r *Registry) {
	c.registry.Store(r)
}

// Registry returns the published Registry, or nil before Set.
func (c *Catalog) Registry() *Registry {
	return c.registry.Load()
}

// Ready reports whether a Registry has been published.
func (c *Catalog) Ready() bool {
	return c.registry.Load() != nil
}

// Categories returns summaries of the indexed categories, empty before Set.
func (c *Catalog) Categories() []Summary {
	r := c.registry.Load()
	if r == nil {
		return []Summary{}
	}
	return r.Categories()
}

// Search delegates to the published Registry.
func (c *Catalog) Search(ctx context.Context, category, text string, k int) ([]Match, error) {
	r := c.registry.Load()
	if r == nil {
		return nil, ErrNotLoaded
	}
	return r.Search(ctx, category, text, k)
}

// Query delegates to the published Registry.
func (c *Catalog) Query(ctx context.Context, category, text string, k int) ([]string, error) {
	r := c.registry.Load()
	if r == nil {
		return nil, ErrNotLoaded
	}
	return r.Query(ctx, category, text, k)
}
