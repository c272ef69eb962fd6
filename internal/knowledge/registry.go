package knowledge

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
)

// Summary describes one indexed category.
type Summary struct {
	Category  string `json:"category"`
	Chunks    int    `json:"chunks"`
	Dimension int    `json:"dimension"`
	Model     string `json:"model"`
}

// Registry holds the category indexes built at startup. It is read-only
// after construction and safe for concurrent queries.
type Registry struct {
	embedder embeddings.Embedder
	indexes  map[string]*Index
}

// NewRegistry creates a Registry over indexes, keyed by category. A later
// index for the same category replaces an earlier one.
func NewRegistry(embedder embeddings.Embedder, indexes ...*Index) *Registry {
	m := make(map[string]*Index, len(indexes))
	for _, idx := range indexes {
		m[idx.Category()] = idx
	}
	return &Registry{embedder: embedder, indexes: m}
}

// Has reports whether category has an index.
func (r *Registry) Has(category string) bool {
	_, ok := r.indexes[category]
	return ok
}

// Categories returns summaries of all indexed categories sorted by name.
func (r *Registry) Categories() []Summary {
	out := make([]Summary, 0, len(r.indexes))
	for _, idx := range r.indexes {
		out = append(out, Summary{
			Category:  idx.Category(),
			Chunks:    idx.Len(),
			Dimension: idx.Dimension(),
			Model:     idx.Model(),
		})
	}
	slices.SortFunc(out, func(a, b Summary) int {
		return strings.Compare(a.Category, b.Category)
	})
	return out
}

// Search embeds text and returns up to k scored matches from category's index.
func (r *Registry) Search(ctx context.Context, category, text string, k int) ([]Match, error) {
	idx, ok := r.indexes[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, category)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}

	vector, err := r.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	return idx.Search(vector, k)
}

// Query returns the text of up to k passages nearest to text in category's
// index. An empty result is valid.
func (r *Registry) Query(ctx context.Context, category, text string, k int) ([]string, error) {
	matches, err := r.Search(ctx, category, text, k)
	if err != nil {
		return nil, err
	}

	passages := make([]string, len(matches))
	for i, m := range matches {
		passages[i] = m.Text
	}
	return passages, nil
}
