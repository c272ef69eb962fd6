// Package knowledge builds, persists, and queries per-category semantic
// indexes over support knowledge-base passages.
package knowledge

import (
	"fmt"
	"math"
	"sort"
)

// Chunk is one embedded window of a source passage.
type Chunk struct {
	ID       string            `cbor:"1,keyasint" json:"id"`
	Text     string            `cbor:"2,keyasint" json:"text"`
	Metadata map[string]string `cbor:"3,keyasint" json:"metadata"`
	Vector   []float32         `cbor:"4,keyasint" json:"-"`
}

// Match is a chunk returned by a similarity search.
type Match struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Index is an immutable nearest-neighbour index over one category's chunks.
// It is safe for concurrent use.
type Index struct {
	category  string
	model     string
	dimension int
	chunks    []Chunk
	norms     []float64
}

// NewIndex creates an Index from embedded chunks. Every chunk must carry a
// vector of the same non-zero dimension.
func NewIndex(category, model string, chunks []Chunk) (*Index, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSplitProducedNothing, category)
	}

	dim := len(chunks[0].Vector)
	if dim == 0 {
		return nil, fmt.Errorf("%w: chunk %s has no vector", ErrDimensionMismatch, chunks[0].ID)
	}

	norms := make([]float64, len(chunks))
	for i, c := range chunks {
		if len(c.Vector) != dim {
			return nil, fmt.Errorf(
				"%w: chunk %s has %d dimensions, want %d",
				ErrDimensionMismatch, c.ID, len(c.Vector), dim,
			)
		}
		norms[i] = norm(c.Vector)
	}

	return &Index{
		category:  category,
		model:     model,
		dimension: dim,
		chunks:    chunks,
		norms:     norms,
	}, nil
}

// Category returns the category the index was built for.
func (i *Index) Category() string { return i.category }

// Model returns the embedding model the index was built with.
func (i *Index) Model() string { return i.model }

// Dimension returns the vector dimension.
func (i *Index) Dimension() int { return i.dimension }

// Len returns the number of chunks.
func (i *Index) Len() int { return len(i.chunks) }

// Search returns up to k chunks ordered by descending cosine similarity to
// vector. Ties are broken by chunk ID.
func (i *Index) Search(vector []float32, k int) ([]Match, error) {
	if len(vector) != i.dimension {
		return nil, fmt.Errorf(
			"%w: query has %d dimensions, index %s has %d",
			ErrDimensionMismatch, len(vector), i.category, i.dimension,
		)
	}
	if k <= 0 {
		return []Match{}, nil
	}

	qnorm := norm(vector)
	matches := make([]Match, len(i.chunks))
	for idx, c := range i.chunks {
		matches[idx] = Match{
			ID:    c.ID,
			Text:  c.Text,
			Score: cosine(c.Vector, vector, i.norms[idx], qnorm),
		}
	}

	sort.Slice(matches, func(a, b int) bool {
		if matches[a].Score == matches[b].Score {
			return matches[a].ID < matches[b].ID
		}
		return matches[a].Score > matches[b].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a, b []float32, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (na * nb)
}
