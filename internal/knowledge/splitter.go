package knowledge

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
	"github.com/zeebo/blake3"
)

// Splitter cuts passages into overlapping character windows.
type Splitter struct {
	impl textsplitter.RecursiveCharacter
}

// NewSplitter creates a Splitter with the given chunk size and overlap, in characters.
func NewSplitter(size, overlap int) *Splitter {
	return &Splitter{
		impl: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		),
	}
}

// Split returns the chunks for passages, tagged with category. Chunk IDs are
// content-derived and stable across rebuilds of the same source.
func (s *Splitter) Split(category string, passages []string) ([]Chunk, error) {
	chunks := make([]Chunk, 0, len(passages))

	for p, passage := range passages {
		parts, err := s.impl.SplitText(passage)
		if err != nil {
			return nil, fmt.Errorf("split passage %d: %w", p, err)
		}

		for i, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			chunks = append(chunks, Chunk{
				ID:       chunkID(category, p, i, part),
				Text:     part,
				Metadata: map[string]string{"category": category},
			})
		}
	}

	return chunks, nil
}

func chunkID(category string, passage, ordinal int, text string) string {
	h := blake3.New()
	h.WriteString(category)
	h.WriteString("\x00")
	h.WriteString(strconv.Itoa(passage))
	h.WriteString("\x00")
	h.WriteString(strconv.Itoa(ordinal))
	h.WriteString("\x00")
	h.WriteString(text)
	return hex.EncodeToString(h.Sum(nil)[:16])
}
