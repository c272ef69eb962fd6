package knowledge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/tmc/langchaingo/embeddings"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/triage/pkg/formatting"
	"github.com/JaimeStill/triage/pkg/storage"
)

const snapshotContentType = "application/zstd"

// Builder constructs category indexes from raw passages and persists them.
type Builder struct {
	cfg      *Config
	embedder embeddings.Embedder
	model    string
	splitter *Splitter
	store    storage.System
	logger   *slog.Logger
}

// NewBuilder creates a Builder. model names the embedding model and is
// recorded in every snapshot so a model change forces a rebuild.
func NewBuilder(
	cfg *Config,
	embedder embeddings.Embedder,
	model string,
	store storage.System,
	logger *slog.Logger,
) *Builder {
	return &Builder{
		cfg:      cfg,
		embedder: embedder,
		model:    model,
		splitter: NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		store:    store,
		logger:   logger.With("system", "knowledge"),
	}
}

// Build extracts, splits, and embeds raw passages into an Index for category.
func (b *Builder) Build(ctx context.Context, category string, raw []any) (*Index, error) {
	passages := ExtractAll(raw)
	if len(passages) == 0 {
		return nil, fmt.Errorf("%w: category %s", ErrEmptyInput, category)
	}

	chunks, err := b.splitter.Split(category, passages)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: category %s", ErrSplitProducedNothing, category)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := b.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %s chunks: %w", category, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embed %s chunks: got %d vectors for %d chunks", category, len(vectors), len(chunks))
	}

	for i := range chunks {
		chunks[i].Vector = vectors[i]
	}

	idx, err := NewIndex(category, b.model, chunks)
	if err != nil {
		return nil, err
	}

	b.logger.InfoContext(ctx, "index built",
		"category", category,
		"passages", len(passages),
		"chunks", idx.Len(),
		"dimension", idx.Dimension(),
	)
	return idx, nil
}

// BuildFromSource loads the raw passages for category from the data
// directory and builds its Index.
func (b *Builder) BuildFromSource(ctx context.Context, category string) (*Index, error) {
	raw, err := LoadSource(b.cfg.DataDir, category)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, category, raw)
}

// Save persists idx to storage under its category key.
func (b *Builder) Save(ctx context.Context, idx *Index) error {
	data, err := Encode(idx)
	if err != nil {
		return err
	}

	key := b.cfg.IndexKey(idx.Category())
	if err := b.store.Upload(ctx, key, bytes.NewReader(data), snapshotContentType); err != nil {
		return fmt.Errorf("save index %s: %w", idx.Category(), err)
	}

	b.logger.InfoContext(ctx, "index saved",
		"category", idx.Category(),
		"key", key,
		"size", formatting.FormatBytes(int64(len(data)), 1),
	)
	return nil
}

// Load reconstructs the persisted Index for category. It returns
// ErrIndexNotFound when no snapshot exists and ErrStaleIndex when the
// snapshot was built with a different embedding model.
func (b *Builder) Load(ctx context.Context, category string) (*Index, error) {
	key := b.cfg.IndexKey(category)

	rc, err := b.store.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, category)
		}
		return nil, fmt.Errorf("load index %s: %w", category, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("load index %s: %w", category, err)
	}

	idx, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if idx.Category() != category {
		return nil, fmt.Errorf("load index %s: snapshot holds category %s", category, idx.Category())
	}
	if idx.Model() != b.model {
		return nil, fmt.Errorf("%w: %s built with %q, want %q", ErrStaleIndex, category, idx.Model(), b.model)
	}

	b.logger.InfoContext(ctx, "index loaded", "category", category, "chunks", idx.Len())
	return idx, nil
}

// LoadOrBuild loads the persisted Index for category, or builds it from
// source and saves it when no usable snapshot exists. With force set the
// snapshot is ignored and always rebuilt.
func (b *Builder) LoadOrBuild(ctx context.Context, category string, force bool) (*Index, error) {
	if !force {
		idx, err := b.Load(ctx, category)
		switch {
		case err == nil:
			return idx, nil
		case errors.Is(err, ErrIndexNotFound):
			b.logger.InfoContext(ctx, "no persisted index, building", "category", category)
		case errors.Is(err, ErrStaleIndex):
			b.logger.WarnContext(ctx, "persisted index is stale, rebuilding", "category", category, "error", err)
		default:
			return nil, err
		}
	}

	idx, err := b.BuildFromSource(ctx, category)
	if err != nil {
		return nil, err
	}

	if err := b.Save(ctx, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// BuildAll runs LoadOrBuild for every category concurrently and returns a
// Registry of the indexes that succeeded. Failed categories are left
// unindexed and reported in the joined error; the Registry is usable
// either way.
func (b *Builder) BuildAll(ctx context.Context, categories []string, force bool) (*Registry, error) {
	var (
		mu      sync.Mutex
		indexes = make([]*Index, 0, len(categories))
		errs    = make([]error, 0)
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, category := range categories {
		g.Go(func() error {
			idx, err := b.LoadOrBuild(gctx, category, force)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				b.logger.ErrorContext(gctx, "category left unindexed", "category", category, "error", err)
				errs = append(errs, fmt.Errorf("%s: %w", category, err))
				return nil
			}
			indexes = append(indexes, idx)
			return nil
		})
	}
	g.Wait()

	return NewRegistry(b.embedder, indexes...), errors.Join(errs...)
}
