package search

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/diwanapp/diwan-server/internal/domain"
)

// Index is an in-memory Bleve index over one corpus snapshot.
//
// Thread safety: all methods are safe for concurrent use. Build swaps in a freshly
// populated index under the write lock, so searches never see a half-built corpus.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	Logger *slog.Logger // Logger for operations (discards if nil)
}

const batchSize = 500

// NewIndex creates an empty in-memory index.
func NewIndex(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Index{index: index, logger: logger}, nil
}

// Build replaces the indexed corpus with poems.
func (s *Index) Build(poems []domain.Poem) error {
	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	if err := indexPoems(fresh, poems); err != nil {
		_ = fresh.Close()
		return err
	}

	s.mu.Lock()
	old := s.index
	s.index = fresh
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		s.logger.Warn("failed to close previous search index", "error", err)
	}

	s.logger.Info("search index built", "poems", len(poems))
	return nil
}

// indexPoems writes poems in batches.
func indexPoems(index bleve.Index, poems []domain.Poem) error {
	for i := 0; i < len(poems); i += batchSize {
		end := min(i+batchSize, len(poems))

		batch := index.NewBatch()
		for _, p := range poems[i:end] {
			doc := NewPoemDocument(p)
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index poem %s: %w", doc.ID, err)
			}
		}

		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// DocumentCount returns the number of indexed poems.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}
