package providers

import (
	"github.com/samber/do/v2"

	"github.com/diwanapp/diwan-server/internal/logger"
	"github.com/diwanapp/diwan-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve index. It is rebuilt on every corpus load.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{Logger: log.Logger})
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{Index: index}, nil
}
