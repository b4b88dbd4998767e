package providers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/diwanapp/diwan-server/internal/config"
	"github.com/diwanapp/diwan-server/internal/logger"
	"github.com/diwanapp/diwan-server/internal/store"
	"github.com/diwanapp/diwan-server/internal/store/sqlite"
)

// StoreHandle wraps the key-value store with shutdown capability.
type StoreHandle struct {
	store.KV
	Backend string
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured key-value backend.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var (
		kv   store.KV
		path string
		err  error
	)

	switch cfg.Data.Backend {
	case config.BackendMemory:
		kv = store.NewMemory()
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.Data.BasePath, 0o750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		path = filepath.Join(cfg.Data.BasePath, "diwan.db")
		kv, err = sqlite.Open(path, log.Logger)
	default:
		path = filepath.Join(cfg.Data.BasePath, "db")
		kv, err = store.OpenBadger(path, log.Logger)
	}
	if err != nil {
		return nil, err
	}

	log.Info("Storage initialized", "backend", cfg.Data.Backend, "path", path)

	return &StoreHandle{KV: kv, Backend: cfg.Data.Backend}, nil
}
