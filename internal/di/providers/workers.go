package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/diwanapp/diwan-server/internal/config"
	"github.com/diwanapp/diwan-server/internal/corpus"
	"github.com/diwanapp/diwan-server/internal/logger"
	"github.com/diwanapp/diwan-server/internal/service"
	"github.com/diwanapp/diwan-server/internal/watcher"
)

// CorpusWatcherHandle wraps the corpus file watcher with shutdown capability.
// Watcher is nil when watching is disabled or the corpus is remote.
type CorpusWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *CorpusWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	err := h.Watcher.Stop()
	<-h.done
	return err
}

// ProvideCorpusWatcher reloads the corpus whenever the local corpus file settles after a change.
func ProvideCorpusWatcher(i do.Injector) (*CorpusWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	poems := do.MustInvoke[*service.PoemService](i)

	if !cfg.Corpus.Watch || corpus.IsRemote(cfg.Corpus.Source) {
		log.Info("Corpus watcher disabled", "source", cfg.Corpus.Source)
		return &CorpusWatcherHandle{}, nil
	}

	w, err := watcher.New(cfg.Corpus.Source, log.Logger, watcher.Options{})
	if err != nil {
		log.Warn("Corpus watcher unavailable", "source", cfg.Corpus.Source, "error", err)
		return &CorpusWatcherHandle{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("Corpus watcher error", "error", err)
		}
	}()

	// Process events in background
	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-w.Events():
				if !ok {
					return
				}
				switch event.Type {
				case watcher.EventModified:
					log.Info("Corpus file changed, reloading", "path", event.Path, "size", event.Size)
					if err := poems.Reload(ctx); err != nil {
						log.Warn("Corpus reload failed, keeping previous corpus", "error", err)
					}
				case watcher.EventRemoved:
					log.Warn("Corpus file removed, keeping previous corpus", "path", event.Path)
				}
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				log.Warn("corpus watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Corpus watcher started", "path", w.Path())

	return &CorpusWatcherHandle{
		Watcher: w,
		cancel:  cancel,
		done:    done,
	}, nil
}
