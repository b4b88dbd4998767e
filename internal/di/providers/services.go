package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/diwanapp/diwan-server/internal/config"
	"github.com/diwanapp/diwan-server/internal/corpus"
	"github.com/diwanapp/diwan-server/internal/logger"
	"github.com/diwanapp/diwan-server/internal/metrics"
	"github.com/diwanapp/diwan-server/internal/ratelimit"
	"github.com/diwanapp/diwan-server/internal/service"
	"github.com/diwanapp/diwan-server/internal/validation"
)

// ProvidePoemService provides the poem service and performs the first corpus load.
// A failed load is logged, not fatal: the server starts with an empty corpus.
func ProvidePoemService(i do.Injector) (*service.PoemService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Collector](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	events := do.MustInvoke[*EventsHandle](i)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	loader := corpus.NewLoader(corpus.LoaderOptions{
		Source:  cfg.Corpus.Source,
		Timeout: cfg.Corpus.FetchTimeout,
		Logger:  log.Logger,
	})

	svc := service.NewPoemService(loader, indexHandle.Index, m, log.Logger, loc)
	svc.SetEvents(events.Manager)

	ctx, cancel := context.WithTimeout(context.Background(), initialLoadTimeout)
	defer cancel()
	if err := svc.Reload(ctx); err != nil {
		log.Warn("Starting with an empty corpus", "source", cfg.Corpus.Source, "error", err)
	}

	return svc, nil
}

// ProvideReviewService provides the review service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	m := do.MustInvoke[*metrics.Collector](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewReviewService(storeHandle.KV, v, m, log.Logger)
	svc.SetEvents(do.MustInvoke[*EventsHandle](i).Manager)
	return svc, nil
}

// ProvideFavoriteService provides the favorites service.
func ProvideFavoriteService(i do.Injector) (*service.FavoriteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	m := do.MustInvoke[*metrics.Collector](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewFavoriteService(storeHandle.KV, v, m, log.Logger)
	svc.SetEvents(do.MustInvoke[*EventsHandle](i).Manager)
	return svc, nil
}

// RateLimiterHandle wraps the write limiter so its cleanup goroutine stops on shutdown.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-client limiter for review writes.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := ratelimit.PerMinute(float64(cfg.RateLimit.ReviewsPerMinute), cfg.RateLimit.Burst)
	return &RateLimiterHandle{KeyedRateLimiter: limiter}, nil
}
