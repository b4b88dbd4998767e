package api

import (
	"github.com/diwanapp/diwan-server/internal/metrics"
	"github.com/diwanapp/diwan-server/internal/ratelimit"
	"github.com/diwanapp/diwan-server/internal/service"
	"github.com/diwanapp/diwan-server/internal/sse"
	"github.com/diwanapp/diwan-server/internal/store"
)

// Services groups the business services used by the API server.
type Services struct {
	Poems     *service.PoemService
	Reviews   *service.ReviewService
	Favorites *service.FavoriteService
	Store     store.KV           // Optional; checked by /health
	Metrics   *metrics.Collector // Optional; enables /metrics and request metrics
	Limiter   *ratelimit.KeyedRateLimiter
	Events    *sse.Manager // Optional; enables /api/v1/events
}
