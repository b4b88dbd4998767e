package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/diwanapp/diwan-server/internal/store"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"corpus":  s.checkCorpus(),
		"storage": s.checkStorage(ctx),
	}

	overall := "healthy"
	for _, c := range components {
		switch c.Status {
		case "unhealthy":
			overall = "unhealthy"
		case "degraded":
			if overall == "healthy" {
				overall = "degraded"
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkCorpus reports an empty corpus as degraded; the site still serves reviews.
func (s *Server) checkCorpus() ComponentHealth {
	summary := s.services.Poems.Summary()
	switch {
	case summary.Poems > 0:
		return ComponentHealth{Status: "healthy"}
	case summary.LastError != "":
		return ComponentHealth{Status: "degraded", Message: "corpus load failed: " + summary.LastError}
	default:
		return ComponentHealth{Status: "degraded", Message: "corpus is empty"}
	}
}

// checkStorage verifies the review store answers a read.
func (s *Server) checkStorage(ctx context.Context) ComponentHealth {
	if s.services.Store == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "storage not configured",
		}
	}

	start := time.Now()
	_, _, err := s.services.Store.Get(ctx, store.KeyReviews)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "storage read failed",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}
