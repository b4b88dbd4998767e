package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	domainerrors "github.com/diwanapp/diwan-server/internal/errors"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyClientIP contextKey = "client_ip"

// clientIPMiddleware records the caller's address for rate limiting.
// middleware.RealIP has already applied X-Forwarded-For / X-Real-IP.
func clientIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), contextKeyClientIP, clientIP(r.RemoteAddr))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP strips the port from a remote address.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return strings.TrimSpace(remoteAddr)
}

// getClientIP extracts the client address from request context.
func getClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(contextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// requestLogger logs each request and feeds HTTP metrics, labeled by route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		if route != "/metrics" {
			s.services.Metrics.RecordHTTPRequest(r.Method, route, status, elapsed)
		}

		level := s.logger.Debug
		if status >= http.StatusInternalServerError {
			level = s.logger.Warn
		}
		level("http request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// allow applies the per-client write limiter.
func (s *Server) allow(ctx context.Context) error {
	if s.services.Limiter == nil {
		return nil
	}
	ip := getClientIP(ctx)
	if s.services.Limiter.Allow(ip) {
		return nil
	}
	s.logger.Warn("rate limit exceeded", "ip", ip)
	return domainerrors.RateLimited("too many requests, please try again later")
}
