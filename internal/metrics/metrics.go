// Package metrics exposes Prometheus metrics for the corpus, search, reviews and HTTP layer.
//
// Every Collector owns its registry, so tests and multiple servers in one process never
// collide on registration. Methods are safe on a nil *Collector.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Load results.
const (
	LoadOK     = "ok"
	LoadFailed = "failed"
)

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Corpus metrics
	CorpusPoems  prometheus.Gauge
	CorpusVerses prometheus.Gauge
	CorpusLoads  *prometheus.CounterVec

	// Business metrics
	Searches           *prometheus.CounterVec
	ReviewsCreated     prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	HelpfulVotes       prometheus.Counter
	FavoritesAdded     prometheus.Counter
}

// NewCollector creates a collector registered on a fresh registry under namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		CorpusPoems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_poems",
			Help:      "Number of poems in the loaded corpus",
		}),
		CorpusVerses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_verses",
			Help:      "Number of verses in the loaded corpus",
		}),
		CorpusLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "corpus_loads_total",
				Help:      "Total number of corpus loads by result",
			},
			[]string{"result"},
		),
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of searches by mode",
			},
			[]string{"mode"},
		),
		ReviewsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_created_total",
			Help:      "Total number of reviews created",
		}),
		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Total number of rejected inputs by kind",
			},
			[]string{"kind"},
		),
		HelpfulVotes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "helpful_votes_total",
			Help:      "Total number of helpful votes",
		}),
		FavoritesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorites_added_total",
			Help:      "Total number of verses saved as favorites",
		}),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.CorpusPoems,
		c.CorpusVerses,
		c.CorpusLoads,
		c.Searches,
		c.ReviewsCreated,
		c.ValidationFailures,
		c.HelpfulVotes,
		c.FavoritesAdded,
	)

	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordCorpusLoad records a load attempt and, on success, the corpus size.
func (c *Collector) RecordCorpusLoad(poems, verses int, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.CorpusLoads.WithLabelValues(LoadFailed).Inc()
		return
	}
	c.CorpusLoads.WithLabelValues(LoadOK).Inc()
	c.CorpusPoems.Set(float64(poems))
	c.CorpusVerses.Set(float64(verses))
}

// RecordSearch counts a search in the given mode.
func (c *Collector) RecordSearch(mode string) {
	if c == nil {
		return
	}
	c.Searches.WithLabelValues(mode).Inc()
}

// RecordReviewCreated counts a stored review.
func (c *Collector) RecordReviewCreated() {
	if c == nil {
		return
	}
	c.ReviewsCreated.Inc()
}

// RecordValidationFailure counts a rejected input of the given kind.
func (c *Collector) RecordValidationFailure(kind string) {
	if c == nil {
		return
	}
	c.ValidationFailures.WithLabelValues(kind).Inc()
}

// RecordHelpfulVote counts a helpful vote.
func (c *Collector) RecordHelpfulVote() {
	if c == nil {
		return
	}
	c.HelpfulVotes.Inc()
}

// RecordFavoriteAdded counts a newly saved favorite.
func (c *Collector) RecordFavoriteAdded() {
	if c == nil {
		return
	}
	c.FavoritesAdded.Inc()
}
