package corpus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/diwanapp/diwan-server/internal/errors"
)

// maxCorpusBytes caps how much text a single load will read.
const maxCorpusBytes = 32 << 20

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	Source     string        // File path or http(s) URL of the corpus text
	Timeout    time.Duration // Per-fetch timeout for remote sources (default 10s)
	HTTPClient *http.Client  // Optional; defaults to a client with Timeout
	Logger     *slog.Logger  // Optional; discards if nil
}

// Loader fetches raw corpus text from a file or a URL.
// Remote fetches go through a circuit breaker so a dead origin fails fast.
type Loader struct {
	source  string
	remote  bool
	timeout time.Duration
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewLoader creates a loader for opts.Source.
func NewLoader(opts LoaderOptions) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	l := &Loader{
		source:  opts.Source,
		remote:  IsRemote(opts.Source),
		timeout: timeout,
		client:  client,
		logger:  logger,
	}

	l.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "corpus-fetch",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return l
}

// IsRemote reports whether source names an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Source returns the configured corpus location.
func (l *Loader) Source() string {
	return l.source
}

// Remote reports whether the loader fetches over HTTP.
func (l *Loader) Remote() bool {
	return l.remote
}

// Load returns the raw corpus text. Any failure is an errors.ErrLoadFailure.
func (l *Loader) Load(ctx context.Context) (string, error) {
	if l.source == "" {
		return "", errors.LoadFailure(fmt.Errorf("no corpus source configured"), "<unset>")
	}

	var (
		text string
		err  error
	)
	if l.remote {
		text, err = l.fetch(ctx)
	} else {
		text, err = l.readFile()
	}
	if err != nil {
		return "", errors.LoadFailure(err, l.source)
	}
	return text, nil
}

// readFile reads a local corpus file.
func (l *Loader) readFile() (string, error) {
	f, err := os.Open(l.source) //#nosec G304 -- corpus path comes from configuration
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxCorpusBytes))
	if err != nil {
		return "", fmt.Errorf("read corpus file: %w", err)
	}
	return string(data), nil
}

// fetch downloads the corpus through the circuit breaker.
func (l *Loader) fetch(ctx context.Context) (string, error) {
	result, err := l.breaker.Execute(func() (any, error) {
		ctx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Cache-Control", "no-cache")

		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch corpus: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch corpus: unexpected status %d", resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxCorpusBytes))
		if err != nil {
			return nil, fmt.Errorf("read corpus body: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		l.logger.Warn("corpus fetch failed", "source", l.source, "error", err)
		return "", err
	}

	text, _ := result.(string)
	return text, nil
}
