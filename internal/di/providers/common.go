package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// initialLoadTimeout bounds the corpus load done at startup.
	initialLoadTimeout = 30 * time.Second
)
