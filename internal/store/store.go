// Package store provides the key-value port the review and favorites services persist
// through, with Badger, SQLite (in package sqlite) and in-memory implementations.
//
// Each persisted collection is one JSON document under one key. Callers serialize
// their own read-modify-write cycles; a KV only guarantees single Get and Set calls.
package store

import (
	"context"
	"errors"
)

// Keys of the persisted documents.
const (
	KeyReviews   = "poetryReviews"
	KeyFavorites = "favorites"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store: closed")

// KV is a byte-oriented key-value store.
type KV interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases the store.
	Close() error
}
