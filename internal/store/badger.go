package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
)

// Badger is a KV backed by a Badger database directory.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
	closed atomic.Bool
}

var _ KV = (*Badger)(nil)

// OpenBadger opens or creates a Badger database at path.
func OpenBadger(path string, logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return &Badger{db: db, logger: logger}, nil
}

// Get implements KV.
func (b *Badger) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := b.check(ctx); err != nil {
		return nil, false, err
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements KV.
func (b *Badger) Set(ctx context.Context, key string, value []byte) error {
	if err := b.check(ctx); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Close gracefully closes the database. Calling it twice is a no-op.
func (b *Badger) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	if b.logger != nil {
		b.logger.Info("Closing database connection")
	}
	return b.db.Close()
}

func (b *Badger) check(ctx context.Context) error {
	if b.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}
