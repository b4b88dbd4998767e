package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Document reads and writes one JSON value of type T under a fixed key.
type Document[T any] struct {
	kv  KV
	key string
}

// NewDocument binds a typed document to key.
func NewDocument[T any](kv KV, key string) *Document[T] {
	return &Document[T]{kv: kv, key: key}
}

// Key returns the key the document lives under.
func (d *Document[T]) Key() string {
	return d.key
}

// Load decodes the stored value. A missing key yields the zero value of T.
func (d *Document[T]) Load(ctx context.Context) (T, error) {
	var v T

	data, ok, err := d.kv.Get(ctx, d.key)
	if err != nil {
		return v, err
	}
	if !ok || len(data) == 0 {
		return v, nil
	}

	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", d.key, err)
	}
	return v, nil
}

// Save encodes v and replaces the stored value.
func (d *Document[T]) Save(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	return d.kv.Set(ctx, d.key, data)
}
