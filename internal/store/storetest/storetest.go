// Package storetest holds the behavior every store.KV implementation must share.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwanapp/diwan-server/internal/store"
)

// Run exercises a KV produced by open. Each subtest gets a fresh store.
func Run(t *testing.T, open func(t *testing.T) store.KV) {
	t.Helper()

	t.Run("MissingKey", func(t *testing.T) {
		kv := open(t)

		value, ok, err := kv.Get(context.Background(), "absent")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, value)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		kv := open(t)
		ctx := context.Background()

		require.NoError(t, kv.Set(ctx, store.KeyReviews, []byte(`[{"id":1}]`)))

		value, ok, err := kv.Get(ctx, store.KeyReviews)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"id":1}]`, string(value))
	})

	t.Run("Overwrite", func(t *testing.T) {
		kv := open(t)
		ctx := context.Background()

		require.NoError(t, kv.Set(ctx, "k", []byte("one")))
		require.NoError(t, kv.Set(ctx, "k", []byte("two")))

		value, ok, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "two", string(value))
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		kv := open(t)
		ctx := context.Background()

		require.NoError(t, kv.Set(ctx, store.KeyReviews, []byte("r")))
		require.NoError(t, kv.Set(ctx, store.KeyFavorites, []byte("f")))

		r, _, err := kv.Get(ctx, store.KeyReviews)
		require.NoError(t, err)
		f, _, err := kv.Get(ctx, store.KeyFavorites)
		require.NoError(t, err)
		assert.Equal(t, "r", string(r))
		assert.Equal(t, "f", string(f))
	})

	t.Run("ValueIsCopied", func(t *testing.T) {
		kv := open(t)
		ctx := context.Background()

		in := []byte("abc")
		require.NoError(t, kv.Set(ctx, "k", in))
		in[0] = 'x'

		out, _, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(out))

		out[1] = 'y'
		again, _, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(again))
	})

	t.Run("ConcurrentSets", func(t *testing.T) {
		kv := open(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				key := fmt.Sprintf("key-%d", i)
				assert.NoError(t, kv.Set(ctx, key, []byte(key)))
			}()
		}
		wg.Wait()

		for i := range 16 {
			key := fmt.Sprintf("key-%d", i)
			value, ok, err := kv.Get(ctx, key)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, key, string(value))
		}
	})

	t.Run("Closed", func(t *testing.T) {
		kv := open(t)
		require.NoError(t, kv.Close())
		require.NoError(t, kv.Close())

		_, _, err := kv.Get(context.Background(), "k")
		assert.ErrorIs(t, err, store.ErrClosed)
		assert.ErrorIs(t, kv.Set(context.Background(), "k", nil), store.ErrClosed)
	})
}
