package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	for range 1000 {
		id, err := Generate("sse")
		require.NoError(t, err)
		assert.False(t, ids[id], "duplicate id %s", id)
		ids[id] = true
	}
	assert.Len(t, ids, 1000)
}

func TestGenerate_Format(t *testing.T) {
	for _, prefix := range []string{"sse", "req", "x"} {
		t.Run(prefix, func(t *testing.T) {
			id, err := Generate(prefix)
			require.NoError(t, err)

			rest, ok := strings.CutPrefix(id, prefix+"-")
			require.True(t, ok, id)
			assert.Len(t, rest, 21)
		})
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.True(t, strings.HasPrefix(MustGenerate("sse"), "sse-"))
	})
}
