package corpus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwanapp/diwan-server/internal/errors"
)

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("http://example.com/poems.txt"))
	assert.True(t, IsRemote("https://example.com/poems.txt"))
	assert.False(t, IsRemote("/var/lib/diwan/poems.txt"))
	assert.False(t, IsRemote("poems.txt"))
	assert.False(t, IsRemote(""))
}

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poems.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleCorpus), 0o600))

	l := NewLoader(LoaderOptions{Source: path})
	assert.False(t, l.Remote())
	assert.Equal(t, path, l.Source())

	text, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleCorpus, text)
}

func TestLoader_MissingFile(t *testing.T) {
	l := NewLoader(LoaderOptions{Source: filepath.Join(t.TempDir(), "nope.txt")})

	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLoadFailure))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_NoSource(t *testing.T) {
	_, err := NewLoader(LoaderOptions{}).Load(context.Background())
	assert.True(t, errors.Is(err, errors.ErrLoadFailure))
}

func TestLoader_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		_, _ = w.Write([]byte(sampleCorpus))
	}))
	defer srv.Close()

	l := NewLoader(LoaderOptions{Source: srv.URL, Timeout: time.Second})
	assert.True(t, l.Remote())

	text, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleCorpus, text)
}

func TestLoader_RemoteBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewLoader(LoaderOptions{Source: srv.URL}).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLoadFailure))
}

func TestLoader_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	l := NewLoader(LoaderOptions{Source: srv.URL})
	for range 5 {
		_, err := l.Load(context.Background())
		assert.True(t, errors.Is(err, errors.ErrLoadFailure))
	}

	assert.Equal(t, int32(3), hits.Load(), "open breaker should stop reaching the origin")
}

func TestLoader_RemoteRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(LoaderOptions{Source: srv.URL}).Load(ctx)
	assert.True(t, errors.Is(err, errors.ErrLoadFailure))
}
