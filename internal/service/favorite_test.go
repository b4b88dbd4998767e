package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwanapp/diwan-server/internal/errors"
	"github.com/diwanapp/diwan-server/internal/metrics"
	"github.com/diwanapp/diwan-server/internal/store"
	"github.com/diwanapp/diwan-server/internal/validation"
)

func setupFavoriteService(t *testing.T) (*FavoriteService, *fixedClock) {
	t.Helper()

	svc := NewFavoriteService(store.NewMemory(), validation.New(), metrics.NewCollector("test"), discardLogger())
	clock := &fixedClock{t: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	svc.now = clock.Now
	return svc, clock
}

func TestFavoriteService_AddAndList(t *testing.T) {
	svc, clock := setupFavoriteService(t)
	ctx := context.Background()

	fav, added, err := svc.Add(ctx, "first line\nsecond line", "Title")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, clock.t, fav.SavedAt)

	clock.Advance(time.Minute)
	_, added, err = svc.Add(ctx, "another verse", "Other")
	require.NoError(t, err)
	assert.True(t, added)

	favs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, "another verse", favs[0].VerseText, "newest first")
	assert.Equal(t, "first line\nsecond line", favs[1].VerseText)
}

func TestFavoriteService_AddDuplicate(t *testing.T) {
	svc, clock := setupFavoriteService(t)
	ctx := context.Background()

	original, _, err := svc.Add(ctx, "a verse", "Title")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	again, added, err := svc.Add(ctx, "  a verse ", "Different title")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, original, again)

	favs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestFavoriteService_AddEmpty(t *testing.T) {
	svc, _ := setupFavoriteService(t)

	_, _, err := svc.Add(context.Background(), "   ", "Title")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestFavoriteService_RemoveAndContains(t *testing.T) {
	svc, _ := setupFavoriteService(t)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, "a verse", "Title")
	require.NoError(t, err)

	ok, err := svc.Contains(ctx, "a verse")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Remove(ctx, "a verse"))

	ok, err = svc.Contains(ctx, "a verse")
	require.NoError(t, err)
	assert.False(t, ok)

	err = svc.Remove(ctx, "a verse")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestFavoriteService_EmptyList(t *testing.T) {
	svc, _ := setupFavoriteService(t)

	favs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, favs)
	assert.Empty(t, favs)
}
