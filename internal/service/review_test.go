package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwanapp/diwan-server/internal/domain"
	"github.com/diwanapp/diwan-server/internal/errors"
	"github.com/diwanapp/diwan-server/internal/metrics"
	"github.com/diwanapp/diwan-server/internal/store"
	"github.com/diwanapp/diwan-server/internal/validation"
)

func setupReviewService(t *testing.T) (*ReviewService, *store.Memory, *fixedClock) {
	t.Helper()

	kv := store.NewMemory()
	svc := NewReviewService(kv, validation.New(), metrics.NewCollector("test"), discardLogger())
	clock := &fixedClock{t: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	svc.now = clock.Now
	return svc, kv, clock
}

func TestReviewService_Add(t *testing.T) {
	svc, _, clock := setupReviewService(t)
	ctx := context.Background()

	review, err := svc.Add(ctx, "  Layla  ", 4.5, "  A beautiful anthology  ")
	require.NoError(t, err)

	assert.Equal(t, clock.t.UnixMilli(), review.ID)
	assert.Equal(t, "Layla", review.Author)
	assert.Equal(t, 4.5, review.Rating)
	assert.Equal(t, "A beautiful anthology", review.Comment)
	assert.Equal(t, clock.t, review.CreatedAt)
	assert.Zero(t, review.HelpfulCount)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.ReviewsCreated))
}

func TestReviewService_AddPrepends(t *testing.T) {
	svc, _, clock := setupReviewService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, "A", 3, "first review text")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := svc.Add(ctx, "B", 5, "second review text")
	require.NoError(t, err)

	reviews, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, second.ID, reviews[0].ID)
	assert.Equal(t, first.ID, reviews[1].ID)
}

func TestReviewService_IDsIncreaseWithinSameMillisecond(t *testing.T) {
	svc, _, _ := setupReviewService(t)
	ctx := context.Background()

	a, err := svc.Add(ctx, "A", 3, "first review text")
	require.NoError(t, err)
	b, err := svc.Add(ctx, "B", 3, "second review text")
	require.NoError(t, err)

	assert.Equal(t, a.ID+1, b.ID)
}

func TestReviewService_IDsIncreaseWhenClockGoesBack(t *testing.T) {
	svc, _, clock := setupReviewService(t)
	ctx := context.Background()

	a, err := svc.Add(ctx, "A", 3, "first review text")
	require.NoError(t, err)
	clock.Advance(-time.Hour)
	b, err := svc.Add(ctx, "B", 3, "second review text")
	require.NoError(t, err)

	assert.Greater(t, b.ID, a.ID)
}

func TestReviewService_AddValidation(t *testing.T) {
	svc, kv, _ := setupReviewService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		author  string
		rating  float64
		comment string
		field   string
	}{
		{"missing author", "", 5, "a valid comment", "author"},
		{"blank author", "   ", 5, "a valid comment", "author"},
		{"rating out of range", "A", 6, "a valid comment", "rating"},
		{"rating missing", "A", 0, "a valid comment", "rating"},
		{"rating off half step", "A", 2.25, "a valid comment", "rating"},
		{"comment too short", "A", 4, "short", "comment"},
		{"comment short after trim", "A", 4, "   short    ", "comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tt.author, tt.rating, tt.comment)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation))

			var domainErr *errors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Contains(t, domainErr.Message, tt.field)
		})
	}

	_, ok, err := kv.Get(ctx, store.KeyReviews)
	require.NoError(t, err)
	assert.False(t, ok, "rejected reviews must not be written")
	assert.Equal(t, float64(len(tests)), testutil.ToFloat64(svc.metrics.ValidationFailures.WithLabelValues("review")))
}

func TestReviewService_MarkHelpful(t *testing.T) {
	svc, _, _ := setupReviewService(t)
	ctx := context.Background()

	review, err := svc.Add(ctx, "A", 4, "a valid comment")
	require.NoError(t, err)

	for want := 1; want <= 3; want++ {
		updated, err := svc.MarkHelpful(ctx, review.ID)
		require.NoError(t, err)
		assert.Equal(t, want, updated.HelpfulCount)
	}

	reviews, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, reviews[0].HelpfulCount)
}

func TestReviewService_MarkHelpfulUnknown(t *testing.T) {
	svc, _, _ := setupReviewService(t)

	_, err := svc.MarkHelpful(context.Background(), 12345)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestReviewService_Stats(t *testing.T) {
	svc, _, _ := setupReviewService(t)
	ctx := context.Background()

	empty, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.Average)

	_, err = svc.Add(ctx, "A", 5, "a valid comment")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "B", 4, "a valid comment")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 4.5, stats.Average, 1e-9)
	assert.Equal(t, 1, stats.Bucket(5))
	assert.Equal(t, 1, stats.Bucket(4))
}

func TestReviewService_Sorted(t *testing.T) {
	svc, _, clock := setupReviewService(t)
	ctx := context.Background()

	low, err := svc.Add(ctx, "A", 2, "a valid comment")
	require.NoError(t, err)
	clock.Advance(time.Second)
	high, err := svc.Add(ctx, "B", 5, "a valid comment")
	require.NoError(t, err)

	byRating, err := svc.Sorted(ctx, domain.SortLowest)
	require.NoError(t, err)
	assert.Equal(t, []int64{low.ID, high.ID}, []int64{byRating[0].ID, byRating[1].ID})

	oldest, err := svc.Sorted(ctx, domain.SortOldest)
	require.NoError(t, err)
	assert.Equal(t, low.ID, oldest[0].ID)
}

func TestReviewService_ClampsStoredRatings(t *testing.T) {
	svc, kv, _ := setupReviewService(t)
	ctx := context.Background()

	raw := `[{"id":2,"author":"x","rating":9,"comment":"c","createdAt":"2026-01-02T00:00:00Z","helpfulCount":-4},` +
		`{"id":1,"author":"y","rating":-1,"comment":"c","createdAt":"2026-01-01T00:00:00Z","helpfulCount":0}]`
	require.NoError(t, kv.Set(ctx, store.KeyReviews, []byte(raw)))

	reviews, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 5.0, reviews[0].Rating)
	assert.Equal(t, 0, reviews[0].HelpfulCount)
	assert.Equal(t, 1.0, reviews[1].Rating)
}

func TestReviewService_CorruptDocument(t *testing.T) {
	svc, kv, _ := setupReviewService(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, store.KeyReviews, []byte("not json")))

	_, err := svc.Add(ctx, "A", 4, "a valid comment")
	assert.Error(t, err)

	raw, _, err := kv.Get(ctx, store.KeyReviews)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(raw), "a corrupt document is never overwritten")
}

func TestReviewService_ConcurrentWritesAreSerialized(t *testing.T) {
	svc, _, _ := setupReviewService(t)
	ctx := context.Background()

	seed, err := svc.Add(ctx, "seed", 3, "a valid comment")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, "A", 4, "a valid comment")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.MarkHelpful(ctx, seed.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	reviews, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, reviews, 21)

	ids := make(map[int64]bool, len(reviews))
	for _, r := range reviews {
		assert.False(t, ids[r.ID], "duplicate id %d", r.ID)
		ids[r.ID] = true
		if r.ID == seed.ID {
			assert.Equal(t, 20, r.HelpfulCount)
		}
	}
}

func TestReviewService_PersistedShape(t *testing.T) {
	svc, kv, _ := setupReviewService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "A", 4, "a valid comment")
	require.NoError(t, err)

	raw, ok, err := kv.Get(ctx, store.KeyReviews)
	require.NoError(t, err)
	require.True(t, ok)
	for _, key := range []string{`"id"`, `"author"`, `"rating"`, `"comment"`, `"createdAt"`, `"helpfulCount"`} {
		assert.Contains(t, string(raw), key)
	}
}
