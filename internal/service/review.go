package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/diwanapp/diwan-server/internal/domain"
	domainerrors "github.com/diwanapp/diwan-server/internal/errors"
	"github.com/diwanapp/diwan-server/internal/metrics"
	"github.com/diwanapp/diwan-server/internal/sse"
	"github.com/diwanapp/diwan-server/internal/store"
	"github.com/diwanapp/diwan-server/internal/validation"
)

// ReviewInput is a review as submitted, after trimming.
type ReviewInput struct {
	Author  string  `json:"author" validate:"required"`
	Rating  float64 `json:"rating" validate:"required,gte=1,lte=5,halfstep"`
	Comment string  `json:"comment" validate:"required,min=10"`
}

// ReviewService owns the persisted review list.
// Every mutation is a whole-document read-modify-write under mu, so concurrent
// requests in this process never lose each other's writes.
type ReviewService struct {
	doc       *store.Document[[]domain.Review]
	validator *validation.Validator
	metrics   *metrics.Collector
	events    *sse.Manager
	logger    *slog.Logger
	now       func() time.Time

	mu sync.Mutex
}

// NewReviewService creates a review service persisting under store.KeyReviews.
func NewReviewService(kv store.KV, v *validation.Validator, m *metrics.Collector, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		doc:       store.NewDocument[[]domain.Review](kv, store.KeyReviews),
		validator: v,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// SetEvents makes the service announce new reviews and votes on m.
func (s *ReviewService) SetEvents(m *sse.Manager) {
	s.events = m
}

// Add validates and stores a new review at the head of the list.
// IDs are creation milliseconds, bumped past the newest stored ID when needed.
func (s *ReviewService) Add(ctx context.Context, author string, rating float64, comment string) (domain.Review, error) {
	input := ReviewInput{
		Author:  strings.TrimSpace(author),
		Rating:  rating,
		Comment: strings.TrimSpace(comment),
	}
	if err := s.validator.Validate(input); err != nil {
		s.metrics.RecordValidationFailure("review")
		return domain.Review{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reviews, err := s.load(ctx)
	if err != nil {
		return domain.Review{}, err
	}

	now := s.now()
	id := now.UnixMilli()
	for _, r := range reviews {
		if r.ID >= id {
			id = r.ID + 1
		}
	}

	review := domain.Review{
		ID:        id,
		Author:    input.Author,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: now.UTC(),
	}

	reviews = append([]domain.Review{review}, reviews...)
	if err := s.save(ctx, reviews); err != nil {
		return domain.Review{}, err
	}

	s.metrics.RecordReviewCreated()
	s.events.Emit(sse.NewReviewCreatedEvent(review))
	s.logger.Info("review added", "id", review.ID, "rating", review.Rating)
	return review, nil
}

// MarkHelpful adds one helpful vote to the review with the given id.
func (s *ReviewService) MarkHelpful(ctx context.Context, id int64) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reviews, err := s.load(ctx)
	if err != nil {
		return domain.Review{}, err
	}

	for i := range reviews {
		if reviews[i].ID != id {
			continue
		}
		reviews[i].HelpfulCount++
		if err := s.save(ctx, reviews); err != nil {
			return domain.Review{}, err
		}
		s.metrics.RecordHelpfulVote()
		s.events.Emit(sse.NewReviewHelpfulEvent(reviews[i]))
		return reviews[i], nil
	}

	return domain.Review{}, domainerrors.NotFoundf("review %d not found", id)
}

// List returns the reviews in storage order, newest first.
func (s *ReviewService) List(ctx context.Context) ([]domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Stats aggregates all stored reviews.
func (s *ReviewService) Stats(ctx context.Context) (domain.ReviewStats, error) {
	reviews, err := s.List(ctx)
	if err != nil {
		return domain.ReviewStats{}, err
	}
	return domain.AggregateReviews(reviews), nil
}

// Sorted returns the reviews ordered by mode.
func (s *ReviewService) Sorted(ctx context.Context, mode domain.SortMode) ([]domain.Review, error) {
	reviews, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SortReviews(reviews, mode), nil
}

// load reads and normalizes the stored list. Caller holds mu.
func (s *ReviewService) load(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.doc.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	for i := range reviews {
		reviews[i].Normalize()
	}
	return reviews, nil
}

// save writes the whole list back. Caller holds mu.
func (s *ReviewService) save(ctx context.Context, reviews []domain.Review) error {
	if err := s.doc.Save(ctx, reviews); err != nil {
		return fmt.Errorf("failed to save reviews: %w", err)
	}
	return nil
}
