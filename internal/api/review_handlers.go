package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/diwanapp/diwan-server/internal/domain"
	domainerrors "github.com/diwanapp/diwan-server/internal/errors"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews",
		Summary:     "List reviews",
		Description: "sort is one of recent, helpful, highest, lowest",
		Tags:        []string{"Reviews"},
	}, s.handleListReviews)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createReview",
		Method:        http.MethodPost,
		Path:          "/api/v1/reviews",
		Summary:       "Submit a review",
		Description:   "Rating 1 to 5 in steps of 0.5; comment of at least 10 characters",
		Tags:          []string{"Reviews"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "reviewStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews/stats",
		Summary:     "Review statistics",
		Description: "Count, average rating and a histogram of rounded ratings",
		Tags:        []string{"Reviews"},
	}, s.handleReviewStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "markReviewHelpful",
		Method:      http.MethodPost,
		Path:        "/api/v1/reviews/{id}/helpful",
		Summary:     "Mark review helpful",
		Tags:        []string{"Reviews"},
	}, s.handleMarkHelpful)
}

// === DTOs ===

// ListReviewsInput selects the ordering.
type ListReviewsInput struct {
	Sort string `query:"sort" doc:"recent (default), helpful, highest or lowest"`
}

// ReviewListOutput wraps reviews for Huma.
type ReviewListOutput struct {
	Body struct {
		Sort    domain.SortMode `json:"sort" doc:"Ordering applied"`
		Reviews []domain.Review `json:"reviews" doc:"Reviews"`
	}
}

// CreateReviewRequest is the review submission body. Fields are checked by the review
// service so that every rule is reported the same way.
type CreateReviewRequest struct {
	Author  string  `json:"author,omitempty" doc:"Display name"`
	Rating  float64 `json:"rating,omitempty" doc:"1 to 5 in steps of 0.5"`
	Comment string  `json:"comment,omitempty" doc:"At least 10 characters"`
}

// CreateReviewInput wraps the submission body.
type CreateReviewInput struct {
	Body CreateReviewRequest
}

// ReviewOutput wraps a single review for Huma.
type ReviewOutput struct {
	Body domain.Review
}

// MarkHelpfulInput identifies the review.
type MarkHelpfulInput struct {
	ID int64 `path:"id" doc:"Review id"`
}

// ReviewStatsOutput wraps review statistics for Huma.
type ReviewStatsOutput struct {
	Body domain.ReviewStats
}

// === Handlers ===

func (s *Server) handleListReviews(ctx context.Context, input *ListReviewsInput) (*ReviewListOutput, error) {
	mode, ok := domain.ParseSortMode(input.Sort)
	if !ok {
		return nil, domainerrors.ValidationWithDetails("unknown sort mode",
			map[string]string{"sort": input.Sort})
	}

	reviews, err := s.services.Reviews.Sorted(ctx, mode)
	if err != nil {
		return nil, err
	}

	out := &ReviewListOutput{}
	out.Body.Sort = mode
	out.Body.Reviews = reviews
	return out, nil
}

func (s *Server) handleCreateReview(ctx context.Context, input *CreateReviewInput) (*ReviewOutput, error) {
	if err := s.allow(ctx); err != nil {
		return nil, err
	}

	review, err := s.services.Reviews.Add(ctx, input.Body.Author, input.Body.Rating, input.Body.Comment)
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleMarkHelpful(ctx context.Context, input *MarkHelpfulInput) (*ReviewOutput, error) {
	if err := s.allow(ctx); err != nil {
		return nil, err
	}

	review, err := s.services.Reviews.MarkHelpful(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleReviewStats(ctx context.Context, _ *struct{}) (*ReviewStatsOutput, error) {
	stats, err := s.services.Reviews.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &ReviewStatsOutput{Body: stats}, nil
}
