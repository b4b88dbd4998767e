package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/diwanapp/diwan-server/internal/domain"
	domainerrors "github.com/diwanapp/diwan-server/internal/errors"
)

const dateLayout = "2006-01-02"

func (s *Server) registerPoemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPoems",
		Method:      http.MethodGet,
		Path:        "/api/v1/poems",
		Summary:     "List poems",
		Description: "Returns all poems in corpus order, optionally limited to one category",
		Tags:        []string{"Poems"},
	}, s.handleListPoems)

	huma.Register(s.api, huma.Operation{
		OperationID: "randomPoem",
		Method:      http.MethodGet,
		Path:        "/api/v1/poems/random",
		Summary:     "Random poem",
		Tags:        []string{"Poems"},
	}, s.handleRandomPoem)

	huma.Register(s.api, huma.Operation{
		OperationID: "recentPoems",
		Method:      http.MethodGet,
		Path:        "/api/v1/poems/recent",
		Summary:     "Recent poems",
		Description: "Returns the last poems of the corpus, newest first",
		Tags:        []string{"Poems"},
	}, s.handleRecentPoems)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPoemByTitle",
		Method:      http.MethodGet,
		Path:        "/api/v1/poems/by-title",
		Summary:     "Find poem by title",
		Description: "Returns the first poem with exactly this title",
		Tags:        []string{"Poems"},
	}, s.handleGetPoemByTitle)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPoem",
		Method:      http.MethodGet,
		Path:        "/api/v1/poems/{id}",
		Summary:     "Get poem",
		Description: "Ids are positions in the current corpus and change when it is reloaded",
		Tags:        []string{"Poems"},
	}, s.handleGetPoem)

	huma.Register(s.api, huma.Operation{
		OperationID: "verseOfDay",
		Method:      http.MethodGet,
		Path:        "/api/v1/verse-of-day",
		Summary:     "Verse of the day",
		Description: "The same calendar day always yields the same verse for an unchanged corpus",
		Tags:        []string{"Poems"},
	}, s.handleVerseOfDay)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Categories in order of first appearance with poem counts",
		Tags:        []string{"Poems"},
	}, s.handleListCategories)
}

// === DTOs ===

// ListPoemsInput filters the poem list.
type ListPoemsInput struct {
	Category string `query:"category" maxLength:"200" doc:"Only poems in this category"`
}

// PoemListResponse contains a list of poems.
type PoemListResponse struct {
	Total int           `json:"total" doc:"Number of poems returned"`
	Poems []domain.Poem `json:"poems" doc:"Poems in corpus order"`
}

// PoemListOutput wraps a poem list for Huma.
type PoemListOutput struct {
	Body PoemListResponse
}

// PoemOutput wraps a single poem for Huma.
type PoemOutput struct {
	Body domain.Poem
}

// GetPoemInput identifies a poem by id.
type GetPoemInput struct {
	ID int `path:"id" minimum:"0" doc:"Poem id"`
}

// PoemByTitleInput identifies a poem by title.
type PoemByTitleInput struct {
	Title string `query:"title" required:"true" minLength:"1" maxLength:"500" doc:"Exact poem title"`
}

// RecentPoemsInput bounds the recent list.
type RecentPoemsInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"5" doc:"Number of poems"`
}

// VerseOfDayInput selects the day.
type VerseOfDayInput struct {
	Date string `query:"date" doc:"Calendar day as YYYY-MM-DD; defaults to today"`
}

// VerseOfDayOutput wraps the verse of the day for Huma.
type VerseOfDayOutput struct {
	Body domain.VerseOfDay
}

// CategoriesOutput wraps the category list for Huma.
type CategoriesOutput struct {
	Body struct {
		Categories []domain.CategorySummary `json:"categories" doc:"Categories with poem counts"`
	}
}

// === Handlers ===

func (s *Server) handleListPoems(_ context.Context, input *ListPoemsInput) (*PoemListOutput, error) {
	poems := s.services.Poems.List(input.Category)
	return &PoemListOutput{Body: PoemListResponse{Total: len(poems), Poems: poems}}, nil
}

func (s *Server) handleGetPoem(_ context.Context, input *GetPoemInput) (*PoemOutput, error) {
	poem, err := s.services.Poems.Get(input.ID)
	if err != nil {
		return nil, err
	}
	return &PoemOutput{Body: poem}, nil
}

func (s *Server) handleGetPoemByTitle(_ context.Context, input *PoemByTitleInput) (*PoemOutput, error) {
	poem, err := s.services.Poems.FindByTitle(input.Title)
	if err != nil {
		return nil, err
	}
	return &PoemOutput{Body: poem}, nil
}

func (s *Server) handleRandomPoem(_ context.Context, _ *struct{}) (*PoemOutput, error) {
	poem, err := s.services.Poems.Random()
	if err != nil {
		return nil, err
	}
	return &PoemOutput{Body: poem}, nil
}

func (s *Server) handleRecentPoems(_ context.Context, input *RecentPoemsInput) (*PoemListOutput, error) {
	poems := s.services.Poems.Recent(input.Limit)
	return &PoemListOutput{Body: PoemListResponse{Total: len(poems), Poems: poems}}, nil
}

func (s *Server) handleVerseOfDay(_ context.Context, input *VerseOfDayInput) (*VerseOfDayOutput, error) {
	var date time.Time
	if input.Date != "" {
		parsed, err := time.ParseInLocation(dateLayout, input.Date, s.services.Poems.Location())
		if err != nil {
			return nil, domainerrors.ValidationWithDetails("date must be formatted as YYYY-MM-DD",
				map[string]string{"date": input.Date})
		}
		date = parsed
	}

	vod, err := s.services.Poems.VerseOfDay(date)
	if err != nil {
		return nil, err
	}
	return &VerseOfDayOutput{Body: vod}, nil
}

func (s *Server) handleListCategories(_ context.Context, _ *struct{}) (*CategoriesOutput, error) {
	out := &CategoriesOutput{}
	out.Body.Categories = s.services.Poems.Categories()
	return out, nil
}
