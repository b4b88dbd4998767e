package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/diwanapp/diwan-server/internal/domain"
	"github.com/diwanapp/diwan-server/internal/search"
	"github.com/diwanapp/diwan-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search poems",
		Description: "mode=filter keeps corpus order and matches substrings of title, category and verse lines; " +
			"mode=ranked orders by relevance with highlights and category facets",
		Tags: []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the corpus.
type SearchInput struct {
	Query    string `query:"q" maxLength:"200" doc:"Search text; blank returns every poem in filter mode"`
	Mode     string `query:"mode" enum:"filter,ranked" default:"filter" doc:"filter or ranked"`
	Category string `query:"category" maxLength:"200" doc:"Ranked mode: restrict to one category"`
	Limit    int    `query:"limit" minimum:"0" maximum:"100" doc:"Max results (0 = all in filter mode, 20 in ranked mode)"`
	Offset   int    `query:"offset" minimum:"0" doc:"Ranked mode: pagination offset"`
}

// SearchResponse carries either filter results (poems) or ranked results (hits).
type SearchResponse struct {
	Query      string              `json:"query" doc:"Original search query"`
	Mode       string              `json:"mode" doc:"Search mode used"`
	Total      int                 `json:"total" doc:"Total matches"`
	TookMs     int64               `json:"tookMs,omitempty" doc:"Ranked search duration in milliseconds"`
	Poems      []domain.Poem       `json:"poems,omitempty" doc:"Filter mode matches in corpus order"`
	Hits       []search.Hit        `json:"hits,omitempty" doc:"Ranked mode matches"`
	Categories []search.FacetCount `json:"categories,omitempty" doc:"Ranked mode category facets"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if input.Mode == service.SearchModeRanked {
		return s.rankedSearch(ctx, input)
	}

	poems := s.services.Poems.Search(input.Query)
	total := len(poems)
	if input.Limit > 0 && len(poems) > input.Limit {
		poems = poems[:input.Limit]
	}

	return &SearchOutput{Body: SearchResponse{
		Query: input.Query,
		Mode:  service.SearchModeFilter,
		Total: total,
		Poems: poems,
	}}, nil
}

func (s *Server) rankedSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultParams()
	params.Query = input.Query
	params.Category = input.Category
	params.Offset = input.Offset
	if input.Limit > 0 {
		params.Limit = input.Limit
	}

	s.logger.Debug("ranked search", "query", input.Query, "limit", params.Limit)

	result, err := s.services.Poems.RankedSearch(ctx, params)
	if err != nil {
		s.logger.Error("search failed", "error", err, "query", input.Query)
		return nil, err
	}

	return &SearchOutput{Body: SearchResponse{
		Query:      result.Query,
		Mode:       service.SearchModeRanked,
		Total:      int(result.Total), //nolint:gosec // bounded by corpus size
		TookMs:     result.TookMs,
		Hits:       result.Hits,
		Categories: result.Categories,
	}}, nil
}
