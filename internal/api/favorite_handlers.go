package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/diwanapp/diwan-server/internal/domain"
)

func (s *Server) registerFavoriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFavorites",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites",
		Summary:     "List favorites",
		Tags:        []string{"Favorites"},
	}, s.handleListFavorites)

	huma.Register(s.api, huma.Operation{
		OperationID: "addFavorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/favorites",
		Summary:     "Save a verse",
		Description: "Returns 201 when saved, 200 when the verse was already a favorite",
		Tags:        []string{"Favorites"},
	}, s.handleAddFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeFavorite",
		Method:        http.MethodDelete,
		Path:          "/api/v1/favorites",
		Summary:       "Remove a saved verse",
		Tags:          []string{"Favorites"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveFavorite)
}

// === DTOs ===

// FavoriteListOutput wraps favorites for Huma.
type FavoriteListOutput struct {
	Body struct {
		Favorites []domain.Favorite `json:"favorites" doc:"Saved verses, newest first"`
	}
}

// AddFavoriteRequest is the body for saving a verse.
type AddFavoriteRequest struct {
	VerseText string `json:"verseText,omitempty" doc:"Verse text; the favorite's identity"`
	PoemTitle string `json:"poemTitle,omitempty" doc:"Title of the poem the verse came from"`
}

// AddFavoriteInput wraps the body.
type AddFavoriteInput struct {
	Body AddFavoriteRequest
}

// FavoriteOutput wraps a favorite with a dynamic status.
type FavoriteOutput struct {
	Status int
	Body   domain.Favorite
}

// RemoveFavoriteInput identifies the verse to remove.
type RemoveFavoriteInput struct {
	VerseText string `query:"verseText" required:"true" minLength:"1" doc:"Verse text of the favorite"`
}

// === Handlers ===

func (s *Server) handleListFavorites(ctx context.Context, _ *struct{}) (*FavoriteListOutput, error) {
	favs, err := s.services.Favorites.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &FavoriteListOutput{}
	out.Body.Favorites = favs
	return out, nil
}

func (s *Server) handleAddFavorite(ctx context.Context, input *AddFavoriteInput) (*FavoriteOutput, error) {
	fav, added, err := s.services.Favorites.Add(ctx, input.Body.VerseText, input.Body.PoemTitle)
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	return &FavoriteOutput{Status: status, Body: fav}, nil
}

func (s *Server) handleRemoveFavorite(ctx context.Context, input *RemoveFavoriteInput) (*struct{}, error) {
	if err := s.services.Favorites.Remove(ctx, input.VerseText); err != nil {
		return nil, err
	}
	return nil, nil
}
