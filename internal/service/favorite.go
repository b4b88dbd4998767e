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

// FavoriteInput is a verse to save.
type FavoriteInput struct {
	VerseText string `json:"verseText" validate:"required"`
	PoemTitle string `json:"poemTitle"`
}

// FavoriteService owns the saved-verse list. Favorites are keyed by verse text,
// never by poem ID, so they survive corpus reloads.
type FavoriteService struct {
	doc       *store.Document[domain.Favorites]
	validator *validation.Validator
	metrics   *metrics.Collector
	events    *sse.Manager
	logger    *slog.Logger
	now       func() time.Time

	mu sync.Mutex
}

// NewFavoriteService creates a favorites service persisting under store.KeyFavorites.
func NewFavoriteService(kv store.KV, v *validation.Validator, m *metrics.Collector, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		doc:       store.NewDocument[domain.Favorites](kv, store.KeyFavorites),
		validator: v,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// SetEvents makes the service announce favorite changes on m.
func (s *FavoriteService) SetEvents(m *sse.Manager) {
	s.events = m
}

// Add saves a verse. If the verse is already saved, the existing entry is returned
// with added=false.
func (s *FavoriteService) Add(ctx context.Context, verseText, poemTitle string) (fav domain.Favorite, added bool, err error) {
	input := FavoriteInput{
		VerseText: strings.TrimSpace(verseText),
		PoemTitle: strings.TrimSpace(poemTitle),
	}
	if err := s.validator.Validate(input); err != nil {
		s.metrics.RecordValidationFailure("favorite")
		return domain.Favorite{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.load(ctx)
	if err != nil {
		return domain.Favorite{}, false, err
	}

	if i := favs.Find(input.VerseText); i >= 0 {
		return favs[i], false, nil
	}

	fav = domain.Favorite{
		VerseText: input.VerseText,
		PoemTitle: input.PoemTitle,
		SavedAt:   s.now().UTC(),
	}
	favs, _ = favs.Add(fav)
	if err := s.save(ctx, favs); err != nil {
		return domain.Favorite{}, false, err
	}

	s.metrics.RecordFavoriteAdded()
	s.events.Emit(sse.NewFavoriteAddedEvent(fav))
	s.logger.Debug("favorite added", "poem", fav.PoemTitle)
	return fav, true, nil
}

// Remove deletes the favorite with the given verse text.
func (s *FavoriteService) Remove(ctx context.Context, verseText string) error {
	verseText = strings.TrimSpace(verseText)

	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.load(ctx)
	if err != nil {
		return err
	}

	favs, removed := favs.Remove(verseText)
	if !removed {
		return domainerrors.NotFound("verse is not in favorites")
	}
	if err := s.save(ctx, favs); err != nil {
		return err
	}

	s.events.Emit(sse.NewFavoriteRemovedEvent(verseText))
	return nil
}

// List returns the favorites, newest first.
func (s *FavoriteService) List(ctx context.Context) (domain.Favorites, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Contains reports whether the verse is saved.
func (s *FavoriteService) Contains(ctx context.Context, verseText string) (bool, error) {
	favs, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return favs.Find(strings.TrimSpace(verseText)) >= 0, nil
}

func (s *FavoriteService) load(ctx context.Context) (domain.Favorites, error) {
	favs, err := s.doc.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	if favs == nil {
		favs = domain.Favorites{}
	}
	return favs, nil
}

func (s *FavoriteService) save(ctx context.Context, favs domain.Favorites) error {
	if err := s.doc.Save(ctx, favs); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}
