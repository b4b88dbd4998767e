package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/diwanapp/diwan-server/internal/corpus"
	"github.com/diwanapp/diwan-server/internal/domain"
	domainerrors "github.com/diwanapp/diwan-server/internal/errors"
	"github.com/diwanapp/diwan-server/internal/metrics"
	"github.com/diwanapp/diwan-server/internal/search"
	"github.com/diwanapp/diwan-server/internal/selection"
	"github.com/diwanapp/diwan-server/internal/sse"
)

// Search modes.
const (
	SearchModeFilter = "filter"
	SearchModeRanked = "ranked"
)

// CorpusSummary describes the loaded corpus.
type CorpusSummary struct {
	Source        string    `json:"source"`
	Remote        bool      `json:"remote"`
	Poems         int       `json:"poems"`
	Verses        int       `json:"verses"`
	Categories    int       `json:"categories"`
	SkippedBlocks int       `json:"skippedBlocks"`
	LoadedAt      time.Time `json:"loadedAt,omitzero"`
	LastError     string    `json:"lastError,omitempty"`
}

// PoemService serves reads over the current corpus snapshot and reloads it.
// A reload builds a new index and swaps it in; readers never see a partial corpus.
type PoemService struct {
	loader   *corpus.Loader
	ranked   *search.Index
	metrics  *metrics.Collector
	events   *sse.Manager
	logger   *slog.Logger
	location *time.Location

	rngMu sync.Mutex
	rng   *rand.Rand

	mu       sync.RWMutex
	index    *corpus.Index
	report   corpus.Report
	loadedAt time.Time
	lastErr  error
}

// NewPoemService creates a poem service with an empty corpus. Call Reload to load it.
// Verse-of-the-day days are counted in loc (time.Local if nil).
func NewPoemService(loader *corpus.Loader, ranked *search.Index, m *metrics.Collector, logger *slog.Logger, loc *time.Location) *PoemService {
	if loc == nil {
		loc = time.Local
	}
	return &PoemService{
		loader:   loader,
		ranked:   ranked,
		metrics:  m,
		logger:   logger,
		location: loc,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		index:    corpus.Empty(),
	}
}

// SetRand replaces the random source used by Random.
func (s *PoemService) SetRand(rng *rand.Rand) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng = rng
}

// SetEvents makes the service announce reloads and load failures on m.
func (s *PoemService) SetEvents(m *sse.Manager) {
	s.events = m
}

// Location returns the zone calendar days are counted in.
func (s *PoemService) Location() *time.Location {
	return s.location
}

// Reload fetches, parses and installs the corpus. On failure the current corpus
// stays in place (empty on first load) and the error is kept for LastLoadError.
func (s *PoemService) Reload(ctx context.Context) error {
	if s.loader == nil {
		return domainerrors.Internal("no corpus loader configured")
	}
	raw, err := s.loader.Load(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()

		s.metrics.RecordCorpusLoad(0, 0, err)
		s.events.Emit(sse.NewCorpusLoadFailedEvent(s.loader.Source(), err))
		s.logger.Error("corpus load failed", "source", s.loader.Source(), "error", err)
		return err
	}

	idx, report := corpus.Build(raw)
	s.install(idx, report)

	if idx.IsEmpty() {
		s.logger.Warn("corpus has no poems", "source", s.loader.Source(), "blocks", report.Blocks)
	}
	return nil
}

// Install replaces the corpus with idx.
func (s *PoemService) Install(idx *corpus.Index) {
	s.install(idx, corpus.Report{Blocks: idx.Len()})
}

func (s *PoemService) install(idx *corpus.Index, report corpus.Report) {
	if s.ranked != nil {
		if err := s.ranked.Build(idx.All()); err != nil {
			s.logger.Warn("failed to build ranked search index", "error", err)
		}
	}

	s.mu.Lock()
	s.index = idx
	s.report = report
	s.loadedAt = time.Now()
	s.lastErr = nil
	s.mu.Unlock()

	s.metrics.RecordCorpusLoad(idx.Len(), idx.VerseCount(), nil)
	s.events.Emit(sse.NewCorpusReloadedEvent(sse.CorpusReloadedData{
		Source:        s.source(),
		Poems:         idx.Len(),
		Verses:        idx.VerseCount(),
		Categories:    len(idx.Categories()),
		SkippedBlocks: report.Skipped,
	}))
	s.logger.Info("corpus loaded",
		"poems", idx.Len(),
		"verses", idx.VerseCount(),
		"skipped_blocks", report.Skipped,
	)
}

// LastLoadError returns the error of the most recent failed load, or nil once a
// load has succeeded.
func (s *PoemService) LastLoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Snapshot returns the current corpus index.
func (s *PoemService) Snapshot() *corpus.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Get returns the poem with the given id.
func (s *PoemService) Get(id int) (domain.Poem, error) {
	idx := s.Snapshot()
	if idx.IsEmpty() {
		return domain.Poem{}, s.emptyErr()
	}
	return idx.Get(id)
}

// FindByTitle returns the first poem with the given title.
func (s *PoemService) FindByTitle(title string) (domain.Poem, error) {
	idx := s.Snapshot()
	if idx.IsEmpty() {
		return domain.Poem{}, s.emptyErr()
	}
	return idx.FindByTitle(title)
}

// List returns every poem, or only those in category when it is not empty.
func (s *PoemService) List(category string) []domain.Poem {
	idx := s.Snapshot()
	if category == "" {
		return idx.All()
	}
	return idx.ByCategory(category)
}

// Categories lists categories in order of first appearance.
func (s *PoemService) Categories() []domain.CategorySummary {
	return s.Snapshot().Categories()
}

// Recent returns the last n poems, newest first.
func (s *PoemService) Recent(n int) []domain.Poem {
	return s.Snapshot().Recent(n)
}

// Search filters the corpus by case-insensitive substring.
func (s *PoemService) Search(query string) []domain.Poem {
	s.metrics.RecordSearch(SearchModeFilter)
	return search.Filter(s.Snapshot().All(), query)
}

// RankedSearch runs a relevance-ranked full-text search.
func (s *PoemService) RankedSearch(ctx context.Context, params search.Params) (*search.Result, error) {
	s.metrics.RecordSearch(SearchModeRanked)
	if s.ranked == nil {
		return nil, domainerrors.Internal("ranked search is not available")
	}
	result, err := s.ranked.Search(ctx, params)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search failed")
	}
	return result, nil
}

// VerseOfDay returns the verse for the calendar day of date in the service location.
// A zero date means today.
func (s *PoemService) VerseOfDay(date time.Time) (domain.VerseOfDay, error) {
	if date.IsZero() {
		date = time.Now()
	}
	vod, err := selection.VerseOfDay(s.Snapshot(), date.In(s.location))
	if err != nil && domainerrors.Is(err, domainerrors.ErrEmptyCorpus) {
		return domain.VerseOfDay{}, s.emptyErr()
	}
	return vod, err
}

// Random returns a uniformly chosen poem.
func (s *PoemService) Random() (domain.Poem, error) {
	idx := s.Snapshot()
	if idx.IsEmpty() {
		return domain.Poem{}, s.emptyErr()
	}

	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return selection.RandomPoem(idx, s.rng)
}

// Summary describes the loaded corpus.
func (s *PoemService) Summary() CorpusSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := CorpusSummary{
		Poems:         s.index.Len(),
		Verses:        s.index.VerseCount(),
		Categories:    len(s.index.Categories()),
		SkippedBlocks: s.report.Skipped,
		LoadedAt:      s.loadedAt,
	}
	if s.loader != nil {
		summary.Source = s.loader.Source()
		summary.Remote = s.loader.Remote()
	}
	if s.lastErr != nil {
		summary.LastError = s.lastErr.Error()
	}
	return summary
}

func (s *PoemService) source() string {
	if s.loader == nil {
		return ""
	}
	return s.loader.Source()
}

// emptyErr explains an empty corpus, mentioning the load failure if there was one.
func (s *PoemService) emptyErr() error {
	if s.LastLoadError() != nil {
		return domainerrors.EmptyCorpus("corpus is empty: the last load failed")
	}
	return domainerrors.EmptyCorpus("corpus is empty")
}
