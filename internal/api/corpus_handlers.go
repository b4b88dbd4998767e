package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/diwanapp/diwan-server/internal/service"
)

func (s *Server) registerCorpusRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "corpusSummary",
		Method:      http.MethodGet,
		Path:        "/api/v1/corpus",
		Summary:     "Corpus summary",
		Description: "Source, counts, load time and the last load error if any",
		Tags:        []string{"Corpus"},
	}, s.handleCorpusSummary)

	huma.Register(s.api, huma.Operation{
		OperationID: "reloadCorpus",
		Method:      http.MethodPost,
		Path:        "/api/v1/corpus/reload",
		Summary:     "Reload corpus",
		Description: "Fetches and parses the corpus again. Poem ids are reassigned.",
		Tags:        []string{"Corpus"},
	}, s.handleReloadCorpus)
}

// CorpusOutput wraps the corpus summary for Huma.
type CorpusOutput struct {
	Body service.CorpusSummary
}

func (s *Server) handleCorpusSummary(_ context.Context, _ *struct{}) (*CorpusOutput, error) {
	return &CorpusOutput{Body: s.services.Poems.Summary()}, nil
}

func (s *Server) handleReloadCorpus(ctx context.Context, _ *struct{}) (*CorpusOutput, error) {
	if err := s.services.Poems.Reload(ctx); err != nil {
		return nil, err
	}
	return &CorpusOutput{Body: s.services.Poems.Summary()}, nil
}
