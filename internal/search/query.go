package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a ranked search.
type Params struct {
	Query    string // User's search text
	Category string // Restrict to one category (empty = all)

	Limit  int
	Offset int

	IncludeFacets bool // Count hits per category
	Highlight     bool // Include match fragments
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:         20,
		IncludeFacets: true,
		Highlight:     true,
	}
}

// Result is one page of ranked hits.
type Result struct {
	Query      string       `json:"query"`
	Total      uint64       `json:"total"`
	TookMs     int64        `json:"tookMs"`
	Hits       []Hit        `json:"hits"`
	Categories []FacetCount `json:"categories,omitempty"`
}

// Hit is a matching poem.
type Hit struct {
	PoemID     int               `json:"poemId"`
	Title      string            `json:"title"`
	Category   string            `json:"category"`
	VerseCount int               `json:"verseCount"`
	Score      float64           `json:"score"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// FacetCount is a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

const categoryFacet = "category"

// Search runs a ranked query. A blank query returns an empty result.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	params.Query = strings.TrimSpace(params.Query)
	result := &Result{Query: params.Query, Hits: []Hit{}}
	if params.Query == "" {
		return result, nil
	}
	if params.Limit <= 0 {
		params.Limit = DefaultParams().Limit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	req.SortBy([]string{"-_score", "poem_id"})
	req.Fields = []string{"poem_id", "title", "category", "verse_count"}

	if params.IncludeFacets {
		req.AddFacet(categoryFacet, bleve.NewFacetRequest(categoryFacet, 20))
	}
	if params.Highlight {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("title")
		req.Highlight.AddField("text")
	}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result.Total = res.Total
	result.TookMs = res.Took.Milliseconds()
	for _, h := range res.Hits {
		hit := Hit{Score: h.Score}
		if id, ok := h.Fields["poem_id"].(float64); ok {
			hit.PoemID = int(id)
		}
		if t, ok := h.Fields["title"].(string); ok {
			hit.Title = t
		}
		if c, ok := h.Fields["category"].(string); ok {
			hit.Category = c
		}
		if n, ok := h.Fields["verse_count"].(float64); ok {
			hit.VerseCount = int(n)
		}
		if len(h.Fragments) > 0 {
			hit.Highlights = make(map[string]string, len(h.Fragments))
			for field, fragments := range h.Fragments {
				if len(fragments) > 0 {
					hit.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, hit)
	}

	if facet, ok := res.Facets[categoryFacet]; ok && facet.Terms != nil {
		for _, term := range facet.Terms.Terms() {
			result.Categories = append(result.Categories, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	return result, nil
}

// buildQuery matches title (boosted) and verse text, with fuzzy and prefix matching on
// the title for typos and partial words.
func buildQuery(params Params) query.Query {
	titleMatch := bleve.NewMatchQuery(params.Query)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	textMatch := bleve.NewMatchQuery(params.Query)
	textMatch.SetField("text")

	fuzzy := bleve.NewFuzzyQuery(params.Query)
	fuzzy.SetFuzziness(1)
	fuzzy.SetField("title")
	fuzzy.SetBoost(0.8)

	textQueries := []query.Query{titleMatch, textMatch, fuzzy}

	if utf8.RuneCountInString(params.Query) >= 2 {
		prefix := bleve.NewPrefixQuery(strings.ToLower(params.Query))
		prefix.SetField("title")
		prefix.SetBoost(0.5)
		textQueries = append(textQueries, prefix)
	}

	text := bleve.NewDisjunctionQuery(textQueries...)
	if params.Category == "" {
		return text
	}

	category := bleve.NewTermQuery(params.Category)
	category.SetField("category")
	return bleve.NewConjunctionQuery(text, category)
}
