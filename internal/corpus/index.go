package corpus

import (
	"slices"
	"strings"

	"github.com/diwanapp/diwan-server/internal/domain"
	"github.com/diwanapp/diwan-server/internal/errors"
)

// Index owns one parsed corpus. It is immutable after construction; reloading a corpus
// means building a new Index. Methods return copies so callers cannot alter the corpus.
type Index struct {
	poems      []domain.Poem
	verseCount int
}

// NewIndex wraps poems, which must carry dense IDs starting at 0 (as Parse produces).
func NewIndex(poems []domain.Poem) *Index {
	return &Index{poems: clonePoems(poems), verseCount: countVerses(poems)}
}

// Empty returns an index with no poems.
func Empty() *Index {
	return &Index{poems: []domain.Poem{}}
}

// Build parses raw text into a new index.
func Build(raw string) (*Index, Report) {
	poems, report := ParseWithReport(raw)
	return &Index{poems: poems, verseCount: countVerses(poems)}, report
}

// Len returns the number of poems.
func (idx *Index) Len() int {
	return len(idx.poems)
}

// IsEmpty reports whether the corpus has no poems.
func (idx *Index) IsEmpty() bool {
	return len(idx.poems) == 0
}

// VerseCount returns the number of verses across all poems.
func (idx *Index) VerseCount() int {
	return idx.verseCount
}

// Get returns the poem with the given id.
func (idx *Index) Get(id int) (domain.Poem, error) {
	if id < 0 || id >= len(idx.poems) {
		return domain.Poem{}, errors.NotFoundf("poem %d not found", id)
	}
	return clonePoem(idx.poems[id]), nil
}

// All returns every poem in source order.
func (idx *Index) All() []domain.Poem {
	return clonePoems(idx.poems)
}

// FindByTitle returns the first poem, in source order, whose title equals title.
// Titles are not unique; later poems with the same title are unreachable here.
func (idx *Index) FindByTitle(title string) (domain.Poem, error) {
	title = strings.TrimSpace(title)
	for _, p := range idx.poems {
		if p.Title == title {
			return clonePoem(p), nil
		}
	}
	return domain.Poem{}, errors.NotFoundf("no poem titled %q", title)
}

// Categories lists the categories in order of first appearance.
func (idx *Index) Categories() []domain.CategorySummary {
	positions := make(map[string]int)
	out := make([]domain.CategorySummary, 0)
	for _, p := range idx.poems {
		pos, ok := positions[p.Category]
		if !ok {
			pos = len(out)
			positions[p.Category] = pos
			out = append(out, domain.CategorySummary{Name: p.Category})
		}
		out[pos].PoemCount++
	}
	return out
}

// ByCategory returns the poems filed under category, in source order.
func (idx *Index) ByCategory(category string) []domain.Poem {
	out := make([]domain.Poem, 0)
	for _, p := range idx.poems {
		if p.Category == category {
			out = append(out, clonePoem(p))
		}
	}
	return out
}

// Recent returns the last n poems of the corpus, newest first.
func (idx *Index) Recent(n int) []domain.Poem {
	if n <= 0 {
		return []domain.Poem{}
	}
	start := max(len(idx.poems)-n, 0)
	out := clonePoems(idx.poems[start:])
	slices.Reverse(out)
	return out
}

func countVerses(poems []domain.Poem) int {
	n := 0
	for _, p := range poems {
		n += len(p.Verses)
	}
	return n
}

func clonePoem(p domain.Poem) domain.Poem {
	verses := make([]domain.Verse, len(p.Verses))
	for i, v := range p.Verses {
		verses[i] = slices.Clone(v)
	}
	p.Verses = verses
	return p
}

func clonePoems(poems []domain.Poem) []domain.Poem {
	out := make([]domain.Poem, len(poems))
	for i, p := range poems {
		out[i] = clonePoem(p)
	}
	return out
}
