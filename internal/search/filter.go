package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/diwanapp/diwan-server/internal/domain"
)

// Filter returns the poems whose title, category or any verse line contains query,
// ignoring case. Order is preserved. A blank query returns poems unchanged.
func Filter(poems []domain.Poem, query string) []domain.Poem {
	query = strings.TrimSpace(query)
	if query == "" {
		return poems
	}

	f := newFolder()
	needle := f.fold(query)

	out := make([]domain.Poem, 0)
	for _, p := range poems {
		if matches(f, p, needle) {
			out = append(out, p)
		}
	}
	return out
}

func matches(f *folder, p domain.Poem, needle string) bool {
	if strings.Contains(f.fold(p.Title), needle) || strings.Contains(f.fold(p.Category), needle) {
		return true
	}
	for _, v := range p.Verses {
		for _, line := range v {
			if strings.Contains(f.fold(line), needle) {
				return true
			}
		}
	}
	return false
}

// folder applies NFC normalization then Unicode case folding.
// A cases.Caser keeps state, so each Filter call uses its own.
type folder struct {
	caser cases.Caser
}

func newFolder() *folder {
	return &folder{caser: cases.Fold()}
}

func (f *folder) fold(s string) string {
	return f.caser.String(norm.NFC.String(s))
}
