package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diwanapp/diwan-server/internal/corpus"
	"github.com/diwanapp/diwan-server/internal/domain"
)

func samplePoems() []domain.Poem {
	return corpus.Parse(`The Moon Over Baghdad
@Longing
The river carries NIGHT
and the moon forgets

===
قصيدة المطر
@وطنية
عيناك غابتا نخيل ساعة السحر
أو شرفتان راح ينأى عنهما القمر
===
Straße
@travel
walking the long STRASSE home
`)
}

func titles(poems []domain.Poem) []string {
	out := make([]string, len(poems))
	for i, p := range poems {
		out[i] = p.Title
	}
	return out
}

func TestFilter_MatchesFields(t *testing.T) {
	poems := samplePoems()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title", "baghdad", []string{"The Moon Over Baghdad"}},
		{"category", "LONGING", []string{"The Moon Over Baghdad"}},
		{"verse line", "river carries night", []string{"The Moon Over Baghdad"}},
		{"arabic verse", "القمر", []string{"قصيدة المطر"}},
		{"arabic category", "وطنية", []string{"قصيدة المطر"}},
		{"several hits keep order", "the", []string{"The Moon Over Baghdad", "Straße"}},
		{"no hit", "zebra", []string{}},
		{"surrounding space trimmed", "  moon  ", []string{"The Moon Over Baghdad"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Filter(poems, tt.query)))
		})
	}
}

func TestFilter_FullCaseFolding(t *testing.T) {
	poems := samplePoems()

	// ß folds to "ss", so both spellings meet.
	assert.Equal(t, []string{"Straße"}, titles(Filter(poems, "strasse")))
	assert.Equal(t, []string{"Straße"}, titles(Filter(poems, "STRAßE")))
}

func TestFilter_NormalizesComposition(t *testing.T) {
	poems := []domain.Poem{{Title: "Caf\u00e9", Verses: []domain.Verse{{"x"}}}}

	// "e" followed by a combining acute accent.
	assert.Len(t, Filter(poems, "cafe\u0301"), 1)
}

func TestFilter_BlankQueryReturnsInput(t *testing.T) {
	poems := samplePoems()

	assert.Equal(t, poems, Filter(poems, ""))
	assert.Equal(t, poems, Filter(poems, "   \t"))
}

func TestFilter_Idempotent(t *testing.T) {
	poems := samplePoems()

	once := Filter(poems, "the")
	twice := Filter(once, "the")

	assert.Equal(t, once, twice)
}

func TestFilter_ResultIsSubsequence(t *testing.T) {
	poems := samplePoems()

	got := Filter(poems, "a")
	j := 0
	for _, p := range got {
		for j < len(poems) && poems[j].ID != p.ID {
			j++
		}
		assert.Less(t, j, len(poems), "poem %d out of order", p.ID)
	}
}
