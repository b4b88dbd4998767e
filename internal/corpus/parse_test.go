package corpus

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwanapp/diwan-server/internal/domain"
)

func TestParse_EndToEndScenario(t *testing.T) {
	raw := "t1\n@cat1\nline1\nline2\n===\nt2\nline3\n"

	got := Parse(raw)

	want := []domain.Poem{
		{ID: 0, Title: "t1", Category: "cat1", Verses: []domain.Verse{{"line1", "line2"}}},
		{ID: 1, Title: "t2", Category: domain.DefaultCategory, Verses: []domain.Verse{{"line3"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_PairsLinesAndKeepsTrailingLine(t *testing.T) {
	raw := "Title\n@ghazal\na\nb\n\nc\nd\ne\n"

	got := Parse(raw)

	require.Len(t, got, 1)
	want := []domain.Verse{{"a", "b"}, {"c", "d"}, {"e"}}
	if diff := cmp.Diff(want, got[0].Verses); diff != "" {
		t.Errorf("verses mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_DropsBlocksWithoutVerses(t *testing.T) {
	raw := strings.Join([]string{
		"Only a title",
		"===",
		"Title with category only",
		"@cat",
		"===",
		"   ",
		"===",
		"Real poem",
		"verse line",
	}, "\n")

	got, report := ParseWithReport(raw)

	require.Len(t, got, 1)
	assert.Equal(t, "Real poem", got[0].Title)
	assert.Equal(t, 0, got[0].ID)
	assert.Equal(t, 3, report.Blocks)
	assert.Equal(t, 2, report.Skipped)
}

func TestParse_IDsAreDenseAfterSkips(t *testing.T) {
	raw := "a\nx\n===\nempty\n===\nb\ny\n===\n\n===\nc\nz"

	got := Parse(raw)

	require.Len(t, got, 3)
	for i, p := range got {
		assert.Equal(t, i, p.ID)
		assert.NotEmpty(t, p.Verses)
	}
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Title, got[1].Title, got[2].Title})
}

func TestParse_TrimsTitleAndCategory(t *testing.T) {
	got := Parse("   Spaced Title  \n  @  love poems \n  l1 \n")

	require.Len(t, got, 1)
	assert.Equal(t, "Spaced Title", got[0].Title)
	assert.Equal(t, "love poems", got[0].Category)
	assert.Equal(t, domain.Verse{"l1"}, got[0].Verses[0])
}

func TestParse_EmptyCategoryFallsBackToDefault(t *testing.T) {
	got := Parse("Title\n@\nline\n")

	require.Len(t, got, 1)
	assert.Equal(t, domain.DefaultCategory, got[0].Category)
}

func TestParse_CategoryOnlyRecognizedOnSecondLine(t *testing.T) {
	got := Parse("Title\nfirst\n@not a category\n")

	require.Len(t, got, 1)
	assert.Equal(t, domain.DefaultCategory, got[0].Category)
	assert.Equal(t, []domain.Verse{{"first", "@not a category"}}, got[0].Verses)
}

func TestParse_OnlyTripleEqualsDelimits(t *testing.T) {
	got := Parse("One\nl1\n---\nl2\n  ===  \nTwo\nl3\n")

	require.Len(t, got, 2)
	assert.Equal(t, []domain.Verse{{"l1", "---"}, {"l2"}}, got[0].Verses)
	assert.Equal(t, "Two", got[1].Title)
}

func TestParse_DelimiterMustBeWholeLine(t *testing.T) {
	got := Parse("One\nl1 === l2\n")

	require.Len(t, got, 1)
	assert.Equal(t, []domain.Verse{{"l1 === l2"}}, got[0].Verses)
}

func TestParse_HandlesCRLF(t *testing.T) {
	got := Parse("t1\r\n@c\r\na\r\nb\r\n===\r\nt2\r\nc\r\n")

	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Category)
	assert.Equal(t, domain.Verse{"a", "b"}, got[0].Verses[0])
}

func TestParse_ArabicText(t *testing.T) {
	raw := "الوطن\n@وطنية\nيا موطني يا موطني\nالجلال والجمال\n"

	got := Parse(raw)

	require.Len(t, got, 1)
	assert.Equal(t, "الوطن", got[0].Title)
	assert.Equal(t, "وطنية", got[0].Category)
	assert.Len(t, got[0].Verses, 1)
}

func TestParse_EmptyInput(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("===\n===\n"))
	assert.NotNil(t, Parse(""))
}

func TestParse_EveryPoemHasVerses(t *testing.T) {
	inputs := []string{
		"a\n===\nb\n@c\n===\nc\nd",
		"\n\n===\n\n",
		"x\n@y\n@z\n",
		"title\n\n\n\nline\n===",
	}

	for _, in := range inputs {
		for _, p := range Parse(in) {
			assert.NotEmpty(t, p.Verses, "input %q produced poem without verses", in)
			for _, v := range p.Verses {
				assert.NotEmpty(t, v)
				assert.LessOrEqual(t, len(v), 2)
			}
		}
	}
}
