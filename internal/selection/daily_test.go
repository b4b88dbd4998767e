package selection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwanapp/diwan-server/internal/corpus"
	"github.com/diwanapp/diwan-server/internal/errors"
)

// Three poems holding 2 + 1 + 2 verses.
const fiveVerses = `One
a
b
c
===
Two
d
===
Three
e
f
g
h
`

func TestDayNumber(t *testing.T) {
	assert.Equal(t, int64(0), DayNumber(time.Date(1970, 1, 1, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, int64(1), DayNumber(time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(-1), DayNumber(time.Date(1969, 12, 31, 12, 0, 0, 0, time.UTC)))
}

func TestDayNumber_UsesLocalCalendarDay(t *testing.T) {
	amman := time.FixedZone("UTC+3", 3*60*60)

	// 22:30 UTC on Jan 1 is already Jan 2 at UTC+3.
	utc := time.Date(2026, 1, 1, 22, 30, 0, 0, time.UTC)
	local := utc.In(amman)

	assert.Equal(t, DayNumber(utc)+1, DayNumber(local))
}

func TestDayIndex_SameDaySameIndex(t *testing.T) {
	morning := time.Date(2026, 3, 14, 0, 0, 1, 0, time.Local)
	night := time.Date(2026, 3, 14, 23, 59, 59, 0, time.Local)

	assert.Equal(t, DayIndex(morning, 7), DayIndex(night, 7))
}

func TestDayIndex_NextDayAdvancesByOne(t *testing.T) {
	const total = 5
	days := []time.Time{
		time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC), // year boundary
		time.Date(2024, 2, 28, 8, 0, 0, 0, time.UTC),  // leap day follows
		time.Date(1969, 12, 31, 8, 0, 0, 0, time.UTC),
	}

	for _, d := range days {
		today := DayIndex(d, total)
		tomorrow := DayIndex(d.AddDate(0, 0, 1), total)
		assert.Equal(t, (today+1)%total, tomorrow, "day %s", d.Format(time.DateOnly))
	}
}

func TestDayIndex_Range(t *testing.T) {
	start := time.Date(1965, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 400 {
		got := DayIndex(start.AddDate(0, 0, i*37), 13)
		assert.GreaterOrEqual(t, got, 0)
		assert.Less(t, got, 13)
	}
}

func TestDayIndex_NoVerses(t *testing.T) {
	assert.Equal(t, -1, DayIndex(time.Now(), 0))
	assert.Equal(t, -1, DayIndex(time.Now(), -3))
}

func TestVerseOfDay_FlattensInCorpusOrder(t *testing.T) {
	idx, _ := corpus.Build(fiveVerses)
	require.Equal(t, 5, idx.VerseCount())

	want := []struct {
		poem  string
		first string
	}{
		{"One", "a"},
		{"One", "c"},
		{"Two", "d"},
		{"Three", "e"},
		{"Three", "g"},
	}

	base := time.Date(1970, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, w := range want {
		vod, err := VerseOfDay(idx, base.AddDate(0, 0, i))
		require.NoError(t, err)
		assert.Equal(t, i, vod.Index)
		assert.Equal(t, 5, vod.Total)
		assert.Equal(t, w.poem, vod.Poem.Title)
		assert.Equal(t, w.first, vod.Verse[0])
	}

	// Wraps around after total days.
	vod, err := VerseOfDay(idx, base.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, 0, vod.Index)
}

func TestVerseOfDay_StableWithinDay(t *testing.T) {
	idx, _ := corpus.Build(fiveVerses)

	a, err := VerseOfDay(idx, time.Date(2026, 10, 18, 0, 5, 0, 0, time.UTC))
	require.NoError(t, err)
	b, err := VerseOfDay(idx, time.Date(2026, 10, 18, 23, 55, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestVerseOfDay_EmptyCorpus(t *testing.T) {
	_, err := VerseOfDay(corpus.Empty(), time.Now())
	assert.True(t, errors.Is(err, errors.ErrEmptyCorpus))
}
