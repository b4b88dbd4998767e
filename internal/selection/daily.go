// Package selection picks poems and verses from a corpus: a deterministic verse for each
// calendar day and a uniformly random poem.
package selection

import (
	"time"

	"github.com/diwanapp/diwan-server/internal/corpus"
	"github.com/diwanapp/diwan-server/internal/domain"
	"github.com/diwanapp/diwan-server/internal/errors"
)

const secondsPerDay = 24 * 60 * 60

// DayNumber returns the number of whole days between 1970-01-01 and date's calendar day.
// The calendar day is read in date's own location, so the number changes at local midnight.
func DayNumber(date time.Time) int64 {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return midnight.Unix() / secondsPerDay
}

// DayIndex maps a calendar day onto [0, total). Consecutive days give consecutive
// indices modulo total. Returns -1 when total <= 0.
func DayIndex(date time.Time, total int) int {
	if total <= 0 {
		return -1
	}
	n := DayNumber(date) % int64(total)
	if n < 0 {
		n += int64(total)
	}
	return int(n)
}

// VerseOfDay returns the verse for date, counting verses across all poems in corpus order.
func VerseOfDay(idx *corpus.Index, date time.Time) (domain.VerseOfDay, error) {
	total := idx.VerseCount()
	if total == 0 {
		return domain.VerseOfDay{}, errors.EmptyCorpus("no verses to choose from")
	}

	target := DayIndex(date, total)
	offset := 0
	for _, p := range idx.All() {
		if target < offset+len(p.Verses) {
			return domain.VerseOfDay{
				Poem:  p,
				Verse: p.Verses[target-offset],
				Index: target,
				Total: total,
			}, nil
		}
		offset += len(p.Verses)
	}

	return domain.VerseOfDay{}, errors.Internal("verse index out of range")
}
