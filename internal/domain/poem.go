// Package domain holds the value types shared by the Diwan engine: poems, verses, reviews
// and favorites, plus the pure functions that aggregate and order reviews.
package domain

import "strings"

// DefaultCategory is assigned to poems whose block carries no category line.
const DefaultCategory = "uncategorized"

// Verse is one poetic unit: two hemistich lines, or a single trailing line.
type Verse []string

// Text joins the verse lines with a newline.
func (v Verse) Text() string {
	return strings.Join(v, "\n")
}

// Poem is one parsed block of the corpus.
// ID is the poem's position in the loaded corpus and is reassigned on every parse.
type Poem struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Verses   []Verse `json:"verses"`
}

// Lines returns every verse line of the poem in order.
func (p Poem) Lines() []string {
	lines := make([]string, 0, len(p.Verses)*2)
	for _, v := range p.Verses {
		lines = append(lines, v...)
	}
	return lines
}

// Body returns all verse lines joined by newlines.
func (p Poem) Body() string {
	return strings.Join(p.Lines(), "\n")
}

// Preview returns the first n verses, used for poem cards.
func (p Poem) Preview(n int) []Verse {
	if n >= len(p.Verses) {
		return p.Verses
	}
	if n < 0 {
		n = 0
	}
	return p.Verses[:n]
}

// VerseOfDay is the verse selected for a calendar day.
// Index is the position of the verse in the flattened corpus of Total verses.
type VerseOfDay struct {
	Poem  Poem  `json:"poem"`
	Verse Verse `json:"verse"`
	Index int   `json:"index"`
	Total int   `json:"total"`
}

// CategorySummary is a category name and the number of poems filed under it.
type CategorySummary struct {
	Name      string `json:"name"`
	PoemCount int    `json:"poemCount"`
}
