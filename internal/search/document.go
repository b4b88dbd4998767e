// Package search finds poems in a corpus. Filter is the plain case-insensitive substring
// match; Index is a relevance-ranked full-text index built on Bleve.
package search

import (
	"strconv"
	"strings"

	"github.com/diwanapp/diwan-server/internal/domain"
)

// PoemDocument is the shape a poem takes inside the Bleve index.
type PoemDocument struct {
	ID         string `json:"id"` // poem ID as a decimal string
	PoemID     int    `json:"poem_id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Text       string `json:"text"` // verse lines joined by newlines
	VerseCount int    `json:"verse_count"`
}

// NewPoemDocument flattens a poem for indexing.
func NewPoemDocument(p domain.Poem) *PoemDocument {
	return &PoemDocument{
		ID:         strconv.Itoa(p.ID),
		PoemID:     p.ID,
		Title:      p.Title,
		Category:   p.Category,
		Text:       strings.Join(p.Lines(), "\n"),
		VerseCount: len(p.Verses),
	}
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *PoemDocument) ToMap() map[string]any {
	return map[string]any{
		"id":          d.ID,
		"poem_id":     d.PoemID,
		"title":       d.Title,
		"category":    d.Category,
		"text":        d.Text,
		"verse_count": d.VerseCount,
	}
}
