// Package sse streams change notifications to connected clients as Server-Sent Events.
package sse

import (
	"time"

	"github.com/diwanapp/diwan-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventCorpusReloaded is sent after a new corpus is installed.
	EventCorpusReloaded EventType = "corpus.reloaded"
	// EventCorpusLoadFailed is sent when a reload fails and the old corpus stays.
	EventCorpusLoadFailed EventType = "corpus.load_failed"

	// EventReviewCreated is sent when a review is added.
	EventReviewCreated EventType = "review.created"
	// EventReviewHelpful is sent when a review gets a helpful vote.
	EventReviewHelpful EventType = "review.helpful"

	// EventFavoriteAdded is sent when a verse is saved.
	EventFavoriteAdded EventType = "favorite.added"
	// EventFavoriteRemoved is sent when a saved verse is deleted.
	EventFavoriteRemoved EventType = "favorite.removed"

	// EventHeartbeat keeps idle connections open.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// CorpusReloadedData is the payload of corpus.reloaded.
type CorpusReloadedData struct {
	Source        string `json:"source"`
	Poems         int    `json:"poems"`
	Verses        int    `json:"verses"`
	Categories    int    `json:"categories"`
	SkippedBlocks int    `json:"skippedBlocks"`
}

// CorpusLoadFailedData is the payload of corpus.load_failed.
type CorpusLoadFailedData struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// ReviewEventData is the payload of review events.
type ReviewEventData struct {
	Review domain.Review `json:"review"`
}

// FavoriteEventData is the payload of favorite events.
type FavoriteEventData struct {
	VerseText string `json:"verseText"`
	PoemTitle string `json:"poemTitle,omitempty"`
}

func newEvent(t EventType, data any) Event {
	return Event{Type: t, Data: data, Timestamp: time.Now()}
}

// NewCorpusReloadedEvent creates a corpus.reloaded event.
func NewCorpusReloadedEvent(data CorpusReloadedData) Event {
	return newEvent(EventCorpusReloaded, data)
}

// NewCorpusLoadFailedEvent creates a corpus.load_failed event.
func NewCorpusLoadFailedEvent(source string, err error) Event {
	return newEvent(EventCorpusLoadFailed, CorpusLoadFailedData{Source: source, Error: err.Error()})
}

// NewReviewCreatedEvent creates a review.created event.
func NewReviewCreatedEvent(r domain.Review) Event {
	return newEvent(EventReviewCreated, ReviewEventData{Review: r})
}

// NewReviewHelpfulEvent creates a review.helpful event.
func NewReviewHelpfulEvent(r domain.Review) Event {
	return newEvent(EventReviewHelpful, ReviewEventData{Review: r})
}

// NewFavoriteAddedEvent creates a favorite.added event.
func NewFavoriteAddedEvent(f domain.Favorite) Event {
	return newEvent(EventFavoriteAdded, FavoriteEventData{VerseText: f.VerseText, PoemTitle: f.PoemTitle})
}

// NewFavoriteRemovedEvent creates a favorite.removed event.
func NewFavoriteRemovedEvent(verseText string) Event {
	return newEvent(EventFavoriteRemoved, FavoriteEventData{VerseText: verseText})
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return newEvent(EventHeartbeat, struct{}{})
}
