package domain

import "time"

// Favorite is a saved verse. It references the poem by title, not by ID, so it
// survives corpus reloads. VerseText is the dedup key.
type Favorite struct {
	VerseText string    `json:"verseText"`
	PoemTitle string    `json:"poemTitle"`
	SavedAt   time.Time `json:"savedAt"`
}

// Favorites is an ordered favorites list, newest first.
type Favorites []Favorite

// Find returns the index of the favorite with the given verse text, or -1.
func (f Favorites) Find(verseText string) int {
	for i, fav := range f {
		if fav.VerseText == verseText {
			return i
		}
	}
	return -1
}

// Add prepends fav unless its verse is already saved.
// Returns the resulting list and whether it changed.
func (f Favorites) Add(fav Favorite) (Favorites, bool) {
	if f.Find(fav.VerseText) >= 0 {
		return f, false
	}
	out := make(Favorites, 0, len(f)+1)
	out = append(out, fav)
	out = append(out, f...)
	return out, true
}

// Remove drops the favorite with the given verse text.
// Returns the resulting list and whether anything was removed.
func (f Favorites) Remove(verseText string) (Favorites, bool) {
	i := f.Find(verseText)
	if i < 0 {
		return f, false
	}
	out := make(Favorites, 0, len(f)-1)
	out = append(out, f[:i]...)
	out = append(out, f[i+1:]...)
	return out, true
}
