// Package core holds the highlights domain: captures, notes and the merge policy
// that folds one into the other.
package core

import (
	"fmt"
	"time"
)

// HighlightsMarker is the section heading under which captures accumulate.
const HighlightsMarker = "## Highlights"

// DateLayout is the layout of a note ID.
const DateLayout = "2006-01-02"

// Note is a persisted per-date document.
// Its ID is the calendar date (YYYY-MM-DD) the captures belong to.
type Note struct {
	ID      string
	Content string
}

// Capture is one unit of selected text submitted for saving.
type Capture struct {
	Text        string `json:"text"`
	URL         string `json:"url"`
	IncludeLink bool   `json:"includeLink"`
}

// Result describes what a capture did to its note.
type Result struct {
	NoteID       string
	Created      bool
	LinkRecorded bool
}

// NoteID returns the note ID for the given instant in loc.
// A nil loc means time.Local.
func NoteID(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// ValidateNoteID reports whether id is a well-formed note date.
func ValidateNoteID(id string) error {
	if _, err := time.Parse(DateLayout, id); err != nil {
		return fmt.Errorf("invalid note id %q: expected YYYY-MM-DD", id)
	}
	return nil
}

// EventType represents the type of change in the notes directory.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a note observed on disk.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
