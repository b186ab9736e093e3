// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSlides lists every slide with a preview of its notes.
	ViewSlides ViewType = iota
	// ViewNotes shows and edits the notes of one slide.
	ViewNotes
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSlides:
		return "slides"
	case ViewNotes:
		return "notes"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// NotesLoaded carries the notes of every slide back to the model.
type NotesLoaded struct {
	Notes []domain.SlideNotes
	Err   error
}

// ReloadRequested asks the app to read the presentation again.
type ReloadRequested struct{}

// SlideSelected is sent when a slide is opened from the list.
type SlideSelected struct {
	Notes domain.SlideNotes
}

// SaveRequested asks the app to commit new notes for a slide.
type SaveRequested struct {
	Slide int
	Text  string
}

// NotesSaved reports the outcome of a SaveRequested.
type NotesSaved struct {
	Slide  int
	Result *domain.BatchResult
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
