// Package tui provides an interactive terminal browser for the speaker notes
// of one presentation. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/notesmith/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Notes reads and rewrites speaker notes.
	Notes driving.NotesService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Notes == nil {
		return ErrMissingNotesService
	}
	return nil
}
