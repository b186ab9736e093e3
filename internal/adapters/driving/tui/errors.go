package tui

import "errors"

// ErrMissingNotesService is returned when the notes service is not provided.
var ErrMissingNotesService = errors.New("tui: notes service is required")

// ErrMissingPath is returned when no presentation path is given.
var ErrMissingPath = errors.New("tui: presentation path is required")
