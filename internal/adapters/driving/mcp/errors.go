// Package mcp provides an MCP (Model Context Protocol) server adapter for notesmith.
// It lets AI assistants read and rewrite speaker notes in presentation files.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// ErrMissingNotesService is returned when the notes service is not provided.
var ErrMissingNotesService = errors.New("mcp: notes service is required")

// toolError prefixes err with its stable error code, e.g.
// "INVALID_SLIDE_NUMBER: invalid input: invalid slide number: 9 ...".
// The SDK reports handler errors to the client as tool results with IsError set.
func toolError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", domain.ErrorCode(err), err)
}
