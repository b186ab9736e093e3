package mcp

import (
	"github.com/custodia-labs/notesmith/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Notes reads and rewrites speaker notes.
	Notes driving.NotesService

	// Settings drives rate limiting and the settings resource.
	// Optional: without it tool calls are never throttled.
	Settings driving.SettingsService

	// Audit backs the audit resource. Optional.
	Audit driving.AuditService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Notes == nil {
		return ErrMissingNotesService
	}
	return nil
}
