package domain

import (
	"path/filepath"
	"strings"
)

// SecuritySettings bounds which files and inputs the engine accepts.
type SecuritySettings struct {
	// MaxFileSize is the largest presentation accepted, in bytes.
	MaxFileSize int64

	// AllowedExtensions lists accepted file extensions, lower case with dot.
	AllowedExtensions []string

	// WorkspaceDirs restricts file access when EnforceWorkspaceBoundary is set.
	// Empty means no restriction.
	WorkspaceDirs []string

	// EnforceWorkspaceBoundary enables the WorkspaceDirs check.
	EnforceWorkspaceBoundary bool

	// MaxTextLength is the longest notes text accepted, in bytes.
	MaxTextLength int

	// MaxPathLength is the longest path accepted.
	MaxPathLength int
}

// AllowsExtension reports whether the path's extension is accepted.
func (s SecuritySettings) AllowsExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range s.AllowedExtensions {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}

// NotesSettings holds notes editing behaviour.
type NotesSettings struct {
	// MissPolicy decides how slides without a notes part are handled.
	MissPolicy MissPolicy

	// DefaultSuffix is inserted before the extension when no output path is given
	// for a new-file update, e.g. "deck.pptx" -> "deck.notes.pptx".
	DefaultSuffix string
}

// PerformanceSettings holds request throttling configuration.
type PerformanceSettings struct {
	// EnableRateLimiting throttles MCP tool calls.
	EnableRateLimiting bool

	// MaxRequestsPerMinute is the sustained tool-call rate.
	MaxRequestsPerMinute int
}

// AuditSettings controls the commit audit log.
type AuditSettings struct {
	// Enabled records every committed batch.
	Enabled bool
}

// LoggingSettings controls diagnostic output.
type LoggingSettings struct {
	// Verbose enables debug output on stderr.
	Verbose bool
}

// Settings is the complete application configuration.
type Settings struct {
	Security    SecuritySettings
	Notes       NotesSettings
	Performance PerformanceSettings
	Audit       AuditSettings
	Logging     LoggingSettings
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Security: SecuritySettings{
			MaxFileSize:              1 << 30,
			AllowedExtensions:        []string{".pptx", ".pptm"},
			EnforceWorkspaceBoundary: true,
			MaxTextLength:            1_000_000,
			MaxPathLength:            4096,
		},
		Notes: NotesSettings{
			MissPolicy:    MissSkip,
			DefaultSuffix: ".notes",
		},
		Performance: PerformanceSettings{
			EnableRateLimiting:   false,
			MaxRequestsPerMinute: 60,
		},
	}
}

// DefaultOutputPath derives the new-file output path for source,
// e.g. "/a/deck.pptx" -> "/a/deck.notes.pptx".
func (n NotesSettings) DefaultOutputPath(source string) string {
	suffix := n.DefaultSuffix
	if suffix == "" {
		suffix = ".notes"
	}
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + suffix + ext
}
