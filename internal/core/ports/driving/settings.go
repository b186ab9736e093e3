package driving

import "github.com/custodia-labs/notesmith/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, with defaults for unset keys.
	Get() (*domain.Settings, error)

	// Set parses value for key and persists it.
	// Returns domain.ErrInvalidInput for unknown keys or unparsable values.
	Set(key, value string) error

	// Value returns the effective value of key formatted for display.
	Value(key string) (string, error)

	// Keys lists every settable key in display order.
	Keys() []string
}
