package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/core/ports/driven"
	"github.com/custodia-labs/notesmith/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyMaxFileSize       = "security.max_file_size"
	keyAllowedExtensions = "security.allowed_extensions"
	keyWorkspaceDirs     = "security.workspace_dirs"
	keyEnforceWorkspace  = "security.enforce_workspace_boundary"
	keyMaxTextLength     = "security.max_text_length"
	keyMaxPathLength     = "security.max_path_length"
	keyMissPolicy        = "notes.miss_policy"
	keyDefaultSuffix     = "notes.default_suffix"
	keyRateLimiting      = "performance.enable_rate_limiting"
	keyMaxRequests       = "performance.max_requests_per_minute"
	keyAuditEnabled      = "audit.enabled"
	keyLoggingVerbose    = "logging.verbose"
)

// settingKey describes how one config key is parsed and displayed.
type settingKey struct {
	key   string
	parse func(string) (any, error)
	show  func(*domain.Settings) string
}

var settingKeys = []settingKey{
	{keyMaxFileSize, parsePositiveInt, func(s *domain.Settings) string {
		return strconv.FormatInt(s.Security.MaxFileSize, 10)
	}},
	{keyAllowedExtensions, parseExtensions, func(s *domain.Settings) string {
		return strings.Join(s.Security.AllowedExtensions, ",")
	}},
	{keyWorkspaceDirs, parseList, func(s *domain.Settings) string {
		return strings.Join(s.Security.WorkspaceDirs, ",")
	}},
	{keyEnforceWorkspace, parseBool, func(s *domain.Settings) string {
		return strconv.FormatBool(s.Security.EnforceWorkspaceBoundary)
	}},
	{keyMaxTextLength, parsePositiveInt, func(s *domain.Settings) string {
		return strconv.Itoa(s.Security.MaxTextLength)
	}},
	{keyMaxPathLength, parsePositiveInt, func(s *domain.Settings) string {
		return strconv.Itoa(s.Security.MaxPathLength)
	}},
	{keyMissPolicy, parseMissPolicy, func(s *domain.Settings) string {
		return s.Notes.MissPolicy.String()
	}},
	{keyDefaultSuffix, parseSuffix, func(s *domain.Settings) string {
		return s.Notes.DefaultSuffix
	}},
	{keyRateLimiting, parseBool, func(s *domain.Settings) string {
		return strconv.FormatBool(s.Performance.EnableRateLimiting)
	}},
	{keyMaxRequests, parsePositiveInt, func(s *domain.Settings) string {
		return strconv.Itoa(s.Performance.MaxRequestsPerMinute)
	}},
	{keyAuditEnabled, parseBool, func(s *domain.Settings) string {
		return strconv.FormatBool(s.Audit.Enabled)
	}},
	{keyLoggingVerbose, parseBool, func(s *domain.Settings) string {
		return strconv.FormatBool(s.Logging.Verbose)
	}},
}

// SettingsService maps config store keys to domain.Settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Unset or invalid values fall back to the defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Security: domain.SecuritySettings{
			MaxFileSize:              s.getInt64(keyMaxFileSize, defaults.Security.MaxFileSize),
			AllowedExtensions:        s.getStringSlice(keyAllowedExtensions, defaults.Security.AllowedExtensions),
			WorkspaceDirs:            s.getStringSlice(keyWorkspaceDirs, defaults.Security.WorkspaceDirs),
			EnforceWorkspaceBoundary: s.getBool(keyEnforceWorkspace, defaults.Security.EnforceWorkspaceBoundary),
			MaxTextLength:            int(s.getInt64(keyMaxTextLength, int64(defaults.Security.MaxTextLength))),
			MaxPathLength:            int(s.getInt64(keyMaxPathLength, int64(defaults.Security.MaxPathLength))),
		},
		Notes: domain.NotesSettings{
			MissPolicy:    s.getMissPolicy(defaults.Notes.MissPolicy),
			DefaultSuffix: s.getString(keyDefaultSuffix, defaults.Notes.DefaultSuffix),
		},
		Performance: domain.PerformanceSettings{
			EnableRateLimiting:   s.getBool(keyRateLimiting, defaults.Performance.EnableRateLimiting),
			MaxRequestsPerMinute: int(s.getInt64(keyMaxRequests, int64(defaults.Performance.MaxRequestsPerMinute))),
		},
		Audit: domain.AuditSettings{
			Enabled: s.getBool(keyAuditEnabled, defaults.Audit.Enabled),
		},
		Logging: domain.LoggingSettings{
			Verbose: s.getBool(keyLoggingVerbose, defaults.Logging.Verbose),
		},
	}

	return settings, nil
}

// Set parses value according to key and persists it.
func (s *SettingsService) Set(key, value string) error {
	k, ok := lookupKey(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	parsed, err := k.parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Value returns the effective value of key formatted for display.
func (s *SettingsService) Value(key string) (string, error) {
	k, ok := lookupKey(key)
	if !ok {
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	settings, err := s.Get()
	if err != nil {
		return "", err
	}
	return k.show(settings), nil
}

// Keys lists every settable key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

func lookupKey(key string) (settingKey, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k, true
		}
	}
	return settingKey{}, false
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt64(key string, defaultVal int64) int64 {
	val := s.configStore.GetInt64(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return append([]string(nil), defaultVal...)
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getMissPolicy(defaultVal domain.MissPolicy) domain.MissPolicy {
	policy := domain.MissPolicy(s.configStore.GetString(keyMissPolicy))
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}

// Value parsers for Set.

func parsePositiveInt(value string) (any, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("expected an integer, got %q", value)
	}
	if n <= 0 {
		return nil, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

func parseBool(value string) (any, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("expected true or false, got %q", value)
	}
	return b, nil
}

// parseList splits a comma-separated value, dropping empty items.
func parseList(value string) (any, error) {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items, nil
}

func parseExtensions(value string) (any, error) {
	list, _ := parseList(value)
	exts := list.([]string)
	if len(exts) == 0 {
		return nil, fmt.Errorf("at least one extension is required")
	}
	for i, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[i] = ext
	}
	return exts, nil
}

func parseMissPolicy(value string) (any, error) {
	policy := domain.MissPolicy(strings.ToLower(value))
	if !policy.IsValid() {
		return nil, fmt.Errorf("expected %q or %q, got %q", domain.MissSkip, domain.MissFail, value)
	}
	return policy.String(), nil
}

func parseSuffix(value string) (any, error) {
	if value == "" || strings.ContainsAny(value, `/\`) {
		return nil, fmt.Errorf("suffix must be a non-empty file name fragment, got %q", value)
	}
	return value, nil
}
