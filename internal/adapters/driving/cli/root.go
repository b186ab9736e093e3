package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notesmith/internal/core/ports/driving"
	"github.com/custodia-labs/notesmith/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// ConfigWatcher reloads configuration when its backing file changes.
type ConfigWatcher interface {
	Watch(ctx context.Context) (<-chan error, error)
}

// Services bundles the core services the commands drive.
type Services struct {
	Notes    driving.NotesService
	Settings driving.SettingsService
	Audit    driving.AuditService

	// Config is optional. When set, mcp serve reloads settings on change.
	Config ConfigWatcher

	// Close releases resources held by the services. Optional.
	Close func() error
}

// ServiceFactory builds the services for a configuration directory.
// An empty directory selects the default location.
type ServiceFactory func(configDir string) (*Services, error)

var (
	notesService    driving.NotesService
	settingsService driving.SettingsService
	auditService    driving.AuditService
	configWatcher   ConfigWatcher
	closeServices   func() error

	serviceFactory ServiceFactory
)

// Global flags.
var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "notesmith",
	Short: "Edit PowerPoint speaker notes without touching anything else",
	Long: `notesmith reads and rewrites the speaker notes of .pptx presentations.

Only the notes parts you change are re-serialised; every other entry of the
file is copied byte for byte, so animations, media and layouts survive.
Each update is committed atomically: readers see the old file or the new
one, never a partial write.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output on stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.notesmith)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServiceFactory registers how services are built once flags are parsed.
func SetServiceFactory(factory ServiceFactory) {
	serviceFactory = factory
}

// SetServices installs already-built services.
func SetServices(s *Services) {
	notesService = s.Notes
	settingsService = s.Settings
	auditService = s.Audit
	configWatcher = s.Config
	closeServices = s.Close
}

// Execute runs the root command and releases the services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := teardown(); err == nil {
		err = closeErr
	}
	return err
}

func setup(_ *cobra.Command, _ []string) error {
	if verbose {
		logger.SetVerbose(true)
	}
	if serviceFactory == nil || notesService != nil {
		return nil
	}

	services, err := serviceFactory(configDir)
	if err != nil {
		return err
	}
	SetServices(services)

	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Logging.Verbose {
			logger.SetVerbose(true)
		}
	}
	logger.Debug("notesmith %s", version)
	return nil
}

func teardown() error {
	if closeServices == nil {
		return nil
	}
	closer := closeServices
	closeServices = nil
	return closer()
}

func requireNotes() error {
	if notesService == nil {
		return errors.New("notes service not configured")
	}
	return nil
}
