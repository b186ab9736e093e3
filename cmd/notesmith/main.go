// Command notesmith reads and rewrites PowerPoint speaker notes from the
// command line or as an MCP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	configfile "github.com/custodia-labs/notesmith/internal/adapters/driven/config/file"
	storagefile "github.com/custodia-labs/notesmith/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/notesmith/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notesmith/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/notesmith/internal/adapters/driving/cli"
	"github.com/custodia-labs/notesmith/internal/core/ports/driven"
	"github.com/custodia-labs/notesmith/internal/core/services"
	"github.com/custodia-labs/notesmith/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetServiceFactory(wire)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// wire builds the services for configDir.
func wire(configDir string) (*cli.Services, error) {
	configStore, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	dataDir := ""
	if configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}
	auditStore, closeAudit, err := openAuditStore(dataDir, settings.Audit.Enabled)
	if err != nil {
		return nil, err
	}

	// NotesService checks text length against live settings.
	opts := []services.OrchestratorOption{
		services.WithPathLocker(memory.NewPathLocker()),
		services.WithMaxTextLength(0),
		services.WithMissPolicy(settings.Notes.MissPolicy),
	}
	if settings.Audit.Enabled {
		opts = append(opts, services.WithAuditStore(auditStore))
	}
	orchestrator := services.NewBatchOrchestrator(storagefile.NewCommitter(), opts...)

	return &cli.Services{
		Notes:    services.NewNotesService(orchestrator, settingsService),
		Settings: settingsService,
		Audit:    services.NewAuditService(auditStore),
		Config:   configStore,
		Close:    closeAudit,
	}, nil
}

// openAuditStore opens the SQLite audit database when auditing is enabled or
// a database from an earlier run exists, so history stays listable after
// auditing is switched off. Otherwise it returns an empty in-memory store.
func openAuditStore(dataDir string, enabled bool) (driven.AuditStore, func() error, error) {
	noop := func() error { return nil }

	if !enabled {
		exists, err := auditDatabaseExists(dataDir)
		if err != nil || !exists {
			return memory.NewAuditStore(), noop, nil
		}
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		if !enabled {
			logger.Warn("audit history unavailable: %v", err)
			return memory.NewAuditStore(), noop, nil
		}
		return nil, nil, fmt.Errorf("opening audit store: %w", err)
	}
	logger.Debug("audit database: %s", store.Path())
	return store.AuditStore(), store.Close, nil
}

func auditDatabaseExists(dataDir string) (bool, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return false, err
		}
		dataDir = filepath.Join(home, ".notesmith", "data")
	}
	_, err := os.Stat(filepath.Join(dataDir, sqlite.DatabaseFile))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
