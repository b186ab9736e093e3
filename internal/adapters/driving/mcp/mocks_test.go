package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesmith/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/notesmith/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/core/services"
)

// mockAuditService is a mock implementation of driving.AuditService.
type mockAuditService struct {
	entries []domain.AuditEntry
	err     error
}

func (m *mockAuditService) Recent(_ context.Context, _ int) ([]domain.AuditEntry, error) {
	return m.entries, m.err
}

// newTestServer wires a server over real services backed by in-memory config.
func newTestServer(t *testing.T, config map[string]any) *Server {
	t.Helper()
	settings := services.NewSettingsService(memory.NewConfigStoreWith(config))
	orchestrator := services.NewBatchOrchestrator(file.NewCommitter(),
		services.WithPathLocker(memory.NewPathLocker()))

	server, err := NewServer(&Ports{
		Notes:    services.NewNotesService(orchestrator, settings),
		Settings: settings,
	})
	require.NoError(t, err)
	return server
}

func ptr[T any](v T) *T {
	return &v
}
