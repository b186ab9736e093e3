package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesmith/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notesmith/internal/core/domain"
)

func TestAuditService_Recent(t *testing.T) {
	store := memory.NewAuditStore()
	ctx := context.Background()
	for i := range 25 {
		require.NoError(t, store.Record(ctx, domain.AuditEntry{ID: fmt.Sprintf("e%d", i)}))
	}
	service := NewAuditService(store)

	entries, err := service.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "e24", entries[0].ID)

	entries, err = service.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, defaultAuditLimit)
}
