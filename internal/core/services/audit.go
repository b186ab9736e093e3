package services

import (
	"context"

	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/core/ports/driven"
	"github.com/custodia-labs/notesmith/internal/core/ports/driving"
)

// Ensure AuditService implements the interface.
var _ driving.AuditService = (*AuditService)(nil)

// defaultAuditLimit applies when callers pass a limit <= 0.
const defaultAuditLimit = 20

// AuditService reads the commit history.
type AuditService struct {
	store driven.AuditStore
}

// NewAuditService creates a new audit service.
func NewAuditService(store driven.AuditStore) *AuditService {
	return &AuditService{store: store}
}

// Recent returns up to limit entries, newest first.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.store.List(ctx, limit)
}
