package driving

import (
	"context"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// AuditService exposes the history of committed batches.
type AuditService interface {
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
