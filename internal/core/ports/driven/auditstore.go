package driven

import (
	"context"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// AuditStore persists a history of committed batches.
type AuditStore interface {
	// Record appends an entry.
	Record(ctx context.Context, entry domain.AuditEntry) error

	// List returns the most recent entries, newest first.
	// A limit <= 0 returns all entries.
	List(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
