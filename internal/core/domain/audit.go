package domain

import "time"

// AuditEntry records one committed notes batch.
type AuditEntry struct {
	// ID is the unique entry identifier.
	ID string

	// SourcePath is the container that was read.
	SourcePath string

	// OutputPath is the container that was written.
	OutputPath string

	// InPlace is true when the source was replaced.
	InPlace bool

	// Slides lists the slides that were rewritten.
	Slides []int

	// Skipped lists the slides without a notes part.
	Skipped []int

	// CommittedAt is when the commit finished.
	CommittedAt time.Time
}
