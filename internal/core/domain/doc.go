// Package domain defines the core business entities for notesmith.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - UpdateRequest: A single (slide, notes text) edit
//   - UpdateBatch: An ordered list of edits committed together
//   - BatchResult: What a commit actually applied or skipped
//   - Settings: Security, notes, performance and audit configuration
//   - AuditEntry: A record of one committed batch
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
