// Package sqlite provides a SQLite-based implementation of the audit log.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.notesmith/data/audit.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The store relies on SQLite's
// own locking in WAL mode.
package sqlite
