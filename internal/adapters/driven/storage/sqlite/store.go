package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/notesmith/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/notesmith/internal/core/domain"
	"github.com/custodia-labs/notesmith/internal/core/ports/driven"
)

// DatabaseFile is the audit database file name inside the data directory.
const DatabaseFile = "audit.db"

// Store is a SQLite-backed store for notesmith's persistent state.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.notesmith/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".notesmith", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL lets `audit list` read while an MCP server is recording.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// AuditStore returns an AuditStore interface backed by this store.
func (s *Store) AuditStore() driven.AuditStore {
	return &auditStore{store: s}
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	pending, err := migrations.Up(fsys)
	if err != nil {
		return err
	}

	for _, m := range pending {
		if m.Version <= currentVersion {
			continue
		}
		content, err := fs.ReadFile(fsys, m.Name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", m.Name, err)
		}
		if err := s.apply(m.Version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", m.Name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Audit Store ====================

// auditStore implements driven.AuditStore.
type auditStore struct {
	store *Store
}

var _ driven.AuditStore = (*auditStore)(nil)

// Record appends an audit entry.
func (s *auditStore) Record(ctx context.Context, entry domain.AuditEntry) error {
	slidesJSON, err := marshalSlides(entry.Slides)
	if err != nil {
		return err
	}
	skippedJSON, err := marshalSlides(entry.Skipped)
	if err != nil {
		return err
	}

	committedAt := entry.CommittedAt
	if committedAt.IsZero() {
		committedAt = time.Now()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO audit_entries (id, source_path, output_path, in_place, slides, skipped, committed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.SourcePath, entry.OutputPath, entry.InPlace, slidesJSON, skippedJSON,
		committedAt.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first. A limit <= 0 returns all entries.
func (s *auditStore) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded.
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_path, output_path, in_place, slides, skipped, committed_at
		FROM audit_entries
		ORDER BY committed_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.AuditEntry
		var slidesJSON, skippedJSON string
		var committedAt int64
		if err := rows.Scan(&entry.ID, &entry.SourcePath, &entry.OutputPath, &entry.InPlace,
			&slidesJSON, &skippedJSON, &committedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		if err := json.Unmarshal([]byte(slidesJSON), &entry.Slides); err != nil {
			return nil, fmt.Errorf("unmarshaling slides: %w", err)
		}
		if err := json.Unmarshal([]byte(skippedJSON), &entry.Skipped); err != nil {
			return nil, fmt.Errorf("unmarshaling skipped slides: %w", err)
		}
		entry.CommittedAt = time.Unix(0, committedAt).UTC()
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}

	return entries, nil
}

func marshalSlides(slides []int) (string, error) {
	if slides == nil {
		slides = []int{}
	}
	data, err := json.Marshal(slides)
	if err != nil {
		return "", fmt.Errorf("marshalling slides: %w", err)
	}
	return string(data), nil
}
