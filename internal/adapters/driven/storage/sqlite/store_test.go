package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesmith/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewStore(dataDir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dataDir, DatabaseFile), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_RecordsMigrations(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	var name string
	err := store.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='audit_entries'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "audit_entries", name)
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dataDir := t.TempDir()

	first, err := NewStore(dataDir)
	require.NoError(t, err)
	require.NoError(t, first.AuditStore().Record(context.Background(), domain.AuditEntry{
		ID: "keep", SourcePath: "/a.pptx", OutputPath: "/a.pptx",
	}))
	require.NoError(t, first.Close())

	second, err := NewStore(dataDir)
	require.NoError(t, err)
	defer second.Close()

	entries, err := second.AuditStore().List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep", entries[0].ID)
}

func TestMigrate_IgnoresUnversionedFiles(t *testing.T) {
	store := setupTestStore(t)

	fsys := fstest.MapFS{
		"002_extra.up.sql":   {Data: []byte("CREATE TABLE extra (id INTEGER);")},
		"002_extra.down.sql": {Data: []byte("DROP TABLE extra;")},
		"readme.up.sql":      {Data: []byte("not sql at all")},
	}
	require.NoError(t, store.migrate(fsys))

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 2, version)
}

func TestMigrate_FailureRollsBack(t *testing.T) {
	store := setupTestStore(t)

	fsys := fstest.MapFS{
		"003_broken.up.sql": {Data: []byte("CREATE TABLE ok (id INTEGER); THIS IS NOT SQL;")},
	}
	require.Error(t, store.migrate(fsys))

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestAuditStore_RecordAndList(t *testing.T) {
	store := setupTestStore(t)
	audit := store.AuditStore()
	ctx := context.Background()

	committed := time.Date(2024, 5, 1, 12, 30, 0, 123, time.UTC)
	entry := domain.AuditEntry{
		ID:          "entry-1",
		SourcePath:  "/decks/q1.pptx",
		OutputPath:  "/decks/q1.notes.pptx",
		InPlace:     false,
		Slides:      []int{1, 3},
		Skipped:     []int{2},
		CommittedAt: committed,
	}
	require.NoError(t, audit.Record(ctx, entry))

	entries, err := audit.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])
}

func TestAuditStore_ListOrderAndLimit(t *testing.T) {
	store := setupTestStore(t)
	audit := store.AuditStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, audit.Record(ctx, domain.AuditEntry{
			ID:          id,
			SourcePath:  "/deck.pptx",
			OutputPath:  "/deck.pptx",
			InPlace:     true,
			CommittedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := audit.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "old", all[2].ID)
	assert.True(t, all[0].InPlace)
	assert.Empty(t, all[0].Slides)

	limited, err := audit.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, []string{"new", "mid"}, []string{limited[0].ID, limited[1].ID})
}

func TestAuditStore_DuplicateID(t *testing.T) {
	store := setupTestStore(t)
	audit := store.AuditStore()
	ctx := context.Background()

	entry := domain.AuditEntry{ID: "dup", SourcePath: "/a.pptx", OutputPath: "/a.pptx"}
	require.NoError(t, audit.Record(ctx, entry))
	assert.Error(t, audit.Record(ctx, entry))
}

func TestAuditStore_DefaultsCommittedAt(t *testing.T) {
	store := setupTestStore(t)
	audit := store.AuditStore()
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	require.NoError(t, audit.Record(ctx, domain.AuditEntry{ID: "now", SourcePath: "/a", OutputPath: "/a"}))

	entries, err := audit.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].CommittedAt.After(before))
}
