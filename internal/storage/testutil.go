package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory resource store with foreign keys enabled and
// the full schema created. Cleanup is registered with t.Cleanup().
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Each pooled connection would get its own in-memory database
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	require.NoError(t, CreateSchema(db))
	return db
}

// NewTestDBPath returns a database path inside t.TempDir() for tests that
// reopen the store.
func NewTestDBPath(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "resources.db")
}
