package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SchemaVersion is written to the metadata table on creation.
const SchemaVersion = "1.0"

// CreateSchema creates every table and index of the resource store inside one
// transaction and bootstraps the metadata rows.
//
// Must be called with SQLite PRAGMA foreign_keys = ON.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"resources", createResourcesTable},
		{"resource_deps", createResourceDepsTable},
		{"render_jobs", createRenderJobsTable},
		{"metadata", createMetadataTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`
		INSERT INTO metadata (key, value, updated_at) VALUES
			('schema_version', ?, ?),
			('last_extracted', '', ?)
	`, SchemaVersion, now, now); err != nil {
		return fmt.Errorf("failed to bootstrap metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}

// GetSchemaVersion returns the stored schema version, or "0" for a database
// without the metadata table.
func GetSchemaVersion(db *sql.DB) (string, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='metadata'").Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to check metadata existence: %w", err)
	}
	if count == 0 {
		return "0", nil
	}

	var version string
	err = db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("schema_version key not found in metadata")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}

const createResourcesTable = `
CREATE TABLE resources (
    resource_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,              -- component or image
    hash TEXT,                       -- structural hash of the canonical subtree
    payload BLOB,                    -- JSON snapshot of the canonical subtree
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    exported INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL        -- output order, nested components first
)
`

// nested_id has no foreign key: a dropped component may still be referenced.
const createResourceDepsTable = `
CREATE TABLE resource_deps (
    owner_id TEXT NOT NULL REFERENCES resources(resource_id) ON DELETE CASCADE,
    nested_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (owner_id, nested_id)
)
`

const createRenderJobsTable = `
CREATE TABLE render_jobs (
    resource_id TEXT PRIMARY KEY,
    node_id TEXT NOT NULL,
    source_id TEXT,
    name TEXT NOT NULL,
    suffix TEXT,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    file_name TEXT NOT NULL
)
`

const createMetadataTable = `
CREATE TABLE metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
)
`

var indexes = []string{
	"CREATE INDEX idx_resources_kind ON resources(kind)",
	"CREATE INDEX idx_resources_hash ON resources(hash)",
	"CREATE INDEX idx_resource_deps_nested ON resource_deps(nested_id)",
}
