package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/componentize/internal/extract"
	"github.com/mvp-joe/componentize/internal/render"
)

// Open opens or creates a resource store at dbPath. Foreign keys are enabled
// and the schema is created on first use.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	version, err := GetSchemaVersion(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to check schema version: %w", err)
	}
	if version == "0" {
		if err := CreateSchema(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return db, nil
}

// ResourceWriter persists extraction results.
type ResourceWriter struct {
	db     *sql.DB
	ownsDB bool
}

// NewResourceWriter opens or creates the store at dbPath.
func NewResourceWriter(dbPath string) (*ResourceWriter, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &ResourceWriter{db: db, ownsDB: true}, nil
}

// NewResourceWriterWithDB writes through an existing connection. The caller
// owns the connection and its schema.
func NewResourceWriterWithDB(db *sql.DB) *ResourceWriter {
	return &ResourceWriter{db: db}
}

// WriteResult replaces the stored resources, their nesting edges and the
// render jobs with the given run. All writes happen in one transaction.
func (w *ResourceWriter) WriteResult(result *extract.Result, jobs []render.Job) error {
	stats, err := json.Marshal(result.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	for _, table := range []string{"resource_deps", "resources", "render_jobs"} {
		if _, err := sq.Delete(table).RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, res := range result.Resources {
		_, err := sq.Insert("resources").
			Columns("resource_id", "name", "kind", "hash", "payload", "width", "height", "exported", "position").
			Values(res.ID, res.Name, string(res.Kind), nullableString(res.Hash), nullableBytes(res.Payload), res.Width, res.Height, res.Exported, i).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert resource %s: %w", res.ID, err)
		}
	}

	for _, res := range result.Resources {
		for i, nested := range res.Nested {
			_, err := sq.Insert("resource_deps").
				Columns("owner_id", "nested_id", "position").
				Values(res.ID, nested, i).
				RunWith(tx).
				Exec()
			if err != nil {
				return fmt.Errorf("failed to link %s -> %s: %w", res.ID, nested, err)
			}
		}
	}

	for _, job := range jobs {
		_, err := sq.Insert("render_jobs").
			Columns("resource_id", "node_id", "source_id", "name", "suffix", "width", "height", "file_name").
			Values(job.ResourceID, job.NodeID, nullableString(job.SourceID), job.Name, nullableString(job.Suffix), job.Width, job.Height, job.FileName).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to insert render job %s: %w", job.ResourceID, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for key, value := range map[string]string{"last_extracted": now, "stats": string(stats)} {
		_, err := sq.Insert("metadata").
			Columns("key", "value", "updated_at").
			Values(key, value, now).
			Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to update metadata %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the connection when the writer opened it.
func (w *ResourceWriter) Close() error {
	if !w.ownsDB {
		return nil
	}
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return []byte(b)
}
