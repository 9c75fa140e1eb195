package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mvp-joe/componentize/internal/extract"
	"github.com/mvp-joe/componentize/internal/render"
)

// ErrResourceNotFound indicates a lookup for an unknown resource id.
var ErrResourceNotFound = errors.New("resource not found")

// ResourceReader reads persisted extraction results.
type ResourceReader struct {
	db *sql.DB
}

// NewResourceReaderWithDB creates a reader over an existing connection.
func NewResourceReaderWithDB(db *sql.DB) *ResourceReader {
	return &ResourceReader{db: db}
}

var resourceColumns = []string{"resource_id", "name", "kind", "hash", "payload", "width", "height", "exported"}

// ReadResources loads every resource in output order with its nesting edges.
func (r *ResourceReader) ReadResources() ([]*extract.Resource, error) {
	rows, err := sq.Select(resourceColumns...).
		From("resources").
		OrderBy("position").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer rows.Close()

	var resources []*extract.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resources: %w", err)
	}

	nested, err := r.readNested()
	if err != nil {
		return nil, err
	}
	for _, res := range resources {
		res.Nested = nested[res.ID]
	}
	return resources, nil
}

// ReadResource loads one resource by id.
func (r *ResourceReader) ReadResource(id string) (*extract.Resource, error) {
	row := sq.Select(resourceColumns...).
		From("resources").
		Where(sq.Eq{"resource_id": id}).
		RunWith(r.db).
		QueryRow()

	res, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read resource %s: %w", id, err)
	}

	nested, err := r.readNested()
	if err != nil {
		return nil, err
	}
	res.Nested = nested[res.ID]
	return res, nil
}

// ReadOwners returns the ids of components that directly contain id.
func (r *ResourceReader) ReadOwners(id string) ([]string, error) {
	rows, err := sq.Select("owner_id").
		From("resource_deps").
		Where(sq.Eq{"nested_id": id}).
		OrderBy("owner_id").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query owners of %s: %w", id, err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

// ReadRenderJobs loads the pending render jobs.
func (r *ResourceReader) ReadRenderJobs() ([]render.Job, error) {
	rows, err := sq.Select("resource_id", "node_id", "source_id", "name", "suffix", "width", "height", "file_name").
		From("render_jobs").
		OrderBy("resource_id").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query render jobs: %w", err)
	}
	defer rows.Close()

	var jobs []render.Job
	for rows.Next() {
		var (
			job              render.Job
			sourceID, suffix sql.NullString
		)
		if err := rows.Scan(&job.ResourceID, &job.NodeID, &sourceID, &job.Name, &suffix, &job.Width, &job.Height, &job.FileName); err != nil {
			return nil, fmt.Errorf("failed to scan render job: %w", err)
		}
		job.SourceID = sourceID.String
		job.Suffix = suffix.String
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating render jobs: %w", err)
	}
	return jobs, nil
}

// ReadStats returns the statistics of the last stored run.
func (r *ResourceReader) ReadStats() (*extract.Stats, error) {
	var raw string
	err := sq.Select("value").
		From("metadata").
		Where(sq.Eq{"key": "stats"}).
		RunWith(r.db).
		QueryRow().
		Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return &extract.Stats{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}

	stats := &extract.Stats{}
	if err := json.Unmarshal([]byte(raw), stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}
	return stats, nil
}

func (r *ResourceReader) readNested() (map[string][]string, error) {
	rows, err := sq.Select("owner_id", "nested_id").
		From("resource_deps").
		OrderBy("owner_id", "position").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query resource deps: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var owner, nested string
		if err := rows.Scan(&owner, &nested); err != nil {
			return nil, fmt.Errorf("failed to scan resource dep: %w", err)
		}
		out[owner] = append(out[owner], nested)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResource(s scanner) (*extract.Resource, error) {
	var (
		res     extract.Resource
		kind    string
		hash    sql.NullString
		payload []byte
	)
	if err := s.Scan(&res.ID, &res.Name, &kind, &hash, &payload, &res.Width, &res.Height, &res.Exported); err != nil {
		return nil, err
	}
	res.Kind = extract.ResourceKind(kind)
	res.Hash = hash.String
	if len(payload) > 0 {
		res.Payload = json.RawMessage(payload)
	}
	return &res, nil
}
