package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/auto-site/internal/db"
)

// ErrNotFound is returned when a project or file does not exist.
var ErrNotFound = errors.New("not found")

// Store provides CRUD operations for projects and their files. Every
// method is atomic on its own; nothing spans calls.
type Store struct {
	db *db.DB
}

// NewStore creates a new project store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// CreateProject inserts a new project.
func (s *Store) CreateProject(ctx context.Context, p *Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	return nil
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(ctx context.Context, id string) (*Project, error) {
	p := &Project{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return p, nil
}

// ListProjects returns all projects, most recently updated first.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM projects ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var result []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// DeleteProject removes a project together with its files and templates.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListFiles returns every file of a project ordered by path.
func (s *Store) ListFiles(ctx context.Context, projectID string) ([]File, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, name, kind, content, updated_at FROM project_files WHERE project_id = ? ORDER BY path`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()

	var result []File
	for rows.Next() {
		var f File
		var kind string
		if err := rows.Scan(&f.Path, &f.Name, &kind, &f.Content, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		f.Kind = FileKind(kind)
		result = append(result, f)
	}
	return result, rows.Err()
}

// GetFile retrieves a single file by its path.
func (s *Store) GetFile(ctx context.Context, projectID, path string) (*File, error) {
	f := &File{}
	var kind string
	err := s.db.QueryRowContext(ctx,
		`SELECT path, name, kind, content, updated_at FROM project_files WHERE project_id = ? AND path = ?`,
		projectID, path,
	).Scan(&f.Path, &f.Name, &kind, &f.Content, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("file %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting file: %w", err)
	}
	f.Kind = FileKind(kind)
	return f, nil
}

// UpsertFile inserts the file at path or overwrites it when it already
// exists, keyed by (project, path).
func (s *Store) UpsertFile(ctx context.Context, projectID, path string, fields FileFields) error {
	return upsert(ctx, s.db, projectID, NewFile(path, fields))
}

// DeleteFile removes one file.
func (s *Store) DeleteFile(ctx context.Context, projectID, path string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM project_files WHERE project_id = ? AND path = ?`, projectID, path)
	if err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("file %s: %w", path, ErrNotFound)
	}
	return nil
}

// DeleteAllFiles removes every file of a project.
func (s *Store) DeleteAllFiles(ctx context.Context, projectID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM project_files WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("deleting files: %w", err)
	}
	return nil
}

// ReplaceFiles deletes the whole file set of a project and inserts files in
// its place. Used by regeneration.
func (s *Store) ReplaceFiles(ctx context.Context, projectID string, files []File) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_files WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("deleting files: %w", err)
	}
	for _, f := range files {
		f.Normalize()
		if err := upsert(ctx, tx, projectID, f); err != nil {
			return err
		}
	}
	if err := touch(ctx, tx, projectID); err != nil {
		return err
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, ex execer, projectID string, f File) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO project_files (project_id, path, name, kind, content, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(project_id, path) DO UPDATE SET
		   name = excluded.name, kind = excluded.kind, content = excluded.content, updated_at = excluded.updated_at`,
		projectID, f.Path, f.Name, string(f.Kind), f.Content, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting file %s: %w", f.Path, err)
	}
	return nil
}

func touch(ctx context.Context, ex execer, projectID string) error {
	if _, err := ex.ExecContext(ctx, `UPDATE projects SET updated_at = ? WHERE id = ?`, time.Now().UTC(), projectID); err != nil {
		return fmt.Errorf("touching project: %w", err)
	}
	return nil
}
