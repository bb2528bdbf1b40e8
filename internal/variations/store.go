package variations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/auto-site/internal/db"
	"github.com/ziadkadry99/auto-site/internal/templating"
)

// ErrNotFound is returned when a template does not exist.
var ErrNotFound = errors.New("template not found")

// Store persists page templates.
type Store struct {
	db *db.DB
}

// NewStore creates a new template store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Create inserts a new template.
func (s *Store) Create(ctx context.Context, t *PageTemplate) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	tags, rows, err := encode(t)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO page_templates (id, project_id, name, source_file_path, tags, output_pattern, output_folder, variations, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Name, t.SourceFilePath, tags, t.OutputPattern, t.OutputFolder, rows, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating template: %w", err)
	}
	return nil
}

// Get retrieves a template of a project by ID.
func (s *Store) Get(ctx context.Context, projectID, id string) (*PageTemplate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, name, source_file_path, tags, output_pattern, output_folder, variations, created_at, updated_at
		 FROM page_templates WHERE project_id = ? AND id = ?`, projectID, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting template: %w", err)
	}
	return t, nil
}

// List returns the templates of a project ordered by name.
func (s *Store) List(ctx context.Context, projectID string) ([]PageTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, name, source_file_path, tags, output_pattern, output_folder, variations, created_at, updated_at
		 FROM page_templates WHERE project_id = ? ORDER BY name, created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var result []PageTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

// Update saves every mutable field of t.
func (s *Store) Update(ctx context.Context, t *PageTemplate) error {
	t.UpdatedAt = time.Now().UTC()
	tags, rows, err := encode(t)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE page_templates SET name = ?, source_file_path = ?, tags = ?, output_pattern = ?, output_folder = ?, variations = ?, updated_at = ?
		 WHERE project_id = ? AND id = ?`,
		t.Name, t.SourceFilePath, tags, t.OutputPattern, t.OutputFolder, rows, t.UpdatedAt, t.ProjectID, t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a template. Pages it generated stay in the project.
func (s *Store) Delete(ctx context.Context, projectID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM page_templates WHERE project_id = ? AND id = ?`, projectID, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(sc scanner) (*PageTemplate, error) {
	var (
		t          PageTemplate
		tags, rows string
	)
	if err := sc.Scan(&t.ID, &t.ProjectID, &t.Name, &t.SourceFilePath, &tags, &t.OutputPattern, &t.OutputFolder, &rows, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	if err := json.Unmarshal([]byte(rows), &t.Variations); err != nil {
		return nil, fmt.Errorf("decoding variations: %w", err)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Variations == nil {
		t.Variations = []templating.Variation{}
	}
	return &t, nil
}

func encode(t *PageTemplate) (tags, rows string, err error) {
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Variations == nil {
		t.Variations = []templating.Variation{}
	}
	tb, err := json.Marshal(t.Tags)
	if err != nil {
		return "", "", fmt.Errorf("encoding tags: %w", err)
	}
	rb, err := json.Marshal(t.Variations)
	if err != nil {
		return "", "", fmt.Errorf("encoding variations: %w", err)
	}
	return string(tb), string(rb), nil
}
