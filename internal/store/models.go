package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/tally/internal/modeldoc"
)

// ErrModelNotFound is returned by LoadModel and DeleteModel for names
// with no stored document.
var ErrModelNotFound = errors.New("store: model not found")

// ModelInfo describes one stored model without its document body.
type ModelInfo struct {
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveModel upserts a named model document. The first save stamps
// created_at; later saves only move updated_at.
func (s *Store) SaveModel(ctx context.Context, name string, doc *modeldoc.Document) error {
	if name == "" {
		return fmt.Errorf("store: model name is required")
	}
	body, err := doc.MarshalJSONBytes()
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO models (name, document, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at
	`, name, string(body), now, now)
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

// LoadModel reads a named model document.
func (s *Store) LoadModel(ctx context.Context, name string) (*modeldoc.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM models WHERE name = ?`, name,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	doc, err := modeldoc.DecodeJSON(bytes.NewReader([]byte(body)))
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", name, err)
	}
	return doc, nil
}

// ListModels returns stored models ordered by name.
func (s *Store) ListModels(ctx context.Context) ([]ModelInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, created_at, updated_at
		FROM models
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []ModelInfo
	for rows.Next() {
		var info ModelInfo
		var created, updated string
		if err := rows.Scan(&info.Name, &created, &updated); err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339, created)
		info.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return out, nil
}

// DeleteModel removes a named model.
func (s *Store) DeleteModel(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM models WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	return nil
}
