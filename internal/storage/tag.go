package storage

import (
	"context"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// CreateTag добавляет метку.
func (s *Storage) CreateTag(ctx context.Context, t *models.Tag) (int64, error) {
	const op = "storage.CreateTag"

	err := s.q.QueryRowContext(ctx,
		`INSERT INTO tags (name, slug) VALUES ($1, $2) RETURNING id`, t.Name, t.Slug).Scan(&t.ID)
	if err != nil {
		return 0, wrap(op, err)
	}
	return t.ID, nil
}

// GetTag возвращает метку по id.
func (s *Storage) GetTag(ctx context.Context, id int64) (models.Tag, error) {
	const op = "storage.GetTag"

	var t models.Tag
	err := s.q.QueryRowContext(ctx, `SELECT id, name, slug FROM tags WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		return models.Tag{}, wrap(op, err)
	}
	return t, nil
}

// ListTags возвращает все метки по имени.
func (s *Storage) ListTags(ctx context.Context) ([]models.Tag, error) {
	const op = "storage.ListTags"

	rows, err := s.q.QueryContext(ctx, `SELECT id, name, slug FROM tags ORDER BY name`)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.Tag, 0)
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// UpdateTag перезаписывает метку.
func (s *Storage) UpdateTag(ctx context.Context, t *models.Tag) error {
	const op = "storage.UpdateTag"

	res, err := s.q.ExecContext(ctx, `UPDATE tags SET name = $1, slug = $2 WHERE id = $3`, t.Name, t.Slug, t.ID)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}

// DeleteTag удаляет метку.
func (s *Storage) DeleteTag(ctx context.Context, id int64) error {
	const op = "storage.DeleteTag"

	res, err := s.q.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}
