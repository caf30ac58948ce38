package storage

import (
	"context"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// CreateCategory добавляет рубрику.
func (s *Storage) CreateCategory(ctx context.Context, c *models.Category) (int64, error) {
	const op = "storage.CreateCategory"

	err := s.q.QueryRowContext(ctx,
		`INSERT INTO categories (name, slug, description) VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.Slug, c.Description).Scan(&c.ID)
	if err != nil {
		return 0, wrap(op, err)
	}
	return c.ID, nil
}

// GetCategory возвращает рубрику по id.
func (s *Storage) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	const op = "storage.GetCategory"

	var c models.Category
	err := s.q.QueryRowContext(ctx,
		`SELECT id, name, slug, description FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description)
	if err != nil {
		return models.Category{}, wrap(op, err)
	}
	return c, nil
}

// ListCategories возвращает все рубрики по имени.
func (s *Storage) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "storage.ListCategories"

	rows, err := s.q.QueryContext(ctx, `SELECT id, name, slug, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// UpdateCategory перезаписывает рубрику.
func (s *Storage) UpdateCategory(ctx context.Context, c *models.Category) error {
	const op = "storage.UpdateCategory"

	res, err := s.q.ExecContext(ctx,
		`UPDATE categories SET name = $1, slug = $2, description = $3 WHERE id = $4`,
		c.Name, c.Slug, c.Description, c.ID)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}

// DeleteCategory удаляет рубрику; у публикаций ссылка сбрасывается.
func (s *Storage) DeleteCategory(ctx context.Context, id int64) error {
	const op = "storage.DeleteCategory"

	res, err := s.q.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}
