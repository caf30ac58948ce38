package storage

import (
	"context"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

const mediaColumns = "id, file_name, original_name, mime_type, size, url, storage, created_at"

func scanMedia(row scanner) (models.Media, error) {
	var m models.Media
	err := row.Scan(&m.ID, &m.FileName, &m.OriginalName, &m.MimeType, &m.Size, &m.URL, &m.Storage, &m.CreatedAt)
	return m, err
}

// CreateMedia сохраняет метаданные файла.
func (s *Storage) CreateMedia(ctx context.Context, m *models.Media) (int64, error) {
	const op = "storage.CreateMedia"

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO media (file_name, original_name, mime_type, size, url, storage)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		m.FileName, m.OriginalName, m.MimeType, m.Size, m.URL, m.Storage).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return 0, wrap(op, err)
	}
	return m.ID, nil
}

// GetMedia возвращает файл по id.
func (s *Storage) GetMedia(ctx context.Context, id int64) (models.Media, error) {
	const op = "storage.GetMedia"

	m, err := scanMedia(s.q.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
	if err != nil {
		return models.Media{}, wrap(op, err)
	}
	return m, nil
}

// ListMedia возвращает страницу файлов, новые первыми.
func (s *Storage) ListMedia(ctx context.Context, page models.Page) ([]models.Media, int, error) {
	const op = "storage.ListMedia"

	total, err := s.count(ctx, psql.Select("COUNT(*)").From("media"))
	if err != nil {
		return nil, 0, wrap(op, err)
	}

	rows, err := s.q.QueryContext(ctx,
		`SELECT `+mediaColumns+` FROM media ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset)
	if err != nil {
		return nil, 0, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.Media, 0)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, 0, wrap(op, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrap(op, err)
	}
	return result, total, nil
}

// DeleteMedia удаляет метаданные файла.
func (s *Storage) DeleteMedia(ctx context.Context, id int64) error {
	const op = "storage.DeleteMedia"

	res, err := s.q.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}
