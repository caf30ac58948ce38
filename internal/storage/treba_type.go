package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

const trebaTypeColumns = "id, name, description, base_price, currency, is_active"

func scanTrebaType(row scanner) (models.TrebaType, error) {
	var t models.TrebaType
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.BasePrice, &t.Currency, &t.IsActive)
	return t, err
}

// CreateTrebaType добавляет вид требы.
func (s *Storage) CreateTrebaType(ctx context.Context, t *models.TrebaType) (int64, error) {
	const op = "storage.CreateTrebaType"

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO treba_types (name, description, base_price, currency, is_active)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		t.Name, t.Description, t.BasePrice, t.Currency, t.IsActive).Scan(&t.ID)
	if err != nil {
		return 0, wrap(op, err)
	}
	return t.ID, nil
}

// GetTrebaType возвращает вид требы по id.
func (s *Storage) GetTrebaType(ctx context.Context, id int64) (models.TrebaType, error) {
	const op = "storage.GetTrebaType"

	t, err := scanTrebaType(s.q.QueryRowContext(ctx,
		`SELECT `+trebaTypeColumns+` FROM treba_types WHERE id = $1`, id))
	if err != nil {
		return models.TrebaType{}, wrap(op, err)
	}
	return t, nil
}

// GetActiveTrebaTypeByName ищет активный вид требы по имени без учета регистра.
func (s *Storage) GetActiveTrebaTypeByName(ctx context.Context, name string) (models.TrebaType, error) {
	const op = "storage.GetActiveTrebaTypeByName"

	t, err := scanTrebaType(s.q.QueryRowContext(ctx,
		`SELECT `+trebaTypeColumns+` FROM treba_types WHERE lower(name) = lower($1) AND is_active`, name))
	if err != nil {
		return models.TrebaType{}, wrap(op, err)
	}
	return t, nil
}

// ListTrebaTypes возвращает справочник; activeOnly оставляет только активные виды.
func (s *Storage) ListTrebaTypes(ctx context.Context, activeOnly bool) ([]models.TrebaType, error) {
	const op = "storage.ListTrebaTypes"

	b := psql.Select(trebaTypeColumns).From("treba_types").OrderBy("name")
	if activeOnly {
		b = b.Where("is_active")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.TrebaType, 0)
	for rows.Next() {
		t, err := scanTrebaType(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// UpdateTrebaType перезаписывает вид требы.
func (s *Storage) UpdateTrebaType(ctx context.Context, t *models.TrebaType) error {
	const op = "storage.UpdateTrebaType"

	res, err := s.q.ExecContext(ctx, `
		UPDATE treba_types SET name = $1, description = $2, base_price = $3, currency = $4, is_active = $5
		WHERE id = $6`,
		t.Name, t.Description, t.BasePrice, t.Currency, t.IsActive, t.ID)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}

// DeleteTrebaType удаляет вид требы.
func (s *Storage) DeleteTrebaType(ctx context.Context, id int64) error {
	const op = "storage.DeleteTrebaType"

	res, err := s.q.ExecContext(ctx, `DELETE FROM treba_types WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}
