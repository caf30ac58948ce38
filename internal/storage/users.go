package storage

import (
	"context"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

const userColumns = "uid, email, username, password_hash, role, created_at"

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

// RegisterUser сохраняет пользователя и возвращает его uid.
func (s *Storage) RegisterUser(ctx context.Context, u *models.User) (string, error) {
	const op = "storage.RegisterUser"

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO users (uid, email, username, password_hash, role)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		u.UUID, u.Email, u.Username, u.PasswordHash, u.Role).Scan(&u.CreatedAt)
	if err != nil {
		return "", wrap(op, err)
	}
	return u.UUID, nil
}

// GetUserByUsername возвращает пользователя по имени.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	const op = "storage.GetUserByUsername"

	u, err := scanUser(s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return models.User{}, wrap(op, err)
	}
	return u, nil
}

// GetUserByUID возвращает пользователя по uid.
func (s *Storage) GetUserByUID(ctx context.Context, uid string) (models.User, error) {
	const op = "storage.GetUserByUID"

	u, err := scanUser(s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid))
	if err != nil {
		return models.User{}, wrap(op, err)
	}
	return u, nil
}

// ListUsers возвращает страницу пользователей.
func (s *Storage) ListUsers(ctx context.Context, page models.Page) ([]models.User, int, error) {
	const op = "storage.ListUsers"

	total, err := s.count(ctx, psql.Select("COUNT(*)").From("users"))
	if err != nil {
		return nil, 0, wrap(op, err)
	}

	rows, err := s.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, username LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset)
	if err != nil {
		return nil, 0, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, wrap(op, err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrap(op, err)
	}
	return result, total, nil
}

// UpdateUserRole меняет роль пользователя.
func (s *Storage) UpdateUserRole(ctx context.Context, uid, role string) error {
	const op = "storage.UpdateUserRole"

	res, err := s.q.ExecContext(ctx, `UPDATE users SET role = $1 WHERE uid = $2`, role, uid)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}

// DeleteUser удаляет пользователя.
func (s *Storage) DeleteUser(ctx context.Context, uid string) error {
	const op = "storage.DeleteUser"

	res, err := s.q.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}
