package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

const notificationColumns = "id, email, title, message, type, is_read, created_at"

func scanNotification(row scanner) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.Email, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt)
	return n, err
}

func notificationConditions(b sq.SelectBuilder, f models.NotificationFilter) sq.SelectBuilder {
	if f.UnreadOnly {
		b = b.Where(sq.Eq{"is_read": false})
	}
	if f.Type != "" {
		b = b.Where(sq.Eq{"type": f.Type})
	}
	return b
}

// CreateNotification сохраняет уведомление.
func (s *Storage) CreateNotification(ctx context.Context, n *models.Notification) (int64, error) {
	const op = "storage.CreateNotification"

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO notifications (email, title, message, type)
		VALUES ($1, $2, $3, $4) RETURNING id, is_read, created_at`,
		n.Email, n.Title, n.Message, n.Type).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return 0, wrap(op, err)
	}
	return n.ID, nil
}

// ListNotifications возвращает уведомления, новые первыми.
func (s *Storage) ListNotifications(ctx context.Context, f models.NotificationFilter) ([]models.Notification, int, error) {
	const op = "storage.ListNotifications"

	total, err := s.count(ctx, notificationConditions(psql.Select("COUNT(*)").From("notifications"), f))
	if err != nil {
		return nil, 0, wrap(op, err)
	}

	page := f.Page
	page.Desc = true
	b := paginate(notificationConditions(psql.Select(notificationColumns).From("notifications"), f),
		page, map[string]string{"created_at": "created_at"}, "created_at")
	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, wrap(op, err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrap(op, err)
	}
	return result, total, nil
}

// CountUnread возвращает число непрочитанных уведомлений.
func (s *Storage) CountUnread(ctx context.Context) (int, error) {
	const op = "storage.CountUnread"

	total, err := s.count(ctx, psql.Select("COUNT(*)").From("notifications").Where(sq.Eq{"is_read": false}))
	if err != nil {
		return 0, wrap(op, err)
	}
	return total, nil
}

// MarkNotificationRead отмечает уведомление прочитанным.
func (s *Storage) MarkNotificationRead(ctx context.Context, id int64) error {
	const op = "storage.MarkNotificationRead"

	res, err := s.q.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}

// MarkAllNotificationsRead отмечает все уведомления прочитанными и возвращает их число.
func (s *Storage) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	const op = "storage.MarkAllNotificationsRead"

	res, err := s.q.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE NOT is_read`)
	if err != nil {
		return 0, wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// DeleteNotification удаляет уведомление.
func (s *Storage) DeleteNotification(ctx context.Context, id int64) error {
	const op = "storage.DeleteNotification"

	res, err := s.q.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}
