package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// periodEnd — момент окончания срока поминовения. Для нестандартных сроков NULL.
const periodEnd = `CASE t.period
	WHEN 'one-time' THEN t.created_at + interval '1 day'
	WHEN 'week'     THEN t.created_at + interval '7 days'
	WHEN 'month'    THEN t.created_at + interval '1 month'
	WHEN '40-days'  THEN t.created_at + interval '40 days'
	WHEN 'custom'   THEN t.custom_date::timestamptz
END`

// ListTrebyPeriodEnded возвращает оплаченные требы, срок которых истек к now
// и о которых еще не напоминали. Не больше limit записей, старые первыми.
func (s *Storage) ListTrebyPeriodEnded(ctx context.Context, now time.Time, limit int) ([]models.Treba, error) {
	const op = "storage.ListTrebyPeriodEnded"

	query, args, err := selectTreby().
		Where(sq.Eq{"t.status": models.TrebaStatusPaid}).
		Where("t.period_reminded_at IS NULL").
		Where(periodEnd+" <= ?", now).
		OrderBy("t.created_at", "t.id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.Treba, 0)
	for rows.Next() {
		t, err := scanTreba(rows)
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

// MarkPeriodReminded отмечает, что напоминание об окончании срока отправлено.
func (s *Storage) MarkPeriodReminded(ctx context.Context, id int64) error {
	const op = "storage.MarkPeriodReminded"

	res, err := s.q.ExecContext(ctx, `UPDATE treby SET period_reminded_at = now() WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}
