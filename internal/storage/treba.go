package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

const trebaColumns = "t.id, t.type, t.period, t.custom_date, t.price, t.currency, t.status, " +
	"t.requester_name, t.requester_email, t.note, p.id, t.created_at, t.updated_at"

var trebaSortable = map[string]string{
	"id":         "t.id",
	"created_at": "t.created_at",
	"updated_at": "t.updated_at",
	"price":      "t.price",
	"status":     "t.status",
	"type":       "t.type",
}

func scanTreba(row scanner) (models.Treba, error) {
	var (
		t          models.Treba
		customDate sql.NullTime
		paymentID  sql.NullInt64
	)
	err := row.Scan(&t.ID, &t.Type, &t.Period, &customDate, &t.Price, &t.Currency, &t.Status,
		&t.RequesterName, &t.RequesterEmail, &t.Note, &paymentID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Treba{}, err
	}
	t.CustomDate = timePtr(customDate)
	t.PaymentID = intPtr(paymentID)
	return t, nil
}

func selectTreby() sq.SelectBuilder {
	return psql.Select(trebaColumns).
		From("treby t").
		LeftJoin("payments p ON p.treba_id = t.id")
}

// CreateTreba сохраняет заявку и заполняет id и временные метки.
func (s *Storage) CreateTreba(ctx context.Context, t *models.Treba) (int64, error) {
	const op = "storage.CreateTreba"

	query, args, err := psql.Insert("treby").
		Columns("type", "period", "custom_date", "price", "currency", "status",
			"requester_name", "requester_email", "note").
		Values(t.Type, string(t.Period), nullTime(t.CustomDate), t.Price, t.Currency, string(t.Status),
			t.RequesterName, t.RequesterEmail, t.Note).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err = s.q.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return 0, wrap(op, err)
	}
	return t.ID, nil
}

// InsertNames вставляет имена одним запросом.
func (s *Storage) InsertNames(ctx context.Context, trebaID int64, names []models.TrebaName) error {
	const op = "storage.InsertNames"

	if len(names) == 0 {
		return nil
	}
	b := psql.Insert("treba_names").
		Columns("treba_id", "name", "type", "is_valid", "validation_error", "church_form")
	for _, n := range names {
		b = b.Values(trebaID, n.Name, n.Type, n.IsValid, n.ValidationError, n.ChurchForm)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = s.q.ExecContext(ctx, query, args...); err != nil {
		return wrap(op, err)
	}
	return nil
}

// ReplaceNames удаляет прежний список имен требы и вставляет новый.
func (s *Storage) ReplaceNames(ctx context.Context, trebaID int64, names []models.TrebaName) error {
	const op = "storage.ReplaceNames"

	if _, err := s.q.ExecContext(ctx, `DELETE FROM treba_names WHERE treba_id = $1`, trebaID); err != nil {
		return wrap(op, err)
	}
	if err := s.InsertNames(ctx, trebaID, names); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListNames возвращает имена требы в порядке подачи.
func (s *Storage) ListNames(ctx context.Context, trebaID int64) ([]models.TrebaName, error) {
	const op = "storage.ListNames"

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, treba_id, name, type, is_valid, validation_error, church_form
		FROM treba_names WHERE treba_id = $1 ORDER BY id`, trebaID)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.TrebaName, 0)
	for rows.Next() {
		var n models.TrebaName
		if err := rows.Scan(&n.ID, &n.TrebaID, &n.Name, &n.Type, &n.IsValid, &n.ValidationError, &n.ChurchForm); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// AppendHistory добавляет запись в журнал статусов. Метка времени не меньше
// последней записи этой требы, поэтому журнал упорядочен даже при сдвиге часов.
func (s *Storage) AppendHistory(ctx context.Context, trebaID int64, status models.TrebaStatus, comment string) (models.StatusHistoryEntry, error) {
	const op = "storage.AppendHistory"

	e := models.StatusHistoryEntry{TrebaID: trebaID, Status: status, Comment: comment}
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO treba_status_history (treba_id, status, comment, created_at)
		VALUES ($1, $2, $3, GREATEST(now(), COALESCE(
			(SELECT max(created_at) FROM treba_status_history WHERE treba_id = $1), now())))
		RETURNING id, created_at`,
		trebaID, string(status), comment).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return models.StatusHistoryEntry{}, wrap(op, err)
	}
	return e, nil
}

// ListHistory возвращает журнал статусов по времени, при равенстве, по id.
func (s *Storage) ListHistory(ctx context.Context, trebaID int64) ([]models.StatusHistoryEntry, error) {
	const op = "storage.ListHistory"

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, treba_id, status, comment, created_at
		FROM treba_status_history WHERE treba_id = $1
		ORDER BY created_at, id`, trebaID)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.StatusHistoryEntry, 0)
	for rows.Next() {
		var e models.StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.TrebaID, &e.Status, &e.Comment, &e.CreatedAt); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// GetTreba возвращает требу без имен и журнала.
func (s *Storage) GetTreba(ctx context.Context, id int64) (models.Treba, error) {
	const op = "storage.GetTreba"
	return s.getTreba(ctx, op, selectTreby().Where(sq.Eq{"t.id": id}))
}

// GetTrebaForUpdate читает требу с блокировкой строки до конца транзакции.
func (s *Storage) GetTrebaForUpdate(ctx context.Context, id int64) (models.Treba, error) {
	const op = "storage.GetTrebaForUpdate"
	return s.getTreba(ctx, op, selectTreby().Where(sq.Eq{"t.id": id}).Suffix("FOR UPDATE OF t"))
}

func (s *Storage) getTreba(ctx context.Context, op string, b sq.SelectBuilder) (models.Treba, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return models.Treba{}, fmt.Errorf("%s: %w", op, err)
	}
	t, err := scanTreba(s.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.Treba{}, wrap(op, err)
	}
	return t, nil
}

func trebaConditions(b sq.SelectBuilder, f models.TrebaFilter) sq.SelectBuilder {
	if f.Status != nil {
		b = b.Where(sq.Eq{"t.status": string(*f.Status)})
	}
	if f.Type != "" {
		b = b.Where("lower(t.type) = ?", strings.ToLower(f.Type))
	}
	if f.Period != "" {
		b = b.Where(sq.Eq{"t.period": f.Period})
	}
	if f.Email != "" {
		b = b.Where("lower(t.requester_email) = ?", strings.ToLower(f.Email))
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"t.created_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.Lt{"t.created_at": *f.To})
	}
	return b
}

// ListTreby возвращает страницу треб по фильтру и общее количество.
func (s *Storage) ListTreby(ctx context.Context, f models.TrebaFilter) ([]models.Treba, int, error) {
	const op = "storage.ListTreby"

	total, err := s.count(ctx, trebaConditions(psql.Select("COUNT(*)").From("treby t"), f))
	if err != nil {
		return nil, 0, wrap(op, err)
	}

	b := paginate(trebaConditions(selectTreby(), f), f.Page, trebaSortable, "t.created_at")
	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.Treba, 0)
	for rows.Next() {
		t, err := scanTreba(rows)
		if err != nil {
			return nil, 0, wrap(op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrap(op, err)
	}
	return result, total, nil
}

// UpdateTreba сохраняет изменяемые поля требы, включая пересчитанную цену.
func (s *Storage) UpdateTreba(ctx context.Context, t *models.Treba) error {
	const op = "storage.UpdateTreba"

	err := s.q.QueryRowContext(ctx, `
		UPDATE treby SET type = $1, period = $2, custom_date = $3, price = $4, currency = $5,
			requester_name = $6, requester_email = $7, note = $8, updated_at = now()
		WHERE id = $9
		RETURNING updated_at`,
		t.Type, string(t.Period), nullTime(t.CustomDate), t.Price, t.Currency,
		t.RequesterName, t.RequesterEmail, t.Note, t.ID).Scan(&t.UpdatedAt)
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// UpdateTrebaStatus меняет только статус требы.
func (s *Storage) UpdateTrebaStatus(ctx context.Context, id int64, status models.TrebaStatus) error {
	const op = "storage.UpdateTrebaStatus"

	res, err := s.q.ExecContext(ctx,
		`UPDATE treby SET status = $1, updated_at = now() WHERE id = $2`, string(status), id)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}

// DeleteTreba физически удаляет требу вместе с именами, журналом и платежом.
func (s *Storage) DeleteTreba(ctx context.Context, id int64) error {
	const op = "storage.DeleteTreba"

	res, err := s.q.ExecContext(ctx, `DELETE FROM treby WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}
