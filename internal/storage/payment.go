package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

const paymentColumns = "id, treba_id, amount, currency, status, method, external_id, created_at, confirmed_at"

var paymentSortable = map[string]string{
	"id":         "id",
	"created_at": "created_at",
	"amount":     "amount",
	"status":     "status",
}

func scanPayment(row scanner) (models.Payment, error) {
	var (
		p           models.Payment
		externalID  sql.NullString
		confirmedAt sql.NullTime
	)
	err := row.Scan(&p.ID, &p.TrebaID, &p.Amount, &p.Currency, &p.Status, &p.Method,
		&externalID, &p.CreatedAt, &confirmedAt)
	if err != nil {
		return models.Payment{}, err
	}
	p.ExternalID = externalID.String
	p.ConfirmedAt = timePtr(confirmedAt)
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreatePayment сохраняет платеж. Второй платеж по той же требе дает ErrAlreadyExists.
func (s *Storage) CreatePayment(ctx context.Context, p *models.Payment) (int64, error) {
	const op = "storage.CreatePayment"

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO payments (treba_id, amount, currency, status, method, external_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		p.TrebaID, p.Amount, p.Currency, string(p.Status), p.Method, nullString(p.ExternalID)).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return 0, wrap(op, err)
	}
	return p.ID, nil
}

// GetPayment возвращает платеж по id.
func (s *Storage) GetPayment(ctx context.Context, id int64) (models.Payment, error) {
	const op = "storage.GetPayment"
	return s.getPayment(ctx, op, psql.Select(paymentColumns).From("payments").Where(sq.Eq{"id": id}))
}

// GetPaymentForUpdate читает платеж с блокировкой строки.
func (s *Storage) GetPaymentForUpdate(ctx context.Context, id int64) (models.Payment, error) {
	const op = "storage.GetPaymentForUpdate"
	return s.getPayment(ctx, op,
		psql.Select(paymentColumns).From("payments").Where(sq.Eq{"id": id}).Suffix("FOR UPDATE"))
}

// GetPaymentByExternalIDForUpdate ищет платеж по идентификатору провайдера с блокировкой.
func (s *Storage) GetPaymentByExternalIDForUpdate(ctx context.Context, externalID string) (models.Payment, error) {
	const op = "storage.GetPaymentByExternalIDForUpdate"
	return s.getPayment(ctx, op,
		psql.Select(paymentColumns).From("payments").Where(sq.Eq{"external_id": externalID}).Suffix("FOR UPDATE"))
}

// GetPaymentByTreba возвращает платеж требы.
func (s *Storage) GetPaymentByTreba(ctx context.Context, trebaID int64) (models.Payment, error) {
	const op = "storage.GetPaymentByTreba"
	return s.getPayment(ctx, op, psql.Select(paymentColumns).From("payments").Where(sq.Eq{"treba_id": trebaID}))
}

func (s *Storage) getPayment(ctx context.Context, op string, b sq.SelectBuilder) (models.Payment, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return models.Payment{}, fmt.Errorf("%s: %w", op, err)
	}
	p, err := scanPayment(s.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.Payment{}, wrap(op, err)
	}
	return p, nil
}

func paymentConditions(b sq.SelectBuilder, f models.PaymentFilter) sq.SelectBuilder {
	if f.Status != nil {
		b = b.Where(sq.Eq{"status": string(*f.Status)})
	}
	if f.TrebaID > 0 {
		b = b.Where(sq.Eq{"treba_id": f.TrebaID})
	}
	return b
}

// ListPayments возвращает страницу платежей.
func (s *Storage) ListPayments(ctx context.Context, f models.PaymentFilter) ([]models.Payment, int, error) {
	const op = "storage.ListPayments"

	total, err := s.count(ctx, paymentConditions(psql.Select("COUNT(*)").From("payments"), f))
	if err != nil {
		return nil, 0, wrap(op, err)
	}

	b := paginate(paymentConditions(psql.Select(paymentColumns).From("payments"), f),
		f.Page, paymentSortable, "created_at")
	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, wrap(op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrap(op, err)
	}
	return result, total, nil
}

// UpdatePaymentStatus меняет статус платежа и время подтверждения.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus, confirmedAt *time.Time) error {
	const op = "storage.UpdatePaymentStatus"

	res, err := s.q.ExecContext(ctx,
		`UPDATE payments SET status = $1, confirmed_at = $2 WHERE id = $3`,
		string(status), nullTime(confirmedAt), id)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}
