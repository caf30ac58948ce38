// Package storage реализует хранилище данных на основе PostgreSQL: требы с именами и
// журналом статусов, виды треб, платежи, уведомления, календарь, контент, медиа и пользователей.
// Операции, которые должны выполняться атомарно, запускаются через InTx.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

var (
	// ErrNotFound означает, что запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists означает нарушение ограничения уникальности.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrReference означает ссылку на несуществующую запись или удаление используемой записи.
	ErrReference = errors.New("referenced record violation")
	// ErrConstraint означает нарушение CHECK-ограничения или NOT NULL.
	ErrConstraint = errors.New("constraint violation")
)

// DBTX описывает общий интерфейс *sql.DB и *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Storage инкапсулирует соединение с PostgreSQL. Внутри InTx методы выполняются
// в рамках транзакции.
type Storage struct {
	DB *sql.DB
	q  DBTX
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// New открывает пул соединений и проверяет доступность базы.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return NewWithDB(db), nil
}

// NewWithDB оборачивает уже открытое соединение.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{DB: db, q: db}
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// Ping проверяет соединение с базой.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// InTx выполняет fn в транзакции. Хранилище, переданное в fn, привязано к транзакции;
// ошибка fn или паника откатывают все изменения.
func (s *Storage) InTx(ctx context.Context, fn func(tx *Storage) error) (err error) {
	const op = "storage.InTx"

	if _, nested := s.q.(*sql.Tx); nested {
		return fn(s)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("%s: rollback: %w", op, rbErr))
			}
		}
	}()

	if err = fn(&Storage{DB: s.DB, q: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// translate приводит ошибки драйвера к ошибкам пакета.
func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", ErrAlreadyExists, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrReference, pgErr.ConstraintName)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return fmt.Errorf("%w: %s", ErrConstraint, pgErr.ConstraintName)
		}
	}
	return err
}

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, translate(err))
}

// expectOne возвращает ErrNotFound, если запрос не затронул ни одной строки.
func expectOne(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// count выполняет COUNT(*) для выборки с теми же условиями.
func (s *Storage) count(ctx context.Context, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := s.q.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// paginate применяет сортировку из белого списка и LIMIT/OFFSET.
func paginate(b sq.SelectBuilder, page models.Page, sortable map[string]string, fallback string) sq.SelectBuilder {
	column, ok := sortable[page.Sort]
	if !ok {
		column = fallback
	}
	dir := " ASC"
	if page.Desc {
		dir = " DESC"
	}
	return b.OrderBy(column + dir).Limit(uint64(page.Limit)).Offset(uint64(page.Offset))
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

type scanner interface {
	Scan(dest ...any) error
}
