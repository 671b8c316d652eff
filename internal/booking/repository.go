package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/db"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// ListByItem returns the item's bookings with the given statuses ordered by start ascending.
	ListByItem(ctx context.Context, itemID string, statuses []Status) ([]*Booking, error)
	// HasFinished reports whether bookerID holds an approved booking of itemID that ended before now.
	HasFinished(ctx context.Context, itemID, bookerID string, now time.Time) (bool, error)
	// InTx runs fn in a transaction; fn's error rolls it back.
	InTx(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository holds the operations that must run inside a transaction.
type TxRepository interface {
	// LockItem takes a row lock on the item, serializing bookings of it.
	LockItem(ctx context.Context, itemID string) error
	GetForUpdate(ctx context.Context, id string) (*Booking, error)
	// HasOverlap checks for a booking of the item with one of statuses whose
	// window overlaps w. excludeID is ignored when empty.
	HasOverlap(ctx context.Context, itemID string, w Window, statuses []Status, excludeID string) (bool, error)
	Create(ctx context.Context, b *Booking) error
	UpdateStatus(ctx context.Context, b *Booking) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

type pgxTxRepository struct {
	q db.Querier
}

var bookingColumns = []string{
	"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "COALESCE(u.display_name, u.email)",
	"b.start_time", "b.end_time", "b.status", "b.created_at", "b.updated_at",
}

func selectBookings() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID, &b.BookerName,
		&b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &b, nil
}

// criteriaCondition is the SQL form of Criteria.Matches; nil means no filter.
func criteriaCondition(c Criteria) squirrel.Sqlizer {
	approved := squirrel.Eq{"b.status": StatusApproved}
	switch c.State {
	case StateCurrent:
		return squirrel.And{approved, squirrel.Lt{"b.start_time": c.Now}, squirrel.Gt{"b.end_time": c.Now}}
	case StateFuture:
		return squirrel.And{approved, squirrel.Gt{"b.start_time": c.Now}}
	case StatePast:
		return squirrel.And{approved, squirrel.Lt{"b.end_time": c.Now}}
	case StateWaiting:
		return squirrel.Eq{"b.status": StatusWaiting}
	case StateRejected:
		return squirrel.Eq{"b.status": StatusRejected}
	default:
		return nil
	}
}

func getByID(ctx context.Context, q db.Querier, id string, forUpdate bool) (*Booking, error) {
	builder := selectBookings().Where(squirrel.Eq{"b.id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	return getByID(ctx, r.pool, id, false)
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := selectBookings().Column("count(*) OVER() AS total_count")

	if filter.BookerID != "" {
		query = query.Where(squirrel.Eq{"b.booker_id": filter.BookerID})
	}
	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"i.owner_id": filter.OwnerID})
	}
	if cond := criteriaCondition(filter.Criteria); cond != nil {
		query = query.Where(cond)
	}

	query = query.OrderBy("b.start_time DESC", "b.id ASC")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) ListByItem(ctx context.Context, itemID string, statuses []Status) ([]*Booking, error) {
	sql, args, err := selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID}).
		Where(squirrel.Eq{"b.status": statuses}).
		OrderBy("b.start_time ASC", "b.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list item bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list item bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item bookings failed: %w", err)
	}
	return bookings, nil
}

func (r *pgxRepository) HasFinished(ctx context.Context, itemID, bookerID string, now time.Time) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"item_id": itemID, "booker_id": bookerID, "status": StatusApproved}).
		Where(squirrel.Lt{"end_time": now}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build finished booking query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check finished booking failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) InTx(ctx context.Context, fn func(tx TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&pgxTxRepository{q: tx})
	})
}

func (r *pgxTxRepository) LockItem(ctx context.Context, itemID string) error {
	var id string
	err := r.q.QueryRow(ctx, `SELECT id FROM public.items WHERE id = $1 FOR UPDATE`, itemID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrItemNotFound
		}
		return fmt.Errorf("lock item failed: %w", err)
	}
	return nil
}

func (r *pgxTxRepository) GetForUpdate(ctx context.Context, id string) (*Booking, error) {
	return getByID(ctx, r.q, id, true)
}

func (r *pgxTxRepository) HasOverlap(ctx context.Context, itemID string, w Window, statuses []Status, excludeID string) (bool, error) {
	// Overlap: (NewStart < ExistingEnd) AND (NewEnd > ExistingStart)
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.Eq{"status": statuses}).
		Where(squirrel.Lt{"start_time": w.End}).
		Where(squirrel.Gt{"end_time": w.Start})

	if excludeID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := subQuery.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxTxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.StartTime, b.EndTime, b.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if isExclusionViolation(err) {
			return ErrTimeConflict
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxTxRepository) UpdateStatus(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", b.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isExclusionViolation(err) {
			return ErrTimeConflict
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	return nil
}
