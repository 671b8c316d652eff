package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, filter Filter) ([]*Item, int, error)
	Update(ctx context.Context, it *Item) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var itemColumns = []string{
	"i.id", "i.owner_id", "COALESCE(u.display_name, u.email)", "i.name", "i.description",
	"i.available", "i.request_id", "i.created_at", "i.updated_at",
}

func scanItem(row pgx.Row, extra ...any) (*Item, error) {
	var it Item
	dest := []any{
		&it.ID, &it.OwnerID, &it.OwnerName, &it.Name, &it.Description,
		&it.Available, &it.RequestID, &it.CreatedAt, &it.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &it, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		switch pgErr.ConstraintName {
		case "items_request_id_fkey":
			return ErrRequestNotFound
		case "items_owner_id_fkey":
			return ErrOwnerNotFound
		}
	}
	return nil
}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.items").
		Columns("owner_id", "name", "description", "available", "request_id").
		Values(it.OwnerID, it.Name, it.Description, it.Available, it.RequestID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt); err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(itemColumns...).
		From("public.items i").
		Join("public.users u ON i.owner_id = u.id").
		Where(squirrel.Eq{"i.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	it, err := scanItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return it, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Item, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(itemColumns, "count(*) OVER() AS total_count")...).
		From("public.items i").
		Join("public.users u ON i.owner_id = u.id")

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"i.owner_id": filter.OwnerID})
	}
	if filter.Text != "" {
		pattern := "%" + filter.Text + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"i.name": pattern},
			squirrel.ILike{"i.description": pattern},
		})
	}
	if filter.AvailableOnly {
		query = query.Where(squirrel.Eq{"i.available": true})
	}
	if len(filter.RequestIDs) > 0 {
		query = query.Where(squirrel.Eq{"i.request_id": filter.RequestIDs})
	}

	query = query.OrderBy("i.created_at ASC", "i.id ASC")

	if filter.PageSize > 0 {
		if filter.Page < 1 {
			filter.Page = 1
		}
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	var total int

	for rows.Next() {
		it, err := scanItem(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate items failed: %w", err)
	}

	return items, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, it *Item) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.items").
		Set("name", it.Name).
		Set("description", it.Description).
		Set("available", it.Available).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": it.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&it.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update item failed: %w", err)
	}
	return nil
}
