package itemrequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, r *ItemRequest) error
	GetByID(ctx context.Context, id string) (*ItemRequest, error)
	List(ctx context.Context, filter Filter) ([]*ItemRequest, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func selectRequests(psql squirrel.StatementBuilderType, extra ...string) squirrel.SelectBuilder {
	cols := append([]string{
		"r.id", "r.requester_id", "COALESCE(u.display_name, u.email)", "r.description", "r.created_at",
	}, extra...)
	return psql.Select(cols...).
		From("public.item_requests r").
		Join("public.users u ON r.requester_id = u.id")
}

func (r *pgxRepository) Create(ctx context.Context, req *ItemRequest) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.item_requests").
		Columns("requester_id", "description").
		Values(req.RequesterID, req.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item request query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&req.ID, &req.CreatedAt); err != nil {
		return fmt.Errorf("create item request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*ItemRequest, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := selectRequests(psql).
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item request query failed: %w", err)
	}

	var req ItemRequest
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&req.ID, &req.RequesterID, &req.RequesterName, &req.Description, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item request failed: %w", err)
	}
	return &req, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*ItemRequest, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := selectRequests(psql, "count(*) OVER() as total_count")

	if filter.RequesterID != "" {
		query = query.Where(squirrel.Eq{"r.requester_id": filter.RequesterID})
	}
	if filter.ExcludeRequesterID != "" {
		query = query.Where(squirrel.NotEq{"r.requester_id": filter.ExcludeRequesterID})
	}

	// Newest first
	query = query.OrderBy("r.created_at DESC", "r.id ASC")

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list item requests query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list item requests failed: %w", err)
	}
	defer rows.Close()

	var requests []*ItemRequest
	var total int
	for rows.Next() {
		var req ItemRequest
		if err := rows.Scan(&req.ID, &req.RequesterID, &req.RequesterName, &req.Description, &req.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan item request failed: %w", err)
		}
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate item requests failed: %w", err)
	}
	return requests, total, nil
}
