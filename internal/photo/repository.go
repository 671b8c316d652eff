package photo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, p *Photo) error
	GetByID(ctx context.Context, id string) (*Photo, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, p *Photo) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.photos").
		Columns("id", "item_id", "uploader_id", "filename", "storage_path", "thumbnail_path", "content_type", "size").
		Values(p.ID, p.ItemID, p.UploaderID, p.Filename, p.StoragePath, p.ThumbnailPath, p.ContentType, p.Size).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create photo query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.CreatedAt); err != nil {
		return fmt.Errorf("create photo failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Photo, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "item_id", "uploader_id", "filename", "storage_path", "thumbnail_path", "content_type", "size", "created_at",
	).
		From("public.photos").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get photo query failed: %w", err)
	}

	var p Photo
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.ItemID, &p.UploaderID, &p.Filename, &p.StoragePath,
		&p.ThumbnailPath, &p.ContentType, &p.Size, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get photo failed: %w", err)
	}
	return &p, nil
}
