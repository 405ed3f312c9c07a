package gallery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripwripp/booking-backend/internal/trip"
)

type Repository interface {
	Create(ctx context.Context, img *Image) error
	GetByID(ctx context.Context, id string) (*Image, error)
	ListByTrip(ctx context.Context, tripID string) ([]*Image, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, img *Image) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.trip_images").
		Columns("id", "trip_id", "filename", "storage_path", "thumbnail_path",
			"content_type", "size", "created_at").
		Values(img.ID, img.TripID, img.Filename, img.StoragePath, img.ThumbnailPath,
			img.ContentType, img.Size, img.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create image query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return trip.ErrNotFound
		}
		return fmt.Errorf("create image record failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Image, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "trip_id", "filename", "storage_path",
		"thumbnail_path", "content_type", "size", "created_at").
		From("public.trip_images").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get image query failed: %w", err)
	}

	img := &Image{}
	var thumbnailPath sql.NullString

	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&img.ID,
		&img.TripID,
		&img.Filename,
		&img.StoragePath,
		&thumbnailPath,
		&img.ContentType,
		&img.Size,
		&img.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get image failed: %w", err)
	}

	if thumbnailPath.Valid {
		img.ThumbnailPath = &thumbnailPath.String
	}

	return img, nil
}

func (r *pgxRepository) ListByTrip(ctx context.Context, tripID string) ([]*Image, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "trip_id", "filename", "storage_path",
		"thumbnail_path", "content_type", "size", "created_at").
		From("public.trip_images").
		Where(squirrel.Eq{"trip_id": tripID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list images query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list images failed: %w", err)
	}
	defer rows.Close()

	var images []*Image
	for rows.Next() {
		img := &Image{}
		var thumbnailPath sql.NullString
		if err := rows.Scan(
			&img.ID, &img.TripID, &img.Filename, &img.StoragePath,
			&thumbnailPath, &img.ContentType, &img.Size, &img.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan image failed: %w", err)
		}
		if thumbnailPath.Valid {
			img.ThumbnailPath = &thumbnailPath.String
		}
		images = append(images, img)
	}

	return images, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.trip_images").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete image query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete image record failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
