package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, trip *Trip) error
	GetByID(ctx context.Context, id string) (*Trip, error)
	List(ctx context.Context, filter Filter) ([]*Trip, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	// MarkDeparted flips scheduled trips whose departure has passed to
	// departed and returns how many rows changed.
	MarkDeparted(ctx context.Context, cutoff time.Time) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, t *Trip) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.trips").
		Columns("id", "name", "country", "region", "description",
			"start_date", "end_date", "total_slots", "price_per_person", "status").
		Values(t.ID, t.Name, t.Country, t.Region, t.Description,
			t.StartDate, t.EndDate, t.TotalSlots, t.PricePerPerson, t.Status).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create trip query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Trip, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "name", "country", "region", "description",
		"start_date", "end_date", "total_slots", "price_per_person",
		"status", "created_at", "updated_at",
	).
		From("public.trips").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get trip query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var t Trip
	if err := row.Scan(
		&t.ID, &t.Name, &t.Country, &t.Region, &t.Description,
		&t.StartDate, &t.EndDate, &t.TotalSlots, &t.PricePerPerson,
		&t.Status, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get trip failed: %w", err)
	}
	return &t, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Trip, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "country", "region", "description",
		"start_date", "end_date", "total_slots", "price_per_person",
		"status", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.trips")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Country != "" {
		query = query.Where(squirrel.Eq{"country": filter.Country})
	}

	query = query.OrderBy("start_date ASC")

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
		return nil, 0, fmt.Errorf("build list trips query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list trips failed: %w", err)
	}
	defer rows.Close()

	var trips []*Trip
	var total int

	for rows.Next() {
		var t Trip
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Country, &t.Region, &t.Description,
			&t.StartDate, &t.EndDate, &t.TotalSlots, &t.PricePerPerson,
			&t.Status, &t.CreatedAt, &t.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan trip failed: %w", err)
		}
		trips = append(trips, &t)
	}

	return trips, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.trips").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update trip status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update trip status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) MarkDeparted(ctx context.Context, cutoff time.Time) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.trips").
		Set("status", StatusDeparted).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"status": StatusScheduled}).
		Where(squirrel.LtOrEq{"start_date": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark departed query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark departed trips failed: %w", err)
	}
	return int(ct.RowsAffected()), nil
}
