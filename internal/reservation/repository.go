package reservation

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
	"github.com/tripwripp/booking-backend/internal/trip"
)

type Repository interface {
	Create(ctx context.Context, res *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// TransitionState atomically moves a reservation from one status to
	// another. It reports false when the reservation was not in the
	// expected status, which is how confirm/cancel/sweep races resolve to
	// a single winner.
	TransitionState(ctx context.Context, id string, from, to Status) (bool, error)

	// ListExpiredHolds returns held reservations whose ExpiresAt is at or
	// before cutoff, up to limit.
	ListExpiredHolds(ctx context.Context, cutoff time.Time, limit int) ([]*Reservation, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, res *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reservations").
		Columns("id", "trip_id", "party_size", "holder_name", "holder_email", "holder_phone",
			"status", "expires_at").
		Values(res.ID, res.TripID, res.PartySize, res.Holder.Name, res.Holder.Email, res.Holder.Phone,
			res.Status, res.ExpiresAt).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return trip.ErrNotFound
		}
		return fmt.Errorf("create reservation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "trip_id", "party_size", "holder_name", "holder_email", "holder_phone",
		"status", "expires_at", "created_at", "updated_at",
	).
		From("public.reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var res Reservation
	if err := row.Scan(
		&res.ID, &res.TripID, &res.PartySize,
		&res.Holder.Name, &res.Holder.Email, &res.Holder.Phone,
		&res.Status, &res.ExpiresAt, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return &res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "trip_id", "party_size", "holder_name", "holder_email", "holder_phone",
		"status", "expires_at", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.reservations")

	if filter.TripID != "" {
		query = query.Where(squirrel.Eq{"trip_id": filter.TripID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}

	query = query.OrderBy("created_at DESC")

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
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	var total int

	for rows.Next() {
		var res Reservation
		if err := rows.Scan(
			&res.ID, &res.TripID, &res.PartySize,
			&res.Holder.Name, &res.Holder.Email, &res.Holder.Phone,
			&res.Status, &res.ExpiresAt, &res.CreatedAt, &res.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		reservations = append(reservations, &res)
	}

	return reservations, total, nil
}

func (r *pgxRepository) TransitionState(ctx context.Context, id string, from, to Status) (bool, error) {
	// Single conditional UPDATE: the status guard and the write are one
	// atomic step, the same discipline the ledger uses for its counters.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("status", to).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build transition state query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("transition reservation state failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) ListExpiredHolds(ctx context.Context, cutoff time.Time, limit int) ([]*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "trip_id", "party_size", "holder_name", "holder_email", "holder_phone",
		"status", "expires_at", "created_at", "updated_at",
	).
		From("public.reservations").
		Where(squirrel.Eq{"status": StatusHeld}).
		Where(squirrel.LtOrEq{"expires_at": cutoff}).
		OrderBy("expires_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list expired holds query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expired holds failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	for rows.Next() {
		var res Reservation
		if err := rows.Scan(
			&res.ID, &res.TripID, &res.PartySize,
			&res.Holder.Name, &res.Holder.Email, &res.Holder.Phone,
			&res.Status, &res.ExpiresAt, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		reservations = append(reservations, &res)
	}

	return reservations, nil
}
