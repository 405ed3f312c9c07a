package ledger

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

// PgxLedger stores entries in public.slot_ledgers. Each mutation is a single
// conditional UPDATE, so the check-and-increment is atomic at the row level
// and holds across processes.
type PgxLedger struct {
	pool *pgxpool.Pool
}

// NewPgxLedger creates a Ledger backed by the given pool.
func NewPgxLedger(pool *pgxpool.Pool) *PgxLedger {
	return &PgxLedger{pool: pool}
}

func (l *PgxLedger) CreateEntry(ctx context.Context, tripID string, totalSlots int) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.slot_ledgers").
		Columns("trip_id", "total_slots", "confirmed_count", "held_count").
		Values(tripID, totalSlots, 0, 0).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create ledger entry query failed: %w", err)
	}

	if _, err := l.pool.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create ledger entry failed: %w", err)
	}
	return nil
}

func (l *PgxLedger) Entry(ctx context.Context, tripID string) (Entry, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("trip_id", "total_slots", "confirmed_count", "held_count").
		From("public.slot_ledgers").
		Where(squirrel.Eq{"trip_id": tripID}).
		ToSql()
	if err != nil {
		return Entry{}, fmt.Errorf("build get ledger entry query failed: %w", err)
	}

	var e Entry
	row := l.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&e.TripID, &e.TotalSlots, &e.ConfirmedCount, &e.HeldCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("get ledger entry failed: %w", err)
	}
	return e, nil
}

func (l *PgxLedger) TryHold(ctx context.Context, tripID string, partySize int) error {
	// The capacity check and the increment are one statement; concurrent
	// holds for the last slots serialize on the row lock.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.slot_ledgers").
		Set("held_count", squirrel.Expr("held_count + ?", partySize)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"trip_id": tripID}).
		Where(squirrel.Expr("confirmed_count + held_count + ? <= total_slots", partySize)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build try hold query failed: %w", err)
	}

	ct, err := l.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("try hold failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return l.rejectionError(ctx, tripID, ErrInsufficientCapacity)
	}
	return nil
}

func (l *PgxLedger) Confirm(ctx context.Context, tripID string, partySize int) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.slot_ledgers").
		Set("held_count", squirrel.Expr("held_count - ?", partySize)).
		Set("confirmed_count", squirrel.Expr("confirmed_count + ?", partySize)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"trip_id": tripID}).
		Where(squirrel.GtOrEq{"held_count": partySize}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build confirm query failed: %w", err)
	}

	ct, err := l.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("confirm held slots failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return l.rejectionError(ctx, tripID, ErrInvalidState)
	}
	return nil
}

func (l *PgxLedger) Release(ctx context.Context, tripID string, partySize int) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.slot_ledgers").
		Set("held_count", squirrel.Expr("held_count - ?", partySize)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"trip_id": tripID}).
		Where(squirrel.GtOrEq{"held_count": partySize}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build release query failed: %w", err)
	}

	ct, err := l.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("release held slots failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return l.rejectionError(ctx, tripID, ErrInvalidState)
	}
	return nil
}

func (l *PgxLedger) ReleaseConfirmed(ctx context.Context, tripID string, partySize int) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.slot_ledgers").
		Set("confirmed_count", squirrel.Expr("confirmed_count - ?", partySize)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"trip_id": tripID}).
		Where(squirrel.GtOrEq{"confirmed_count": partySize}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build release confirmed query failed: %w", err)
	}

	ct, err := l.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("release confirmed slots failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return l.rejectionError(ctx, tripID, ErrInvalidState)
	}
	return nil
}

// rejectionError distinguishes a missing entry from a failed condition after
// a zero-row conditional update.
func (l *PgxLedger) rejectionError(ctx context.Context, tripID string, conditionErr error) error {
	if _, err := l.Entry(ctx, tripID); err != nil {
		return err
	}
	return conditionErr
}
