package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so overlap checks
// can run standalone (advisory reads) or inside the reserve transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, res *Reservation) error
	// FindConflicts returns active reservations for the resource whose
	// interval intersects [start, end).
	FindConflicts(ctx context.Context, resourceID string, start, end time.Time) ([]*Reservation, error)
	FindConflictsTx(ctx context.Context, tx pgx.Tx, resourceID string, start, end time.Time) ([]*Reservation, error)
	CancelByBookingTx(ctx context.Context, tx pgx.Tx, bookingID string) error
	ListByBooking(ctx context.Context, bookingID string) ([]*Reservation, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CreateTx(ctx context.Context, tx pgx.Tx, res *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.resource_reservations").
		Columns("resource_id", "booking_id", "start_time", "end_time", "status").
		Values(res.ResourceID, res.BookingID, res.StartTime, res.EndTime, res.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&res.ID, &res.CreatedAt); err != nil {
		return fmt.Errorf("create reservation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) FindConflicts(ctx context.Context, resourceID string, start, end time.Time) ([]*Reservation, error) {
	return findConflicts(ctx, r.pool, resourceID, start, end)
}

func (r *pgxRepository) FindConflictsTx(ctx context.Context, tx pgx.Tx, resourceID string, start, end time.Time) ([]*Reservation, error) {
	return findConflicts(ctx, tx, resourceID, start, end)
}

// findConflicts applies the interval intersection test for half-open windows:
// (ExistingStart < NewEnd) AND (ExistingEnd > NewStart).
func findConflicts(ctx context.Context, q querier, resourceID string, start, end time.Time) ([]*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "resource_id", "booking_id", "start_time", "end_time", "status", "created_at").
		From("public.resource_reservations").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Eq{"status": StatusActive}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find conflicts query failed: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find conflicts failed: %w", err)
	}
	defer rows.Close()

	var conflicts []*Reservation
	for rows.Next() {
		var res Reservation
		if err := rows.Scan(
			&res.ID, &res.ResourceID, &res.BookingID,
			&res.StartTime, &res.EndTime, &res.Status, &res.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		conflicts = append(conflicts, &res)
	}
	return conflicts, nil
}

func (r *pgxRepository) CancelByBookingTx(ctx context.Context, tx pgx.Tx, bookingID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.resource_reservations").
		Set("status", StatusCancelled).
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build cancel reservations query failed: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("cancel reservations failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListByBooking(ctx context.Context, bookingID string) ([]*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "resource_id", "booking_id", "start_time", "end_time", "status", "created_at").
		From("public.resource_reservations").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	for rows.Next() {
		var res Reservation
		if err := rows.Scan(
			&res.ID, &res.ResourceID, &res.BookingID,
			&res.StartTime, &res.EndTime, &res.Status, &res.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		reservations = append(reservations, &res)
	}
	return reservations, nil
}
