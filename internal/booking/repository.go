package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventsfp/booking-backend/internal/pkg/timeutil"
	"github.com/eventsfp/booking-backend/internal/reservation"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the capacity
// count can run standalone or inside the reserve transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	// Reserve atomically re-checks resource conflicts and event capacity,
	// then inserts the booking and its reservations in one transaction.
	Reserve(ctx context.Context, b *Booking, reservations []*reservation.Reservation, maxCapacity int) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	// Cancel flips the booking to cancelled and releases its reservations.
	Cancel(ctx context.Context, id string) error

	// Demand and capacity signals consumed by pricing and availability.
	BookingsCreatedSince(ctx context.Context, eventID string, since time.Time) (int, error)
	ParticipantsForDay(ctx context.Context, eventID string, day time.Time) (int, error)
	CustomerBookingCount(ctx context.Context, userID string) (int, error)
}

type pgxRepository struct {
	pool         *pgxpool.Pool
	reservations reservation.Repository
	holdWindow   time.Duration
}

// NewPgxRepository builds the booking repository. holdWindow is how long a
// pending booking keeps counting against event capacity.
func NewPgxRepository(pool *pgxpool.Pool, reservations reservation.Repository, holdWindow time.Duration) Repository {
	return &pgxRepository{
		pool:         pool,
		reservations: reservations,
		holdWindow:   holdWindow,
	}
}

var bookingColumns = []string{
	"b.id", "b.event_id", "b.customer_id", "b.start_time", "b.end_time",
	"b.participants", "b.unit_price", "b.total_price", "b.status", "b.notes",
	"b.created_at", "b.updated_at", "e.name", "u.email",
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.EventID, &b.CustomerID, &b.StartTime, &b.EndTime,
		&b.Participants, &b.UnitPrice, &b.TotalPrice, &b.Status, &b.Notes,
		&b.CreatedAt, &b.UpdatedAt, &b.EventName, &b.CustomerEmail,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// mapConstraintError translates database-level overlap protection into the
// domain conflict error. The in-transaction checks normally catch conflicts
// first; the constraints are the backstop.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation, pgerrcode.ExclusionViolation:
			return ErrTimeConflict
		}
	}
	return err
}

func (r *pgxRepository) Reserve(ctx context.Context, b *Booking, reservations []*reservation.Reservation, maxCapacity int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reserve transaction failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent reserves touching the same event or resources.
	// Sorted lock order prevents deadlocks.
	lockKeys := []string{"event:" + b.EventID}
	for _, res := range reservations {
		lockKeys = append(lockKeys, "resource:"+res.ResourceID)
	}
	sort.Strings(lockKeys)
	for _, key := range lockKeys {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
			return fmt.Errorf("acquire reserve lock failed: %w", err)
		}
	}

	// Re-check under the locks: any advisory availability read made before
	// this point may be stale.
	for _, res := range reservations {
		conflicts, err := r.reservations.FindConflictsTx(ctx, tx, res.ResourceID, res.StartTime, res.EndTime)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ErrTimeConflict
		}
	}

	if maxCapacity > 0 {
		booked, err := r.participantsForDay(ctx, tx, b.EventID, b.StartTime)
		if err != nil {
			return err
		}
		if booked+b.Participants > maxCapacity {
			return ErrCapacityExceeded
		}
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("event_id", "customer_id", "start_time", "end_time",
			"participants", "unit_price", "total_price", "status", "notes").
		Values(b.EventID, b.CustomerID, b.StartTime, b.EndTime,
			b.Participants, b.UnitPrice, b.TotalPrice, b.Status, b.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return mapConstraintError(fmt.Errorf("create booking failed: %w", err))
	}

	for _, res := range reservations {
		res.BookingID = b.ID
		if err := r.reservations.CreateTx(ctx, tx, res); err != nil {
			return mapConstraintError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return mapConstraintError(fmt.Errorf("commit reserve transaction failed: %w", err))
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.events e ON e.id = b.event_id").
		Join("public.users u ON u.id = b.customer_id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	columns := append([]string{}, bookingColumns...)
	columns = append(columns, "count(*) OVER() AS total_count")

	builder := psql.Select(columns...).
		From("public.bookings b").
		Join("public.events e ON e.id = b.event_id").
		Join("public.users u ON u.id = b.customer_id")

	if filter.EventID != "" {
		builder = builder.Where(squirrel.Eq{"b.event_id": filter.EventID})
	}
	if filter.CustomerID != "" {
		builder = builder.Where(squirrel.Eq{"b.customer_id": filter.CustomerID})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"b.start_time": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"b.start_time": *filter.To})
	}

	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}
	builder = builder.OrderBy("b.start_time " + order)

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		builder = builder.
			Limit(uint64(filter.PageSize)).
			Offset(uint64((page - 1) * filter.PageSize))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.EventID, &b.CustomerID, &b.StartTime, &b.EndTime,
			&b.Participants, &b.UnitPrice, &b.TotalPrice, &b.Status, &b.Notes,
			&b.CreatedAt, &b.UpdatedAt, &b.EventName, &b.CustomerEmail,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Cancel(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancel transaction failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", StatusCancelled).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build cancel booking query failed: %w", err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("cancel booking failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := r.reservations.CancelByBookingTx(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cancel transaction failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) BookingsCreatedSince(ctx context.Context, eventID string, since time.Time) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("count(*)").
		From("public.bookings").
		Where(squirrel.Eq{"event_id": eventID}).
		Where(squirrel.GtOrEq{"created_at": since}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build bookings-since query failed: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings since failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) ParticipantsForDay(ctx context.Context, eventID string, day time.Time) (int, error) {
	return r.participantsForDay(ctx, r.pool, eventID, day)
}

// participantsForDay sums confirmed participants for the event on the
// calendar day of the given time. Pending bookings count only while still
// inside the hold window, so abandoned checkouts release capacity on their
// own.
func (r *pgxRepository) participantsForDay(ctx context.Context, q querier, eventID string, day time.Time) (int, error) {
	dayStart, dayEnd := timeutil.DayBounds(day)
	cutoff := time.Now().Add(-r.holdWindow)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("COALESCE(SUM(participants), 0)").
		From("public.bookings").
		Where(squirrel.Eq{"event_id": eventID}).
		Where(squirrel.GtOrEq{"start_time": dayStart}).
		Where(squirrel.Lt{"start_time": dayEnd}).
		Where(squirrel.Or{
			squirrel.Eq{"status": []Status{StatusConfirmed, StatusCheckedIn}},
			squirrel.And{
				squirrel.Eq{"status": StatusPending},
				squirrel.Gt{"created_at": cutoff},
			},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build participants-for-day query failed: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count participants for day failed: %w", err)
	}
	return total, nil
}

func (r *pgxRepository) CustomerBookingCount(ctx context.Context, userID string) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("count(*)").
		From("public.bookings").
		Where(squirrel.Eq{"customer_id": userID}).
		Where(squirrel.Eq{"status": []Status{StatusConfirmed, StatusCheckedIn}}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build customer booking count query failed: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count customer bookings failed: %w", err)
	}
	return count, nil
}
