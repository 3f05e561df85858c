package checkin

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
	// Replace deletes any existing token for the booking and stores the new
	// one atomically.
	Replace(ctx context.Context, t *Token) error
	GetByToken(ctx context.Context, token string) (*Token, error)
	GetByBooking(ctx context.Context, bookingID string) (*Token, error)
	MarkUsed(ctx context.Context, id string, usedAt time.Time) error
	// ExpireOlderThan flips active tokens past their expiry to expired and
	// returns how many were affected. Run by the scheduler.
	ExpireOlderThan(ctx context.Context, now time.Time) (int64, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var tokenColumns = []string{"id", "booking_id", "token", "status", "expires_at", "created_at", "used_at"}

func scanToken(row pgx.Row) (*Token, error) {
	var t Token
	err := row.Scan(&t.ID, &t.BookingID, &t.Token, &t.Status, &t.ExpiresAt, &t.CreatedAt, &t.UsedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *pgxRepository) Replace(ctx context.Context, t *Token) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace token transaction failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("public.checkin_tokens").
		Where(squirrel.Eq{"booking_id": t.BookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete token query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete previous token failed: %w", err)
	}

	query, args, err = psql.Insert("public.checkin_tokens").
		Columns("booking_id", "token", "status", "expires_at").
		Values(t.BookingID, t.Token, t.Status, t.ExpiresAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create token query failed: %w", err)
	}
	if err := tx.QueryRow(ctx, query, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("create token failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace token transaction failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByToken(ctx context.Context, token string) (*Token, error) {
	return r.getByField(ctx, "token", token)
}

func (r *pgxRepository) GetByBooking(ctx context.Context, bookingID string) (*Token, error) {
	return r.getByField(ctx, "booking_id", bookingID)
}

func (r *pgxRepository) getByField(ctx context.Context, field, value string) (*Token, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(tokenColumns...).
		From("public.checkin_tokens").
		Where(squirrel.Eq{field: value}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get token query failed: %w", err)
	}

	t, err := scanToken(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("get token failed: %w", err)
	}
	return t, nil
}

func (r *pgxRepository) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.checkin_tokens").
		Set("status", StatusUsed).
		Set("used_at", usedAt).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": StatusActive}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark token used query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark token used failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenUsed
	}
	return nil
}

func (r *pgxRepository) ExpireOlderThan(ctx context.Context, now time.Time) (int64, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.checkin_tokens").
		Set("status", StatusExpired).
		Where(squirrel.Eq{"status": StatusActive}).
		Where(squirrel.Lt{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build expire tokens query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("expire tokens failed: %w", err)
	}
	return tag.RowsAffected(), nil
}
