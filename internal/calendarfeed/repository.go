package calendarfeed

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
	Create(ctx context.Context, f *Feed) error
	GetByToken(ctx context.Context, token string) (*Feed, error)
	List(ctx context.Context) ([]*Feed, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes feeds past their expiry and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var feedColumns = []string{"id", "name", "token", "scope", "event_id", "customer_id", "expires_at", "created_at"}

func scanFeed(row pgx.Row) (*Feed, error) {
	var f Feed
	err := row.Scan(&f.ID, &f.Name, &f.Token, &f.Scope, &f.EventID, &f.CustomerID, &f.ExpiresAt, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *pgxRepository) Create(ctx context.Context, f *Feed) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.calendar_feeds").
		Columns("name", "token", "scope", "event_id", "customer_id", "expires_at").
		Values(f.Name, f.Token, f.Scope, f.EventID, f.CustomerID, f.ExpiresAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create feed query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&f.ID, &f.CreatedAt); err != nil {
		return fmt.Errorf("create feed failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByToken(ctx context.Context, token string) (*Feed, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(feedColumns...).
		From("public.calendar_feeds").
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get feed query failed: %w", err)
	}

	f, err := scanFeed(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get feed failed: %w", err)
	}
	return f, nil
}

func (r *pgxRepository) List(ctx context.Context) ([]*Feed, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(feedColumns...).
		From("public.calendar_feeds").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list feeds query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feeds failed: %w", err)
	}
	defer rows.Close()

	var feeds []*Feed
	for rows.Next() {
		var f Feed
		if err := rows.Scan(&f.ID, &f.Name, &f.Token, &f.Scope, &f.EventID, &f.CustomerID, &f.ExpiresAt, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feed failed: %w", err)
		}
		feeds = append(feeds, &f)
	}
	return feeds, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.calendar_feeds").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete feed query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete feed failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.calendar_feeds").
		Where(squirrel.NotEq{"expires_at": nil}).
		Where(squirrel.Lt{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build purge feeds query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge feeds failed: %w", err)
	}
	return tag.RowsAffected(), nil
}
