package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter Filter) ([]*Event, int, error)
	Update(ctx context.Context, e *Event) error
	Deactivate(ctx context.Context, id string) error

	// Required resource links (event_resources join table).
	RequiredResourceIDs(ctx context.Context, eventID string) ([]string, error)
	SetRequiredResources(ctx context.Context, eventID string, resourceIDs []string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var eventColumns = []string{
	"id", "name", "description", "location", "timezone", "duration_minutes",
	"base_price", "min_price", "max_price", "max_capacity", "image_id",
	"is_active", "created_at", "updated_at",
}

func scanEvent(row pgx.Row, e *Event, extra ...any) error {
	dest := []any{
		&e.ID, &e.Name, &e.Description, &e.Location, &e.Timezone, &e.DurationMinutes,
		&e.BasePrice, &e.MinPrice, &e.MaxPrice, &e.MaxCapacity, &e.ImageID,
		&e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (r *pgxRepository) Create(ctx context.Context, e *Event) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.events").
		Columns("name", "description", "location", "timezone", "duration_minutes",
			"base_price", "min_price", "max_price", "max_capacity", "image_id", "is_active").
		Values(e.Name, e.Description, e.Location, e.Timezone, e.DurationMinutes,
			e.BasePrice, e.MinPrice, e.MaxPrice, e.MaxCapacity, e.ImageID, e.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create event query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Event, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(eventColumns...).
		From("public.events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get event query failed: %w", err)
	}

	var e Event
	if err := scanEvent(r.pool.QueryRow(ctx, query, args...), &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event failed: %w", err)
	}
	return &e, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Event, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	cols := append(append([]string{}, eventColumns...), "count(*) OVER() as total_count")
	query := psql.Select(cols...).From("public.events")

	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Search != "" {
		query = query.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list events query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events failed: %w", err)
	}
	defer rows.Close()

	var events []*Event
	var total int

	for rows.Next() {
		var e Event
		if err := scanEvent(rows, &e, &total); err != nil {
			return nil, 0, fmt.Errorf("scan event failed: %w", err)
		}
		events = append(events, &e)
	}

	return events, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, e *Event) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.events").
		Set("name", e.Name).
		Set("description", e.Description).
		Set("location", e.Location).
		Set("timezone", e.Timezone).
		Set("duration_minutes", e.DurationMinutes).
		Set("base_price", e.BasePrice).
		Set("min_price", e.MinPrice).
		Set("max_price", e.MaxPrice).
		Set("max_capacity", e.MaxCapacity).
		Set("image_id", e.ImageID).
		Set("is_active", e.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update event query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update event failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Deactivate(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.events").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate event query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate event failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) RequiredResourceIDs(ctx context.Context, eventID string) ([]string, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("resource_id").
		From("public.event_resources").
		Where(squirrel.Eq{"event_id": eventID}).
		OrderBy("resource_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build required resources query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list required resources failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan resource id failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *pgxRepository) SetRequiredResources(ctx context.Context, eventID string, resourceIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set required resources failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	delQuery, delArgs, err := psql.Delete("public.event_resources").
		Where(squirrel.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear required resources query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, delQuery, delArgs...); err != nil {
		return fmt.Errorf("clear required resources failed: %w", err)
	}

	if len(resourceIDs) > 0 {
		insert := psql.Insert("public.event_resources").Columns("event_id", "resource_id")
		for _, rid := range resourceIDs {
			insert = insert.Values(eventID, rid)
		}
		insQuery, insArgs, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert required resources query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, insQuery, insArgs...); err != nil {
			return fmt.Errorf("insert required resources failed: %w", err)
		}
	}

	return tx.Commit(ctx)
}
