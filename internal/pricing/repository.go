package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GlobalScope is the scope key of the store-wide default rule set.
const GlobalScope = "global"

type Repository interface {
	// GetForEvent returns the event's rule set, falling back to the global
	// scope and finally to DefaultRules.
	GetForEvent(ctx context.Context, eventID string) (Rules, error)
	// Set stores the rule set for a scope (GlobalScope or an event ID).
	Set(ctx context.Context, scope string, rules Rules) error
	Get(ctx context.Context, scope string) (Rules, bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Get(ctx context.Context, scope string) (Rules, bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("rules").
		From("public.pricing_rules").
		Where(squirrel.Eq{"scope": scope}).
		ToSql()
	if err != nil {
		return Rules{}, false, fmt.Errorf("build get pricing rules query failed: %w", err)
	}

	var raw []byte
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rules{}, false, nil
		}
		return Rules{}, false, fmt.Errorf("get pricing rules failed: %w", err)
	}

	var rules Rules
	if err := json.Unmarshal(raw, &rules); err != nil {
		return Rules{}, false, fmt.Errorf("decode pricing rules failed: %w", err)
	}
	return rules, true, nil
}

func (r *pgxRepository) GetForEvent(ctx context.Context, eventID string) (Rules, error) {
	rules, ok, err := r.Get(ctx, eventID)
	if err != nil {
		return Rules{}, err
	}
	if ok {
		return rules, nil
	}

	rules, ok, err = r.Get(ctx, GlobalScope)
	if err != nil {
		return Rules{}, err
	}
	if ok {
		return rules, nil
	}

	return DefaultRules(), nil
}

func (r *pgxRepository) Set(ctx context.Context, scope string, rules Rules) error {
	raw, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("encode pricing rules failed: %w", err)
	}

	const query = `
		INSERT INTO public.pricing_rules (scope, rules, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (scope) DO UPDATE SET rules = EXCLUDED.rules, updated_at = now()
	`
	if _, err := r.pool.Exec(ctx, query, scope, raw); err != nil {
		return fmt.Errorf("set pricing rules failed: %w", err)
	}
	return nil
}
