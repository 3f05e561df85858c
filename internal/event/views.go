package event

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ViewCounter tracks per-event page views in Redis, bucketed by day.
// Views feed the demand signal of the pricing evaluator.
type ViewCounter struct {
	client *redis.Client
}

func NewViewCounter(client *redis.Client) *ViewCounter {
	return &ViewCounter{client: client}
}

func viewKey(eventID string, day time.Time) string {
	return fmt.Sprintf("event:views:%s:%s", eventID, day.UTC().Format("20060102"))
}

// Record increments today's view bucket. The bucket expires after eight days
// so stale buckets never need explicit cleanup.
func (v *ViewCounter) Record(ctx context.Context, eventID string) error {
	key := viewKey(eventID, time.Now())
	pipe := v.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 8*24*time.Hour)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("record view failed: %w", err)
	}
	return nil
}

// CountLastDays sums the view buckets of the past n days, today included.
func (v *ViewCounter) CountLastDays(ctx context.Context, eventID string, n int) (int, error) {
	keys := make([]string, 0, n)
	now := time.Now()
	for i := 0; i < n; i++ {
		keys = append(keys, viewKey(eventID, now.AddDate(0, 0, -i)))
	}

	vals, err := v.client.MGet(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("count views failed: %w", err)
	}

	total := 0
	for _, raw := range vals {
		if raw == nil {
			continue
		}
		if s, ok := raw.(string); ok {
			var n int
			if _, err := fmt.Sscanf(s, "%d", &n); err == nil {
				total += n
			}
		}
	}
	return total, nil
}
