// Package quota enforces the daily assistant message limit per user.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tablero-app/planner-backend/internal/planner/domain"
)

const keyPrefix = "planner:quota:chat:" // planner:quota:chat:{user_id}:{yyyy-mm-dd}

// Limiter counts assistant messages per user per UTC day in Redis.
type Limiter struct {
	client *redis.Client
	limit  int64
	now    func() time.Time
}

// NewLimiter builds a limiter allowing `limit` messages per day.
func NewLimiter(client *redis.Client, limit int64) *Limiter {
	if limit <= 0 {
		limit = 50
	}
	return &Limiter{client: client, limit: limit, now: time.Now}
}

// Allow consumes one message from today's budget. Returns the remaining
// count, or domain.ErrQuotaExceeded once the budget is spent. Redis being
// unreachable fails open: a degraded counter should not block the product.
func (l *Limiter) Allow(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("user id required")
	}

	key := l.key(userID)
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, l.endOfDay())
	if _, err := pipe.Exec(ctx); err != nil {
		return l.limit, nil
	}

	used := incr.Val()
	if used > l.limit {
		return 0, domain.ErrQuotaExceeded
	}
	return l.limit - used, nil
}

// Remaining reports today's leftover budget without consuming any.
func (l *Limiter) Remaining(ctx context.Context, userID string) (int64, error) {
	used, err := l.client.Get(ctx, l.key(userID)).Int64()
	if err == redis.Nil {
		return l.limit, nil
	}
	if err != nil {
		return 0, fmt.Errorf("quota read: %w", err)
	}
	if used >= l.limit {
		return 0, nil
	}
	return l.limit - used, nil
}

func (l *Limiter) key(userID string) string {
	return keyPrefix + userID + ":" + l.now().UTC().Format("2006-01-02")
}

func (l *Limiter) endOfDay() time.Time {
	now := l.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
