package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

const (
	defaultDailyLimit = 5
	dailyKeyTTL       = 24 * time.Hour
)

// DailyLimiter caps how many reservations a user may start per calendar day.
// The counter lives in Redis so every API instance shares one view.
type DailyLimiter struct {
	client *redis.Client
	limit  int64
}

func NewDailyLimiter(client *redis.Client, limit int64) *DailyLimiter {
	if limit <= 0 {
		limit = defaultDailyLimit
	}
	return &DailyLimiter{client: client, limit: limit}
}

func (l *DailyLimiter) Allow(ctx context.Context, userID string, now time.Time) error {
	key := fmt.Sprintf("reservations:daily:%s:%s", userID, now.UTC().Format("2006-01-02"))

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		// Key expiry outliving the calendar day is fine; the date in the
		// key makes tomorrow's counter start fresh regardless.
		if err := l.client.Expire(ctx, key, dailyKeyTTL).Err(); err != nil {
			return fmt.Errorf("rate limit expire: %w", err)
		}
	}
	if n > l.limit {
		return domain.ErrRateLimited
	}
	return nil
}
