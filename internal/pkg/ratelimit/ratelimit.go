package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HanaSeol/CardMoa/internal/pkg/cache"
)

// incrExpireScript increments the counter and attaches the window expiry on
// the increment that creates the key. Running both steps in one script keeps
// concurrent first hits from leaving an immortal counter behind.
var incrExpireScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// Result reports the outcome of a single rate limit attempt.
type Result struct {
	Allowed   bool
	Remaining int
}

// Limiter is a fixed-window counter backed by Redis.
type Limiter struct {
	client *redis.Client
}

// NewLimiter creates a limiter on the shared cache client.
func NewLimiter() *Limiter {
	return &Limiter{client: cache.GetClient()}
}

// NewLimiterWithClient creates a limiter on an explicit client (tests).
func NewLimiterWithClient(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// Attempt counts one hit against key. A Redis failure is returned as an
// error, never as a silent allow.
func (l *Limiter) Attempt(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	count, err := incrExpireScript.Run(ctx, l.client, []string{key}, int(window.Seconds())).Int()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit counter unavailable: %w", err)
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: count <= limit, Remaining: remaining}, nil
}

// UserKey builds the per-user counter key for an operation.
func UserKey(userID uint, op string) string {
	return fmt.Sprintf("rate_limit:%d:%s", userID, op)
}
