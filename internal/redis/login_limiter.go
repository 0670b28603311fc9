package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tomaskrat/videotube/internal/domain"
)

// LoginLimiter throttles repeated credential failures per login name. It
// counts failures in a fixed TTL window; once the budget is spent, further
// attempts are rejected until the window lapses. A successful login resets
// the counter.
//
// The limiter fails open: if Redis is unreachable (or the circuit breaker is
// open), logins proceed without throttling rather than going down with it.
type LoginLimiter struct {
	rdb         *goredis.Client
	maxFailures int
	window      time.Duration
}

func NewLoginLimiter(rdb *goredis.Client, maxFailures int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		rdb:         rdb,
		maxFailures: maxFailures,
		window:      window,
	}
}

// Allow returns domain.ErrTooManyAttempts once the failure budget for key is
// exhausted.
func (l *LoginLimiter) Allow(ctx context.Context, key string) error {
	count, err := l.rdb.Get(ctx, failureKey(key)).Int64()
	if errors.Is(err, goredis.Nil) {
		return nil
	}
	if err != nil {
		slog.WarnContext(ctx, "login throttle unavailable, failing open", "error", err)
		return nil
	}

	if count >= int64(l.maxFailures) {
		return domain.ErrTooManyAttempts
	}
	return nil
}

// RecordFailure increments the failure counter, starting the window on the
// first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) error {
	count, err := l.rdb.Incr(ctx, failureKey(key)).Result()
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}

	if count == 1 {
		if err := l.rdb.Expire(ctx, failureKey(key), l.window).Err(); err != nil {
			return fmt.Errorf("failed to set login failure window: %w", err)
		}
	}

	return nil
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, failureKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset login throttle: %w", err)
	}
	return nil
}

func failureKey(login string) string {
	return "login_fail:" + login
}
