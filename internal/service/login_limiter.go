package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginAttemptKeyPrefix = "auth:login_attempts:"

// LoginLimiter throttles repeated failed logins per email address.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// NewLoginLimiter returns a redis-backed limiter, or a no-op limiter when no
// redis client is configured.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) LoginLimiter {
	if client == nil || maxAttempts <= 0 {
		return noopLimiter{}
	}
	return &redisLoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

type redisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

func (l *redisLoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	count, err := l.client.Get(ctx, attemptKey(email)).Int64()
	if err != nil {
		if err == redis.Nil {
			return true, nil
		}
		// Fail open: throttling is advisory and must not block logins
		// when redis is unreachable.
		return true, err
	}
	return count < l.maxAttempts, nil
}

func (l *redisLoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := attemptKey(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return l.client.Expire(ctx, key, l.window).Err()
	}
	return nil
}

func (l *redisLoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, attemptKey(email)).Err()
}

func attemptKey(email string) string {
	return loginAttemptKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

type noopLimiter struct{}

func (noopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
func (noopLimiter) RecordFailure(context.Context, string) error { return nil }
func (noopLimiter) Reset(context.Context, string) error         { return nil }
