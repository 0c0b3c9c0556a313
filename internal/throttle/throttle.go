// Package throttle counts failed login attempts per account in Redis.
package throttle

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter blocks further login attempts for an account once it has
// accumulated maxAttempts failures inside the window.
type Limiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// New constructs a Limiter over an existing Redis client.
func New(client *redis.Client, maxAttempts int, window time.Duration) *Limiter {
	return &Limiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Blocked reports whether the account has exhausted its attempts.
func (l *Limiter) Blocked(ctx context.Context, email string) (bool, error) {
	count, err := l.client.Get(ctx, key(email)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= l.maxAttempts, nil
}

// RecordFailure increments the account's counter and restarts its window.
func (l *Limiter) RecordFailure(ctx context.Context, email string) error {
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key(email))
	pipe.Expire(ctx, key(email), l.window)
	_, err := pipe.Exec(ctx)
	return err
}

// Reset clears the counter after a successful login.
func (l *Limiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, key(email)).Err()
}

func key(email string) string {
	return "login:failures:" + email
}
