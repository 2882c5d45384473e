package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 10
	attemptWindow      = time.Minute
)

// LoginLimiter counts credential-check attempts per email address in Redis.
// Key format: login_attempts:<email>, expiring after attemptWindow so a
// locked-out address recovers on its own.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// If maxAttempts <= 0, defaultMaxAttempts is used.
func NewLoginLimiter(client *redis.Client, maxAttempts int64) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts}
}

// Allow increments the attempt counter and reports whether this attempt is
// still within the window's budget.
func (l *LoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := l.key(email)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("login limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, attemptWindow).Err(); err != nil {
			return false, fmt.Errorf("login limit expire: %w", err)
		}
	}

	return n <= l.maxAttempts, nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *LoginLimiter) key(email string) string {
	return "login_attempts:" + email
}
