// Package otpinfra provides infrastructure adapters for the OTP subsystem.
package otpinfra

import (
	"context"
	"time"

	"github.com/oidc-lite/oidc-lite/pkg/idp/otp"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter enforces a per-recipient cooldown between OTP sends using
// a Redis SET NX key. The first send within a window claims the key; further
// sends are refused until it expires.
type RedisRateLimiter struct {
	client   *redis.Client
	cooldown time.Duration
}

func NewRedisRateLimiter(client *redis.Client, cooldown time.Duration) otp.RateLimiter {
	return &RedisRateLimiter{client: client, cooldown: cooldown}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, recipient string) (bool, error) {
	ok, err := l.client.SetNX(ctx, "otp:cooldown:"+recipient, 1, l.cooldown).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
