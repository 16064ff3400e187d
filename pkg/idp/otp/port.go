package otp

import "context"

// RateLimiter gates OTP send requests per recipient. Allow reports whether a
// send may proceed now; implementations own the cooldown bookkeeping.
type RateLimiter interface {
	Allow(ctx context.Context, recipient string) (bool, error)
}
