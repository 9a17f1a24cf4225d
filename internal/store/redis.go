package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the redis client. Besides health checks it backs the
// per-device scan cooldown that keeps a scanner from firing attempts
// faster than an operator can react.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// BeginCooldown arms the cooldown for a device. It returns false when the
// device is still inside a previous cooldown window, in which case the
// existing TTL is left untouched.
func (r *Redis) BeginCooldown(ctx context.Context, deviceID string, d time.Duration) (bool, error) {
	return r.Client.SetNX(ctx, "qrattend:cooldown:"+deviceID, 1, d).Result()
}

// ExtendCooldown resets the device cooldown to d, regardless of any
// remaining window. Used after an attempt finishes so the lockout counts
// from the outcome, not from the request arrival.
func (r *Redis) ExtendCooldown(ctx context.Context, deviceID string, d time.Duration) error {
	return r.Client.Set(ctx, "qrattend:cooldown:"+deviceID, 1, d).Err()
}
