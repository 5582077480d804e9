package repository

import (
	"context"
	"time"
)

// CacheRepository is the small key/value surface the rate limiter and
// session helpers need. Backed by Redis in production.
type CacheRepository interface {
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}
