package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"yatube/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by GetJSON when the key is absent or no client is configured.
var ErrMiss = errors.New("cache miss")

// GetJSON decodes the value at key into dst.
func GetJSON(ctx context.Context, key string, dst any) error {
	if client == nil {
		return ErrMiss
	}
	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// SetJSON stores v at key with the given TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, raw, ttl).Err()
}

// Aside returns the cached value at key, or calls load and caches its result.
// Redis failures degrade to calling load directly.
func Aside[T any](ctx context.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	err := GetJSON(ctx, key, &cached)
	if err == nil {
		middleware.CacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	middleware.CacheLookups.WithLabelValues("miss").Inc()
	if !errors.Is(err, ErrMiss) {
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := SetJSON(ctx, key, v, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return v, nil
}
