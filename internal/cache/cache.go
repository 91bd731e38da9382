// Package cache implements the cache-aside read path used for songs and
// album like counts.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// Source tells the caller where a value came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceStore Source = "store"
)

const DefaultTTL = 1800 * time.Second

// Store is a key/value cache. A miss is reported with found == false and a
// nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// RedisStore is a Store backed by Redis.
type RedisStore struct {
	rdb redis.UniversalClient
}

func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Aside wraps a Store with the read-through and invalidate operations. A nil
// store is allowed and always falls through to the loader.
type Aside struct {
	store Store
	ttl   time.Duration
}

func NewAside(store Store, ttl time.Duration) *Aside {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Aside{store: store, ttl: ttl}
}

// Fetch returns the cached value for key, or calls load and caches its
// result. Errors from load are returned untouched. Cache failures are logged
// and treated as a miss.
func (a *Aside) Fetch(ctx context.Context, key string, load func(ctx context.Context) (string, error)) (string, Source, error) {
	if a != nil && a.store != nil {
		v, found, err := a.store.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn("cache: lookup failed, reading store", "key", key, "err", err)
		case found:
			return v, SourceCache, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		return "", SourceStore, err
	}

	if a != nil && a.store != nil {
		if err := a.store.Set(ctx, key, v, a.ttl); err != nil {
			log.Warn("cache: populate failed", "key", key, "err", err)
		}
	}
	return v, SourceStore, nil
}

// Invalidate removes keys. The mutation that triggered it has already been
// committed, so failures are only logged.
func (a *Aside) Invalidate(ctx context.Context, keys ...string) {
	if a == nil || a.store == nil || len(keys) == 0 {
		return
	}
	if err := a.store.Delete(ctx, keys...); err != nil {
		log.Error("cache: invalidate failed", "keys", keys, "err", err)
	}
}

func SongKey(songID string) string   { return "songs:" + songID }
func LikesKey(albumID string) string { return "likes:" + albumID }
