package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"alley/internal/middleware"
	"alley/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	userKeyPattern    = "alley:user:%d"
	galleryKeyPattern = "alley:gallery:%s:%d"
)

const (
	UserTTL    = 5 * time.Minute
	GalleryTTL = 30 * time.Second
)

// UserKey is the cache key of a user record.
func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPattern, userID)
}

// GalleryKey is the cache key of the first gallery page for sort and limit.
func GalleryKey(sort string, limit int) string {
	return fmt.Sprintf(galleryKeyPattern, sort, limit)
}

// Store is a JSON cache-aside layer over Redis. A Store with a nil client
// is valid and never caches.
type Store struct {
	client *redis.Client
}

// New returns a Store backed by client, which may be nil.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Enabled reports whether a Redis client is attached.
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

// GetJSON loads key into dest. It reports false on a miss.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores v under key for ttl.
func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, ttl).Err()
}

// Aside serves key from Redis, or runs fetch to fill dest and stores the
// result. Cache failures are logged and fall through to fetch.
func (s *Store) Aside(ctx context.Context, family, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := s.GetJSON(ctx, key, dest)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if found {
		observability.CacheLookups.WithLabelValues(family, "hit").Inc()
		return nil
	}
	if s.Enabled() {
		observability.CacheLookups.WithLabelValues(family, "miss").Inc()
	}

	if err := fetch(); err != nil {
		return err
	}

	if err := s.SetJSON(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

// Invalidate removes keys.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if !s.Enabled() || len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidate failed", slog.String("error", err.Error()))
	}
}

// InvalidatePattern removes every key matching pattern.
func (s *Store) InvalidatePattern(ctx context.Context, pattern string) {
	if !s.Enabled() {
		return
	}
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache scan failed", slog.String("error", err.Error()))
		return
	}
	s.Invalidate(ctx, keys...)
}

// InvalidateUser drops the cached user record.
func (s *Store) InvalidateUser(ctx context.Context, userID uint) {
	s.Invalidate(ctx, UserKey(userID))
}

// InvalidateGallery drops every cached gallery page.
func (s *Store) InvalidateGallery(ctx context.Context) {
	s.InvalidatePattern(ctx, "alley:gallery:*")
}
