package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/dotplot/pkg/errors"
)

// RedisStore keeps sessions in Redis and relies on key expiry.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore uses client, typically shared with the render cache.
// Keys are "<prefix>session:<id>".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + "session:" + id
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	if err := errors.ValidateSessionID(id); err != nil {
		return nil, err
	}
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if s.IsExpired() {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *RedisStore) Set(ctx context.Context, s *Session) error {
	if err := errors.ValidateSessionID(s.ID); err != nil {
		return err
	}
	s.Touch()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(s.ExpiresAt)
	if err := r.client.Set(ctx, r.key(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Cleanup is a no-op; Redis expires keys itself.
func (r *RedisStore) Cleanup(context.Context) error { return nil }

// Close does not close the shared client.
func (r *RedisStore) Close() error { return nil }

var _ Store = (*RedisStore)(nil)
