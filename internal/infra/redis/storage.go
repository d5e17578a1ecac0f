package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airport-cyber-crisis/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Storage persists game keys as plain Redis strings under a prefix:
//
//	SET {prefix}airport_leaderboard '[{"name":...}]'
//	SET {prefix}arc_player:{device} 'Ava'
//
// A zero ttl keeps keys forever.
type Storage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	sf     singleflight.Group
}

func NewStorage(client *redis.Client, prefix string, ttl time.Duration) *Storage {
	return &Storage{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Load reads a key. Concurrent loads of the same key share one round trip.
func (s *Storage) Load(ctx context.Context, key string) ([]byte, error) {
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		value, err := s.client.Get(ctx, s.key(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("redis get %s: %w", key, err)
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	shared := result.([]byte)
	out := make([]byte, len(shared))
	copy(out, shared)
	return out, nil
}

func (s *Storage) Save(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Storage) key(key string) string {
	return s.prefix + key
}
