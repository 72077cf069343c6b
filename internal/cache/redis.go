package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

const redisKeyPrefix = "samarth:cache:"

// RedisSnapshot persists cache entries in Redis. Expiry is delegated to
// Redis natively, so Load never returns stale entries.
type RedisSnapshot struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, addr string, db int, ttl time.Duration) (*RedisSnapshot, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, eris.Wrap(err, "redis: ping")
	}
	return &RedisSnapshot{client: client, ttl: ttl}, nil
}

// NewRedisWithClient wraps an existing client, typically miniredis in tests.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *RedisSnapshot {
	return &RedisSnapshot{client: client, ttl: ttl}
}

func (s *RedisSnapshot) Load(ctx context.Context) (map[string]Entry, error) {
	entries := map[string]Entry{}

	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, eris.Wrapf(err, "redis: get %s", iter.Val())
		}
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, eris.Wrap(err, "redis: unmarshal cached entry")
		}
		entries[e.Key] = e
	}
	if err := iter.Err(); err != nil {
		return nil, eris.Wrap(err, "redis: scan cache keys")
	}
	return entries, nil
}

func (s *RedisSnapshot) Store(ctx context.Context, e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return eris.Wrap(err, "redis: marshal entry")
	}
	err = s.client.Set(ctx, redisKeyPrefix+e.Key, raw, s.ttl).Err()
	return eris.Wrap(err, "redis: store cache entry")
}

func (s *RedisSnapshot) Delete(ctx context.Context, key string) error {
	err := s.client.Del(ctx, redisKeyPrefix+key).Err()
	return eris.Wrap(err, "redis: delete cache entry")
}

func (s *RedisSnapshot) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return eris.Wrapf(err, "redis: delete %s", iter.Val())
		}
	}
	return eris.Wrap(iter.Err(), "redis: clear cache")
}

func (s *RedisSnapshot) Close() error {
	return s.client.Close()
}
