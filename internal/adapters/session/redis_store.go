package session

import (
	"context"
	"errors"
	"fmt"
	"roadtrip-planner-web/internal/platform/obs"
	"roadtrip-planner-web/internal/ports"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisStore keeps the itinerary slot in Redis under session:{id}:itinerary
// so several frontend replicas share sessions. Keys expire after ttl.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects using a redis:// URL and verifies the connection.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("new redis store: parse url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("new redis store: ping: %w", err)
	}

	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func NewRedisStoreFromClient(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string {
	return "session:" + sessionID + ":itinerary"
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (_ []byte, err error) {
	defer obs.Time(ctx, "session.redis.Load")(&err)

	if sessionID == "" {
		return nil, errors.New("redis store load: session id is empty")
	}

	var b []byte
	if s.ttl > 0 {
		b, err = s.rdb.GetEx(ctx, s.key(sessionID), s.ttl).Bytes()
	} else {
		b, err = s.rdb.Get(ctx, s.key(sessionID)).Bytes()
	}
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrNoItinerary
	}
	if err != nil {
		return nil, fmt.Errorf("redis store load: %w", err)
	}

	return b, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, payload []byte) (err error) {
	defer obs.Time(ctx, "session.redis.Save")(&err)

	if sessionID == "" {
		return errors.New("redis store save: session id is empty")
	}
	if len(payload) == 0 {
		return errors.New("redis store save: payload is empty")
	}

	if err := s.rdb.Set(ctx, s.key(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis store save: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis store clear: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
