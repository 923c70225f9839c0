package history

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore хранит историю сессии в списке Redis. TTL продлевается при каждой записи.
type RedisStore struct {
	client   redis.Cmdable
	ttl      time.Duration
	maxWords int
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration, maxWords int) *RedisStore {
	return &RedisStore{
		client:   client,
		ttl:      ttl,
		maxWords: maxWords,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return fmt.Sprintf("familytime:session:%s:words", sessionID)
}

func (s *RedisStore) Words(ctx context.Context, sessionID string) ([]string, error) {
	words, err := s.client.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	return words, nil
}

func (s *RedisStore) Add(ctx context.Context, sessionID string, word string) error {
	if word == "" {
		return nil
	}

	key := s.key(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, word)
		if s.maxWords > 0 {
			pipe.LTrim(ctx, key, int64(-s.maxWords), -1)
		}
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis add word: %w", err)
	}
	return nil
}

func (s *RedisStore) Reset(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
