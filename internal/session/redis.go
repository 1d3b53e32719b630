package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chengtian/temple-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session in a hash so several instances share it.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, prefix: "session:"}
}

func (s *RedisStore) key(sid string) string {
	return s.prefix + sid
}

func (s *RedisStore) Load(ctx context.Context, sid string) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, s.key(sid)).Result()
	if err != nil {
		logger.Error("Failed to load session", err, nil)
		return nil, err
	}
	return values, nil
}

func (s *RedisStore) Get(ctx context.Context, sid, field string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key(sid), field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, sid, field, value string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key(sid), field, value)
		pipe.Expire(ctx, s.key(sid), s.ttl)
		return nil
	})
	if err != nil {
		logger.Error("Failed to write session", err, map[string]interface{}{
			"field": field,
		})
	}
	return err
}

func (s *RedisStore) Take(ctx context.Context, sid, field string) (string, bool, error) {
	var get *redis.StringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.HGet(ctx, s.key(sid), field)
		pipe.HDel(ctx, s.key(sid), field)
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return get.Val(), true, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return s.client.HDel(ctx, s.key(sid), fields...).Err()
}

func (s *RedisStore) Destroy(ctx context.Context, sid string) error {
	return s.client.Del(ctx, s.key(sid)).Err()
}

// RedisNonceStore stores OAuth state values with SET EX and reads them back
// with GETDEL so a replayed value is never accepted twice.
type RedisNonceStore struct {
	client *redis.Client
	prefix string
}

func NewRedisNonceStore(client *redis.Client) *RedisNonceStore {
	return &RedisNonceStore{client: client, prefix: "nonce:"}
}

func (s *RedisNonceStore) Issue(ctx context.Context, nonce, owner string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+nonce, owner, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store nonce: %w", err)
	}
	return nil
}

func (s *RedisNonceStore) Consume(ctx context.Context, nonce string) (string, bool, error) {
	owner, err := s.client.GetDel(ctx, s.prefix+nonce).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return owner, true, nil
}
