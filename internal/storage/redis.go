package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/sevigo/apply-warden/internal/core"
)

const DefaultRedisPrefix = "apply-warden:credentials"

type RedisOption func(*RedisCredentialStore)

func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisCredentialStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

// RedisCredentialStore keeps each account's cookies in a hash under
// <prefix>:<account>.
type RedisCredentialStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisCredentialStore(rdb *redis.Client, opts ...RedisOption) *RedisCredentialStore {
	s := &RedisCredentialStore{rdb: rdb, prefix: DefaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisCredentialStore) key(accountID string) string {
	return s.prefix + ":" + accountID
}

func (s *RedisCredentialStore) Load(ctx context.Context, accountID string) (core.Material, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key(accountID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load credential for %s: %w", accountID, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCredentialNotFound, accountID)
	}
	return core.Material(fields), nil
}

// Save replaces the stored hash in one transaction so readers never see a
// mix of old and new cookies.
func (s *RedisCredentialStore) Save(ctx context.Context, accountID string, material core.Material) error {
	key := s.key(accountID)
	values := make(map[string]any, len(material))
	for k, v := range material {
		values[k] = v
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.HSet(ctx, key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save credential for %s: %w", accountID, err)
	}
	return nil
}
