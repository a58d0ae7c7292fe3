package kvstore

import (
	"context"
	"errors"
	"fmt"

	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

// DefaultNamespace prefixes every key written by RedisStore.
const DefaultNamespace = "mma_currency"

// RedisStore is a KeyValueStore on redis. Keys never expire.
type RedisStore struct {
	client    redis.UniversalClient // works with both single and cluster
	namespace string
}

var _ portsrepo.KeyValueStore = (*RedisStore)(nil)

// NewRedisClient connects to a single node, or to a cluster when useCluster is set
// and more than one address is given.
func NewRedisClient(addrs []string, password string, useCluster bool) (redis.UniversalClient, error) {
	if len(addrs) == 0 {
		return nil, errors.New("at least one redis address is required")
	}
	if useCluster && len(addrs) > 1 {
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    addrs,
			Password: password,
		}), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addrs[0],
		Password: password,
		DB:       0,
	}), nil
}

// NewRedisStore wraps client. An empty namespace uses DefaultNamespace.
func NewRedisStore(client redis.UniversalClient, namespace string) *RedisStore {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) key(k string) string {
	return s.namespace + ":" + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
