package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/zatekoja/nursinghomefinder/internal/domain/providers"
	redisclient "github.com/zatekoja/nursinghomefinder/internal/infrastructure/clients/redis"
)

// RedisStorage implements StorageProvider using Redis
type RedisStorage struct {
	client *redisclient.Client
}

// NewRedisStorage creates a new Redis storage adapter
func NewRedisStorage(client *redisclient.Client) *RedisStorage {
	return &RedisStorage{
		client: client,
	}
}

// Get retrieves a value
func (a *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Client().Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, providers.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return result, nil
}

// Set stores a value without expiration
func (a *RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := a.client.Client().Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

// Delete removes a value
func (a *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}
