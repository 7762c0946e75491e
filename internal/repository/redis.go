package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"courtpulse/internal/config"
	"courtpulse/internal/models"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient создает клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// RedisSnapshotCache shares the raw snapshot between API instances so a
// filter change does not always round-trip to sqlite. Only the fetched
// collections are stored, never computed aggregates.
type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client, ttl: ttl}
}

func snapshotKey(ownerID int64) string {
	return fmt.Sprintf("owner_snapshot:%d", ownerID)
}

func (c *RedisSnapshotCache) Get(ctx context.Context, ownerID int64) (*models.Snapshot, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := c.client.Get(ctx, snapshotKey(ownerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot from redis: %w", err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

func (c *RedisSnapshotCache) Set(ctx context.Context, ownerID int64, snapshot *models.Snapshot) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey(ownerID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot in redis: %w", err)
	}
	return nil
}

func (c *RedisSnapshotCache) Invalidate(ctx context.Context, ownerID int64) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := c.client.Del(ctx, snapshotKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshot: %w", err)
	}
	return nil
}
