package repository

import (
	"context"
	"sync"
	"time"

	"courtpulse/internal/models"
)

// MemorySnapshotCache keeps per-owner snapshots in process memory.
// It backs the redis cache as a failover target and is the default in
// tests and single-node deployments.
type MemorySnapshotCache struct {
	entries sync.Map
	ttl     time.Duration
}

type memoryEntry struct {
	snapshot  *models.Snapshot
	expiresAt time.Time
}

func NewMemorySnapshotCache(ttl time.Duration) *MemorySnapshotCache {
	return &MemorySnapshotCache{ttl: ttl}
}

func (c *MemorySnapshotCache) Get(ctx context.Context, ownerID int64) (*models.Snapshot, error) {
	val, ok := c.entries.Load(ownerID)
	if !ok {
		return nil, nil
	}
	entry := val.(memoryEntry)
	if time.Now().After(entry.expiresAt) {
		c.entries.Delete(ownerID)
		return nil, nil
	}
	return entry.snapshot, nil
}

func (c *MemorySnapshotCache) Set(ctx context.Context, ownerID int64, snapshot *models.Snapshot) error {
	c.entries.Store(ownerID, memoryEntry{
		snapshot:  snapshot,
		expiresAt: time.Now().Add(c.ttl),
	})
	return nil
}

func (c *MemorySnapshotCache) Invalidate(ctx context.Context, ownerID int64) error {
	c.entries.Delete(ownerID)
	return nil
}
