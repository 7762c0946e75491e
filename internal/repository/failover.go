package repository

import (
	"context"
	"sync/atomic"
	"time"

	"courtpulse/internal/domain"
	"courtpulse/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSnapshotCache serves from the primary (redis) cache and falls
// back to the in-memory one when the primary errors. The primary is
// probed again after a cooldown.
type FailoverSnapshotCache struct {
	primary   domain.SnapshotCache
	fallback  domain.SnapshotCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of the last failed probe
}

const failoverRetryAfter = time.Minute

func NewFailoverSnapshotCache(primary, fallback domain.SnapshotCache, logger *zerolog.Logger) *FailoverSnapshotCache {
	return &FailoverSnapshotCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FailoverSnapshotCache) primaryUsable() bool {
	if !c.isDown.Load() {
		return true
	}
	return time.Since(time.Unix(0, c.lastCheck.Load())) > failoverRetryAfter
}

func (c *FailoverSnapshotCache) markDown(err error, op string) {
	c.logger.Error().Err(err).Str("op", op).Msg("primary snapshot cache failed, falling back to memory")
	c.isDown.Store(true)
	c.lastCheck.Store(time.Now().UnixNano())
}

func (c *FailoverSnapshotCache) Get(ctx context.Context, ownerID int64) (*models.Snapshot, error) {
	if c.primaryUsable() {
		snapshot, err := c.primary.Get(ctx, ownerID)
		if err == nil {
			c.isDown.Store(false)
			return snapshot, nil
		}
		c.markDown(err, "get")
	}
	return c.fallback.Get(ctx, ownerID)
}

func (c *FailoverSnapshotCache) Set(ctx context.Context, ownerID int64, snapshot *models.Snapshot) error {
	if c.primaryUsable() {
		if err := c.primary.Set(ctx, ownerID, snapshot); err != nil {
			c.markDown(err, "set")
		} else {
			c.isDown.Store(false)
		}
	}
	return c.fallback.Set(ctx, ownerID, snapshot)
}

func (c *FailoverSnapshotCache) Invalidate(ctx context.Context, ownerID int64) error {
	if c.primaryUsable() {
		if err := c.primary.Invalidate(ctx, ownerID); err != nil {
			c.markDown(err, "invalidate")
		}
	}
	return c.fallback.Invalidate(ctx, ownerID)
}
