// Package cache stores the latest dashboard snapshot in Redis so restarts
// and horizontally scaled API replicas serve data without waiting for the
// first collection cycle.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach-analytics/internal/domain"
)

const snapshotKey = "outreach:dashboard:snapshot"

// SnapshotCache is a write-through cache for dashboard snapshots.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a snapshot cache. ttl bounds how stale a served snapshot can be
// when the collector is down.
func New(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

// Put stores the snapshot, replacing any previous one.
func (c *SnapshotCache) Put(ctx context.Context, snap *domain.DashboardSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache snapshot: %w", err)
	}
	return nil
}

// Get returns the cached snapshot, or (nil, nil) when none is cached.
func (c *SnapshotCache) Get(ctx context.Context) (*domain.DashboardSnapshot, error) {
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cached snapshot: %w", err)
	}
	var snap domain.DashboardSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return &snap, nil
}
