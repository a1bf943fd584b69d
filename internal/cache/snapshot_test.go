package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach-analytics/internal/domain"
)

func newTestCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(client, 5*time.Minute), mr
}

func TestSnapshotCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	score := 86
	snap := &domain.DashboardSnapshot{
		ID:          "snap-1",
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Scorecards: []domain.CampaignScorecard{
			{CampaignID: "c-1", Score: &score, Tier: domain.TierStar},
		},
		Risk: &domain.RiskResult{RiskScore: 12, RiskLevel: domain.RiskLow},
	}

	if err := c.Put(ctx, snap); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := c.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil after Put")
	}
	if got.ID != "snap-1" || len(got.Scorecards) != 1 {
		t.Errorf("Get() = %+v", got)
	}
	if got.Scorecards[0].Score == nil || *got.Scorecards[0].Score != 86 {
		t.Errorf("cached score = %v, want 86", got.Scorecards[0].Score)
	}
}

func TestSnapshotCache_Empty(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != nil {
		t.Errorf("Get() on empty cache = %+v, want nil", got)
	}
}

func TestSnapshotCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, &domain.DashboardSnapshot{ID: "snap-2"}); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	mr.FastForward(6 * time.Minute)

	got, err := c.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != nil {
		t.Error("Get() after TTL expiry should return nil")
	}
}
