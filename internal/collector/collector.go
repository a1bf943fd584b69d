// Package collector runs the background collection loop: every interval it
// recomputes campaign scorecards, deliverability risk, and coaching scores,
// publishes the result as one snapshot, and archives a daily copy.
package collector

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/outreach-analytics/internal/config"
	"github.com/ignite/outreach-analytics/internal/domain"
)

// InsightsService is the analytics surface the collector polls.
type InsightsService interface {
	CampaignScorecards(ctx context.Context) ([]domain.CampaignScorecard, error)
	DeliverabilityRisk(ctx context.Context) (*domain.RiskResult, *domain.DeliverabilityStats, error)
	CoachingScores(ctx context.Context) ([]domain.CoachingScore, error)
}

// SnapshotStore is the write-through cache for published snapshots.
type SnapshotStore interface {
	Put(ctx context.Context, snap *domain.DashboardSnapshot) error
}

// Exporter archives snapshots for offline reporting.
type Exporter interface {
	Export(ctx context.Context, snap *domain.DashboardSnapshot) error
}

// Collector polls the insights service and holds the latest snapshot.
type Collector struct {
	insights InsightsService
	store    SnapshotStore
	exporter Exporter
	config   config.PollingConfig

	mu            sync.RWMutex
	latest        *domain.DashboardSnapshot
	lastFetch     time.Time
	lastExportDay string
	isRunning     bool
}

// New creates a collector. store and exporter may be nil; those steps are
// skipped.
func New(insights InsightsService, store SnapshotStore, exporter Exporter, cfg config.PollingConfig) *Collector {
	return &Collector{
		insights: insights,
		store:    store,
		exporter: exporter,
		config:   cfg,
	}
}

// Start begins the polling loop
func (c *Collector) Start(ctx context.Context) {
	c.mu.Lock()
	c.isRunning = true
	c.mu.Unlock()

	log.Println("Starting analytics collector...")

	// Initial fetch
	c.collect(ctx)

	ticker := time.NewTicker(c.config.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Stopping analytics collector...")
			c.mu.Lock()
			c.isRunning = false
			c.mu.Unlock()
			return
		case <-ticker.C:
			c.collect(ctx)
		}
	}
}

// collect runs one full collection cycle. A section that fails keeps its
// previous cycle's data and is recorded in the snapshot's Errors.
func (c *Collector) collect(ctx context.Context) {
	startTime := time.Now()

	prev := c.Latest()
	snap := &domain.DashboardSnapshot{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
	}

	if cards, err := c.insights.CampaignScorecards(ctx); err != nil {
		log.Printf("Error collecting campaign scorecards: %v", err)
		snap.Errors = append(snap.Errors, "scorecards")
		if prev != nil {
			snap.Scorecards = prev.Scorecards
		}
	} else {
		snap.Scorecards = cards
	}

	if risk, stats, err := c.insights.DeliverabilityRisk(ctx); err != nil {
		log.Printf("Error collecting deliverability risk: %v", err)
		snap.Errors = append(snap.Errors, "deliverability")
		if prev != nil {
			snap.Risk = prev.Risk
			snap.Deliverability = prev.Deliverability
		}
	} else {
		snap.Risk = risk
		snap.Deliverability = stats
	}

	if scores, err := c.insights.CoachingScores(ctx); err != nil {
		log.Printf("Error collecting coaching scores: %v", err)
		snap.Errors = append(snap.Errors, "coaching")
		if prev != nil {
			snap.Coaching = prev.Coaching
		}
	} else {
		snap.Coaching = scores
	}

	c.mu.Lock()
	c.latest = snap
	c.lastFetch = time.Now()
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Put(ctx, snap); err != nil {
			log.Printf("Error caching snapshot: %v", err)
		}
	}

	c.maybeExport(ctx, snap)

	log.Printf("Collection cycle completed in %v (%d scorecards, %d sections failed)",
		time.Since(startTime), len(snap.Scorecards), len(snap.Errors))
}

// maybeExport archives one snapshot per UTC day, at or after the configured
// hour. Cycles with failed sections are not archived.
func (c *Collector) maybeExport(ctx context.Context, snap *domain.DashboardSnapshot) {
	if c.exporter == nil || len(snap.Errors) > 0 {
		return
	}

	now := snap.GeneratedAt
	if now.Hour() < c.config.ExportHourUTC {
		return
	}
	day := now.Format("2006-01-02")

	c.mu.Lock()
	if c.lastExportDay == day {
		c.mu.Unlock()
		return
	}
	c.lastExportDay = day
	c.mu.Unlock()

	if err := c.exporter.Export(ctx, snap); err != nil {
		log.Printf("Error exporting snapshot: %v", err)
		// Allow a retry next cycle
		c.mu.Lock()
		c.lastExportDay = ""
		c.mu.Unlock()
	}
}

// CollectNow triggers an immediate collection cycle.
func (c *Collector) CollectNow(ctx context.Context) {
	c.collect(ctx)
}

// Latest returns the most recent snapshot, or nil before the first cycle.
func (c *Collector) Latest() *domain.DashboardSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

// LastFetchTime returns when the last cycle finished.
func (c *Collector) LastFetchTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastFetch
}

// IsRunning reports whether the polling loop is active.
func (c *Collector) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isRunning
}
