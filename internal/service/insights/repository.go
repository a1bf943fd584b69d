package insights

import (
	"context"
	"time"

	"github.com/ignite/outreach-analytics/internal/domain"
)

// MetricsRepository defines the data access contract for aggregate snapshots.
// Implementations must be safe for concurrent use.
type MetricsRepository interface {
	// CampaignMetrics returns aggregate counters for all campaigns updated
	// since the window start, newest first.
	CampaignMetrics(ctx context.Context, since time.Time) ([]domain.CampaignMetrics, error)

	// CampaignMetricsByID returns one campaign's aggregate counters.
	// Returns ErrNotFound if the campaign doesn't exist.
	CampaignMetricsByID(ctx context.Context, id string) (*domain.CampaignMetrics, error)

	// DeliverabilityStats returns the account-wide deliverability aggregate.
	DeliverabilityStats(ctx context.Context) (*domain.DeliverabilityStats, error)

	// CallStats returns per-rep call aggregates over the window.
	CallStats(ctx context.Context, since time.Time) ([]domain.CallStats, error)
}
