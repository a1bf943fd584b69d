package leads

import (
	"context"

	"github.com/ignite/outreach-analytics/internal/domain"
)

// Repository defines the data access contract for leads.
// Implementations must be safe for concurrent use.
type Repository interface {
	// List returns leads matching the filter, newest first, plus the total
	// match count before pagination.
	List(ctx context.Context, f ListFilter) ([]domain.Lead, int, error)

	// Get returns a single lead. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Lead, error)

	// Unmapped returns up to limit leads without campaign attribution,
	// oldest first so the backlog drains in order.
	Unmapped(ctx context.Context, limit int) ([]domain.Lead, error)

	// AssignCampaign sets a lead's campaign attribution.
	AssignCampaign(ctx context.Context, leadID, campaignID string) error
}

// ListFilter controls pagination and filtering for lead lists.
type ListFilter struct {
	Status     string
	CampaignID string
	Search     string
	Limit      int
	Offset     int
}
