package domain

import "time"

// LeadStatus tracks a lead through the inbox workflow.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadReviewing LeadStatus = "reviewing"
	LeadQualified LeadStatus = "qualified"
	LeadRejected  LeadStatus = "rejected"
)

// Lead represents one inbound reply captured into the lead inbox.
type Lead struct {
	ID         string     `json:"id" db:"id"`
	Email      string     `json:"email" db:"email"`
	Name       string     `json:"name" db:"name"`
	Company    string     `json:"company" db:"company"`
	Snippet    string     `json:"snippet" db:"snippet"`
	Status     LeadStatus `json:"status" db:"status"`
	CampaignID *string    `json:"campaign_id" db:"campaign_id"`
	ReceivedAt time.Time  `json:"received_at" db:"received_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// Unmapped reports whether the lead has no campaign attribution yet.
func (l Lead) Unmapped() bool {
	return l.CampaignID == nil || *l.CampaignID == ""
}

// LeadMapping is one campaign attribution returned by the remap workflow.
type LeadMapping struct {
	LeadID     string  `json:"lead_id"`
	CampaignID string  `json:"campaign_id"`
	Confidence float64 `json:"confidence"`
}
