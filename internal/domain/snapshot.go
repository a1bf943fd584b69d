package domain

import "time"

// DashboardSnapshot is one complete collection cycle's output: everything the
// dashboard needs, computed together so the numbers are mutually consistent.
type DashboardSnapshot struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`

	Scorecards     []CampaignScorecard  `json:"scorecards"`
	Deliverability *DeliverabilityStats `json:"deliverability,omitempty"`
	Risk           *RiskResult          `json:"risk,omitempty"`
	Coaching       []CoachingScore      `json:"coaching"`

	// Errors records which sections failed to refresh this cycle. A section
	// listed here carries the previous cycle's data.
	Errors []string `json:"errors,omitempty"`
}
