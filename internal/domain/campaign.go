package domain

import "time"

// CampaignStatus enumerates the lifecycle states of an outreach campaign.
type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignArchived  CampaignStatus = "archived"
)

// CampaignMetrics is an immutable snapshot of one campaign's aggregate
// counters, as read from the warehouse. It is fetched, scored, and discarded;
// nothing in this module mutates it.
type CampaignMetrics struct {
	CampaignID   string         `json:"campaign_id" db:"campaign_id"`
	CampaignName string         `json:"campaign_name" db:"campaign_name"`
	Status       CampaignStatus `json:"status" db:"status"`

	TotalSent    int `json:"total_sent" db:"total_sent"`
	TotalReplied int `json:"total_replied" db:"total_replied"`
	TotalBounced int `json:"total_bounced" db:"total_bounced"`

	// Rates are percentages in [0,100].
	ReplyRate  float64 `json:"reply_rate" db:"reply_rate"`
	BounceRate float64 `json:"bounce_rate" db:"bounce_rate"`

	// PositiveReplyRate is only meaningful when PositiveTracked is true.
	// Campaigns without sentiment classification report zero here.
	PositiveReplyRate float64 `json:"positive_reply_rate" db:"positive_reply_rate"`
	PositiveTracked   bool    `json:"positive_tracked" db:"positive_tracked"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Tier is the ordinal performance classification of a campaign.
type Tier string

const (
	TierStar         Tier = "star"
	TierSolid        Tier = "solid"
	TierOptimize     Tier = "optimize"
	TierProblem      Tier = "problem"
	TierInsufficient Tier = "insufficient"
)

// Rank returns the ordinal rank of a tier, higher is better.
// Insufficient sits outside the ordering and ranks lowest.
func (t Tier) Rank() int {
	switch t {
	case TierStar:
		return 4
	case TierSolid:
		return 3
	case TierOptimize:
		return 2
	case TierProblem:
		return 1
	default:
		return 0
	}
}

// Confidence reflects how statistically reliable a score is given the
// campaign's sample size.
type Confidence string

const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceGood   Confidence = "good"
	ConfidenceHigh   Confidence = "high"
)

// ScoreBreakdown holds the four capped sub-score components that sum into
// the raw campaign score, before the confidence multiplier is applied.
type ScoreBreakdown struct {
	Efficiency  float64 `json:"efficiency"`
	Reliability float64 `json:"reliability"`
	Health      float64 `json:"health"`
	Momentum    float64 `json:"momentum"`
}

// CampaignScorecard is the derived value object produced by scoring a
// CampaignMetrics snapshot. Score is nil if and only if Tier is insufficient.
type CampaignScorecard struct {
	CampaignID     string         `json:"campaign_id"`
	CampaignName   string         `json:"campaign_name"`
	Tier           Tier           `json:"tier"`
	Score          *int           `json:"score"`
	Confidence     Confidence     `json:"confidence"`
	Recommendation string         `json:"recommendation"`
	Breakdown      ScoreBreakdown `json:"score_breakdown"`
	ScoredAt       time.Time      `json:"scored_at"`
}
