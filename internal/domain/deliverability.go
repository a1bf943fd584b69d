package domain

import "time"

// DomainStatus enumerates the lifecycle states of a sending domain.
type DomainStatus string

const (
	DomainActive      DomainStatus = "active"
	DomainWarming     DomainStatus = "warming"
	DomainBlacklisted DomainStatus = "blacklisted"
	DomainRetired     DomainStatus = "retired"
)

// SendingDomain represents one sending domain and its current health row.
type SendingDomain struct {
	ID          string       `json:"id" db:"id"`
	Domain      string       `json:"domain" db:"domain"`
	Status      DomainStatus `json:"status" db:"status"`
	HealthScore float64      `json:"health_score" db:"health_score"`
	BounceRate  float64      `json:"bounce_rate" db:"bounce_rate"`

	// Authentication completeness: SPF + DKIM + DMARC all verified.
	SPFVerified   bool `json:"spf_verified" db:"spf_verified"`
	DKIMVerified  bool `json:"dkim_verified" db:"dkim_verified"`
	DMARCVerified bool `json:"dmarc_verified" db:"dmarc_verified"`

	Blacklisted     bool       `json:"blacklisted" db:"blacklisted"`
	LastHealthCheck *time.Time `json:"last_health_check" db:"last_health_check"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// FullAuth reports whether the domain has complete email authentication.
func (d SendingDomain) FullAuth() bool {
	return d.SPFVerified && d.DKIMVerified && d.DMARCVerified
}

// DeliverabilityStats is an aggregate snapshot across all sending domains
// and mailboxes, recomputed on every collection cycle.
type DeliverabilityStats struct {
	AvgBounceRate       float64 `json:"avg_bounce_rate"`
	BlacklistedDomains  int     `json:"blacklisted_domains"`
	DomainsWithFullAuth int     `json:"domains_with_full_auth"`
	TotalDomains        int     `json:"total_domains"`
	AvgHealthScore      float64 `json:"avg_health_score"`
	WarmingMailboxes    int     `json:"warming_mailboxes"`
}

// RiskLevel buckets a risk score into an actionable label.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Severity grades an individual risk factor.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RiskFactor is one structured contributor to the overall risk estimate.
type RiskFactor struct {
	Factor   string   `json:"factor"`
	Severity Severity `json:"severity"`
	Value    string   `json:"value"`
}

// RiskResult is the deliverability risk estimate for a stats snapshot.
// RiskScore is always within [0,100].
type RiskResult struct {
	RiskScore   int          `json:"risk_score"`
	RiskLevel   RiskLevel    `json:"risk_level"`
	RiskFactors []RiskFactor `json:"risk_factors"`
}
