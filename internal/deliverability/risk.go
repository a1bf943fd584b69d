// Package deliverability estimates sending-reputation risk from aggregate
// domain health stats, and runs DNS blacklist checks for sending domains.
package deliverability

import (
	"fmt"
	"math"
	"sort"

	"github.com/ignite/outreach-analytics/internal/domain"
)

// Risk weights. Each component contributes independently; the total is
// clamped into [0,100].
const (
	bounceRiskCap     = 25.0
	bouncePerPct      = 5.0
	reputationRiskCap = 25.0
	authRiskCap       = 20.0
)

// Level thresholds over the total risk score.
const (
	mediumRiskFloor = 30
	highRiskFloor   = 60
)

// EstimateRisk computes the 0-100 deliverability risk score for a stats
// snapshot. Pure and total: zero-domain accounts produce a defined result,
// and the factor list is sorted by severity then name so identical inputs
// always serialize identically.
func EstimateRisk(stats domain.DeliverabilityStats) domain.RiskResult {
	bounceRisk := math.Min(bounceRiskCap, stats.AvgBounceRate*bouncePerPct)

	reputationRisk := 0.0
	if stats.BlacklistedDomains > 0 {
		reputationRisk = reputationRiskCap
	} else {
		reputationRisk = math.Max(0, reputationRiskCap-stats.AvgHealthScore/4)
	}

	totalDomains := stats.TotalDomains
	if totalDomains < 1 {
		totalDomains = 1
	}
	authRisk := authRiskCap - (float64(stats.DomainsWithFullAuth)/float64(totalDomains))*authRiskCap

	total := int(math.Round(bounceRisk + reputationRisk + authRisk))
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return domain.RiskResult{
		RiskScore:   total,
		RiskLevel:   levelFor(total),
		RiskFactors: collectFactors(stats),
	}
}

func levelFor(score int) domain.RiskLevel {
	switch {
	case score < mediumRiskFloor:
		return domain.RiskLow
	case score < highRiskFloor:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

// collectFactors tests each sub-condition independently and returns the
// matches sorted by severity (high first), then factor name.
func collectFactors(stats domain.DeliverabilityStats) []domain.RiskFactor {
	var factors []domain.RiskFactor

	if stats.AvgBounceRate > 5 {
		factors = append(factors, domain.RiskFactor{
			Factor:   "bounce_rate",
			Severity: domain.SeverityHigh,
			Value:    fmt.Sprintf("%.1f%% average bounce rate", stats.AvgBounceRate),
		})
	} else if stats.AvgBounceRate > 2 {
		factors = append(factors, domain.RiskFactor{
			Factor:   "bounce_rate",
			Severity: domain.SeverityMedium,
			Value:    fmt.Sprintf("%.1f%% average bounce rate", stats.AvgBounceRate),
		})
	}

	if stats.BlacklistedDomains > 0 {
		factors = append(factors, domain.RiskFactor{
			Factor:   "blacklist",
			Severity: domain.SeverityHigh,
			Value:    fmt.Sprintf("%d domain(s) on a blacklist", stats.BlacklistedDomains),
		})
	}

	if stats.TotalDomains > 0 && stats.DomainsWithFullAuth < stats.TotalDomains {
		missing := stats.TotalDomains - stats.DomainsWithFullAuth
		sev := domain.SeverityMedium
		if missing*2 > stats.TotalDomains {
			sev = domain.SeverityHigh
		}
		factors = append(factors, domain.RiskFactor{
			Factor:   "authentication",
			Severity: sev,
			Value:    fmt.Sprintf("%d of %d domains missing full SPF/DKIM/DMARC", missing, stats.TotalDomains),
		})
	}

	if stats.WarmingMailboxes > 0 {
		factors = append(factors, domain.RiskFactor{
			Factor:   "warmup",
			Severity: domain.SeverityLow,
			Value:    fmt.Sprintf("%d mailbox(es) still warming up", stats.WarmingMailboxes),
		})
	}

	sort.SliceStable(factors, func(i, j int) bool {
		ri, rj := severityRank(factors[i].Severity), severityRank(factors[j].Severity)
		if ri != rj {
			return ri > rj
		}
		return factors[i].Factor < factors[j].Factor
	})
	return factors
}

func severityRank(s domain.Severity) int {
	switch s {
	case domain.SeverityHigh:
		return 3
	case domain.SeverityMedium:
		return 2
	default:
		return 1
	}
}
