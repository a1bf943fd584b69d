package scoring

import (
	"math"

	"github.com/ignite/outreach-analytics/internal/domain"
)

// Recommendations attached to each tier.
const (
	RecScale       = "Scale"
	RecScaleVerify = "Scale (verify)"
	RecMaintain    = "Maintain"
	RecOptimize    = "Optimize"
	RecPause       = "Pause"
	RecGatherData  = "Gather Data"
)

// Score produces the scorecard for one campaign snapshot under the given
// policy. The returned Score is nil if and only if the tier is insufficient,
// which happens exactly when TotalSent is below the policy's minimum.
func Score(p Policy, m domain.CampaignMetrics) domain.CampaignScorecard {
	card := domain.CampaignScorecard{
		CampaignID:   m.CampaignID,
		CampaignName: m.CampaignName,
		Confidence:   ConfidenceFor(m.TotalSent),
	}

	if m.TotalSent < p.MinSends {
		card.Tier = domain.TierInsufficient
		card.Recommendation = RecGatherData
		return card
	}

	card.Breakdown = domain.ScoreBreakdown{
		Efficiency:  EfficiencyPoints(p, m),
		Reliability: ReliabilityPoints(p, m.BounceRate),
		Health:      HealthPoints(p, m.TotalSent, m.TotalBounced),
		Momentum:    MomentumPoints(p, m.TotalSent),
	}

	raw := card.Breakdown.Efficiency + card.Breakdown.Reliability +
		card.Breakdown.Health + card.Breakdown.Momentum
	adjusted := raw * MultiplierFor(m.TotalSent)

	score := int(math.Round(adjusted))
	card.Score = &score

	switch {
	case adjusted >= p.StarThreshold:
		card.Tier = domain.TierStar
		card.Recommendation = RecScale
		if card.Confidence == domain.ConfidenceLow {
			// Tier stands, but a thin sample means: verify before acting.
			card.Recommendation = RecScaleVerify
		}
	case adjusted >= p.SolidThreshold:
		card.Tier = domain.TierSolid
		card.Recommendation = RecMaintain
	case adjusted >= p.OptimizeThreshold:
		card.Tier = domain.TierOptimize
		card.Recommendation = RecOptimize
	default:
		card.Tier = domain.TierProblem
		card.Recommendation = RecPause
	}

	return card
}

// EfficiencyPoints awards points for reply performance against the benchmark
// rate, plus a measured positive-reply term for campaigns that track reply
// sentiment. Capped at the policy's efficiency cap.
func EfficiencyPoints(p Policy, m domain.CampaignMetrics) float64 {
	if p.BenchmarkReplyRate <= 0 {
		return 0
	}
	pts := (m.ReplyRate / p.BenchmarkReplyRate) * 20
	if m.PositiveTracked {
		positive := m.PositiveReplyRate * p.PositivePointsPerPct
		if positive > p.PositiveTermCap {
			positive = p.PositiveTermCap
		}
		pts += positive
	}
	return clamp(pts, 0, p.EfficiencyCap)
}

// ReliabilityPoints buckets the bounce rate percent into points.
func ReliabilityPoints(p Policy, bounceRate float64) float64 {
	return clamp(lookupRate(p.ReliabilityBuckets, bounceRate), 0, p.ReliabilityCap)
}

// HealthPoints scores the delivery ratio. A campaign with zero sends has no
// deliveries to measure and scores zero rather than dividing by zero.
func HealthPoints(p Policy, totalSent, totalBounced int) float64 {
	if totalSent <= 0 {
		return 0
	}
	deliveryRate := float64(totalSent-totalBounced) / float64(totalSent) * 100
	return clamp(deliveryRate/5, 0, p.HealthCap)
}

// MomentumPoints buckets sending volume into points.
func MomentumPoints(p Policy, totalSent int) float64 {
	return clamp(lookup(p.MomentumBuckets, totalSent), 0, p.MomentumCap)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
