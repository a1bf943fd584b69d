// Package callcenter aggregates logged call activity into per-rep coaching
// scores. Like campaign scoring, everything here is a pure single-pass
// computation over an already-fetched snapshot.
package callcenter

import (
	"math"

	"github.com/ignite/outreach-analytics/internal/domain"
)

// QualityPolicy holds the tunable constants of the coaching formula.
type QualityPolicy struct {
	// MinCalls is the sample floor below which no score is produced.
	MinCalls int

	// Benchmark rates (percent) treated as par for full points.
	BenchmarkConnectRate float64
	BenchmarkOutcomeRate float64

	// IdealTalkRatio is the rep-talk share considered best practice.
	IdealTalkRatio float64

	// Sub-score caps.
	ConnectCap  float64
	OutcomeCap  float64
	DurationCap float64
	TalkCap     float64
}

// DefaultQualityPolicy returns the production coaching policy.
func DefaultQualityPolicy() QualityPolicy {
	return QualityPolicy{
		MinCalls:             20,
		BenchmarkConnectRate: 25,
		BenchmarkOutcomeRate: 30,
		IdealTalkRatio:       0.45,
		ConnectCap:           30,
		OutcomeCap:           30,
		DurationCap:          20,
		TalkCap:              20,
	}
}

// Assess produces the coaching score for one rep's aggregated call stats.
// Score is nil when the rep logged fewer calls than the policy minimum.
func Assess(p QualityPolicy, stats domain.CallStats) domain.CoachingScore {
	score := domain.CoachingScore{
		RepID:   stats.RepID,
		RepName: stats.RepName,
	}

	if stats.TotalCalls < p.MinCalls {
		score.FocusAreas = []string{"Log more calls to unlock coaching insights"}
		return score
	}

	score.Breakdown = domain.CallBreakdown{
		ConnectRate: connectPoints(p, stats),
		OutcomeRate: outcomePoints(p, stats),
		Duration:    durationPoints(p, stats.AvgDurationSec),
		TalkBalance: talkPoints(p, stats.AvgTalkRatio),
	}

	total := int(math.Round(score.Breakdown.ConnectRate + score.Breakdown.OutcomeRate +
		score.Breakdown.Duration + score.Breakdown.TalkBalance))
	score.Score = &total
	score.Grade = gradeFor(total)
	score.FocusAreas = focusAreas(p, score.Breakdown, stats)

	return score
}

func connectPoints(p QualityPolicy, stats domain.CallStats) float64 {
	if stats.TotalCalls == 0 || p.BenchmarkConnectRate <= 0 {
		return 0
	}
	rate := float64(stats.ConnectedCalls) / float64(stats.TotalCalls) * 100
	return clamp(rate/p.BenchmarkConnectRate*p.ConnectCap, 0, p.ConnectCap)
}

func outcomePoints(p QualityPolicy, stats domain.CallStats) float64 {
	if stats.ConnectedCalls == 0 || p.BenchmarkOutcomeRate <= 0 {
		return 0
	}
	rate := float64(stats.PositiveOutcomes) / float64(stats.ConnectedCalls) * 100
	return clamp(rate/p.BenchmarkOutcomeRate*p.OutcomeCap, 0, p.OutcomeCap)
}

// durationPoints rewards conversations long enough for discovery without
// rewarding calls that drag.
func durationPoints(p QualityPolicy, avgSec float64) float64 {
	var pts float64
	switch {
	case avgSec < 60:
		pts = 5
	case avgSec < 120:
		pts = 10
	case avgSec < 300:
		pts = 20
	case avgSec < 600:
		pts = 15
	default:
		pts = 10
	}
	return clamp(pts, 0, p.DurationCap)
}

func talkPoints(p QualityPolicy, avgRatio float64) float64 {
	if avgRatio <= 0 {
		return 0
	}
	drift := math.Abs(avgRatio - p.IdealTalkRatio)
	return clamp(p.TalkCap-drift*50, 0, p.TalkCap)
}

func gradeFor(score int) domain.CoachingGrade {
	switch {
	case score >= 85:
		return domain.GradeA
	case score >= 70:
		return domain.GradeB
	case score >= 55:
		return domain.GradeC
	case score >= 40:
		return domain.GradeD
	default:
		return domain.GradeF
	}
}

// focusAreas flags each component sitting below 60% of its cap.
func focusAreas(p QualityPolicy, b domain.CallBreakdown, stats domain.CallStats) []string {
	var areas []string
	if b.ConnectRate < p.ConnectCap*0.6 {
		areas = append(areas, "Increase dial-to-connect rate")
	}
	if b.OutcomeRate < p.OutcomeCap*0.6 {
		areas = append(areas, "Improve discovery and closing on connected calls")
	}
	if b.Duration < p.DurationCap*0.6 {
		if stats.AvgDurationSec < 120 {
			areas = append(areas, "Conversations are running short; slow down the pitch")
		} else {
			areas = append(areas, "Conversations are running long; tighten the agenda")
		}
	}
	if b.TalkBalance < p.TalkCap*0.6 {
		areas = append(areas, "Balance talk and listen time")
	}
	return areas
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
