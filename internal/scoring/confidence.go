package scoring

import "github.com/ignite/outreach-analytics/internal/domain"

// ConfidenceFor maps a sample size to its confidence bucket. Total over all
// non-negative inputs; negative inputs are treated as zero.
func ConfidenceFor(totalSent int) domain.Confidence {
	switch {
	case totalSent < 50:
		return domain.ConfidenceNone
	case totalSent < 200:
		return domain.ConfidenceLow
	case totalSent < 500:
		return domain.ConfidenceMedium
	case totalSent < 1000:
		return domain.ConfidenceGood
	default:
		return domain.ConfidenceHigh
	}
}

// MultiplierFor maps a sample size to the damping multiplier applied to the
// raw score. A zero multiplier means the sample is too small to score at all.
func MultiplierFor(totalSent int) float64 {
	switch {
	case totalSent < 100:
		return 0
	case totalSent < 300:
		return 0.7
	case totalSent < 500:
		return 0.85
	case totalSent < 1000:
		return 0.95
	default:
		return 1.0
	}
}
