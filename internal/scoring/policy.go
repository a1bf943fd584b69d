// Package scoring converts raw campaign aggregate counters into a tier,
// a 0-100 score, and a confidence bucket.
//
// Every function in this package is pure and total: the same snapshot always
// produces the same scorecard, degenerate inputs (zero sends, zero
// denominators) produce zeros rather than NaN, and nothing here touches the
// database, the network, or the clock.
package scoring

// Bucket maps an upper bound (exclusive) to the points awarded below it.
// Buckets must be sorted by ascending UpTo; the entry with UpTo == 0 is the
// catch-all for values at or above every bound.
type Bucket struct {
	UpTo   int
	Points float64
}

// Policy holds every tunable constant of the campaign scoring formula.
// All call sites share one policy instance so the formula cannot silently
// drift between callers.
type Policy struct {
	// MinSends is the sample-size floor below which no score is produced.
	MinSends int

	// BenchmarkReplyRate is the reply rate (percent) treated as par when
	// computing efficiency points.
	BenchmarkReplyRate float64

	// Sub-score caps.
	EfficiencyCap  float64
	ReliabilityCap float64
	HealthCap      float64
	MomentumCap    float64

	// PositivePointsPerPct converts a measured positive-reply-rate percent
	// into efficiency points. Applied only when the campaign tracks
	// positive replies; untracked campaigns contribute zero.
	PositivePointsPerPct float64
	PositiveTermCap      float64

	// Reliability buckets over bounce rate percent. UpTo is interpreted as
	// a float percent bound here, stored as Points thresholds below.
	ReliabilityBuckets []RateBucket

	// Momentum buckets over total sends.
	MomentumBuckets []Bucket

	// Tier thresholds over the adjusted score.
	StarThreshold     float64
	SolidThreshold    float64
	OptimizeThreshold float64
}

// RateBucket maps an upper bound (exclusive, percent) to points.
type RateBucket struct {
	UpTo   float64
	Points float64
}

// DefaultPolicy returns the canonical production scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		MinSends:           100,
		BenchmarkReplyRate: 2.8,

		EfficiencyCap:  40,
		ReliabilityCap: 20,
		HealthCap:      20,
		MomentumCap:    20,

		PositivePointsPerPct: 4,
		PositiveTermCap:      20,

		ReliabilityBuckets: []RateBucket{
			{UpTo: 2, Points: 20},
			{UpTo: 3, Points: 15},
			{UpTo: 5, Points: 10},
			{UpTo: 0, Points: 0},
		},

		MomentumBuckets: []Bucket{
			{UpTo: 200, Points: 10},
			{UpTo: 500, Points: 12},
			{UpTo: 1000, Points: 15},
			{UpTo: 2000, Points: 18},
			{UpTo: 0, Points: 20},
		},

		StarThreshold:     70,
		SolidThreshold:    50,
		OptimizeThreshold: 30,
	}
}

// lookupRate resolves a rate bucket table. The UpTo == 0 entry is the
// catch-all and must come last.
func lookupRate(buckets []RateBucket, v float64) float64 {
	for _, b := range buckets {
		if b.UpTo == 0 {
			return b.Points
		}
		if v < b.UpTo {
			return b.Points
		}
	}
	return 0
}

// lookup resolves an integer bucket table. The UpTo == 0 entry is the
// catch-all and must come last.
func lookup(buckets []Bucket, v int) float64 {
	for _, b := range buckets {
		if b.UpTo == 0 {
			return b.Points
		}
		if v < b.UpTo {
			return b.Points
		}
	}
	return 0
}
