package insights

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ignite/outreach-analytics/internal/callcenter"
	"github.com/ignite/outreach-analytics/internal/deliverability"
	"github.com/ignite/outreach-analytics/internal/domain"
	"github.com/ignite/outreach-analytics/internal/scoring"
)

// Service implements the analytics business logic. All public methods are
// safe for concurrent use if the underlying repository is concurrency-safe.
type Service struct {
	repo    MetricsRepository
	policy  scoring.Policy
	quality callcenter.QualityPolicy
	window  time.Duration
	now     func() time.Time
}

// NewService creates an insights service backed by the given repository.
func NewService(repo MetricsRepository, policy scoring.Policy, quality callcenter.QualityPolicy, window time.Duration) *Service {
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}
	return &Service{
		repo:    repo,
		policy:  policy,
		quality: quality,
		window:  window,
		now:     time.Now,
	}
}

// CampaignScorecards scores every campaign in the analysis window, best
// score first; insufficient-sample campaigns sort last.
func (s *Service) CampaignScorecards(ctx context.Context) ([]domain.CampaignScorecard, error) {
	since := s.now().Add(-s.window)
	metrics, err := s.repo.CampaignMetrics(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("fetch campaign metrics: %w", err)
	}

	scoredAt := s.now().UTC()
	cards := make([]domain.CampaignScorecard, 0, len(metrics))
	for _, m := range metrics {
		card := scoring.Score(s.policy, m)
		card.ScoredAt = scoredAt
		cards = append(cards, card)
	}

	sort.SliceStable(cards, func(i, j int) bool {
		si, sj := cards[i].Score, cards[j].Score
		if si == nil || sj == nil {
			return sj == nil && si != nil
		}
		return *si > *sj
	})
	return cards, nil
}

// CampaignScorecard scores a single campaign.
func (s *Service) CampaignScorecard(ctx context.Context, id string) (*domain.CampaignScorecard, error) {
	m, err := s.repo.CampaignMetricsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	card := scoring.Score(s.policy, *m)
	card.ScoredAt = s.now().UTC()
	return &card, nil
}

// DeliverabilityRisk fetches the current aggregate stats and estimates risk.
func (s *Service) DeliverabilityRisk(ctx context.Context) (*domain.RiskResult, *domain.DeliverabilityStats, error) {
	stats, err := s.repo.DeliverabilityStats(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch deliverability stats: %w", err)
	}
	risk := deliverability.EstimateRisk(*stats)
	return &risk, stats, nil
}

// CoachingScores assesses every rep with activity in the analysis window,
// highest score first; ungradeable reps sort last.
func (s *Service) CoachingScores(ctx context.Context) ([]domain.CoachingScore, error) {
	since := s.now().Add(-s.window)
	stats, err := s.repo.CallStats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("fetch call stats: %w", err)
	}

	scores := make([]domain.CoachingScore, 0, len(stats))
	for _, st := range stats {
		scores = append(scores, callcenter.Assess(s.quality, st))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		si, sj := scores[i].Score, scores[j].Score
		if si == nil || sj == nil {
			return sj == nil && si != nil
		}
		return *si > *sj
	})
	return scores, nil
}
