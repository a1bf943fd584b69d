package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ignite/outreach-analytics/internal/config"
	"github.com/ignite/outreach-analytics/internal/domain"
)

type stubInsights struct {
	cards    []domain.CampaignScorecard
	cardsErr error
	risk     *domain.RiskResult
	stats    *domain.DeliverabilityStats
	riskErr  error
	coaching []domain.CoachingScore
}

func (s *stubInsights) CampaignScorecards(ctx context.Context) ([]domain.CampaignScorecard, error) {
	return s.cards, s.cardsErr
}

func (s *stubInsights) DeliverabilityRisk(ctx context.Context) (*domain.RiskResult, *domain.DeliverabilityStats, error) {
	return s.risk, s.stats, s.riskErr
}

func (s *stubInsights) CoachingScores(ctx context.Context) ([]domain.CoachingScore, error) {
	return s.coaching, nil
}

type memStore struct {
	puts []*domain.DashboardSnapshot
}

func (m *memStore) Put(ctx context.Context, snap *domain.DashboardSnapshot) error {
	m.puts = append(m.puts, snap)
	return nil
}

type memExporter struct {
	exports []*domain.DashboardSnapshot
	err     error
}

func (m *memExporter) Export(ctx context.Context, snap *domain.DashboardSnapshot) error {
	if m.err != nil {
		return m.err
	}
	m.exports = append(m.exports, snap)
	return nil
}

func testConfig() config.PollingConfig {
	return config.PollingConfig{IntervalSeconds: 60, AnalysisWindowDays: 30, ExportHourUTC: 0}
}

func TestCollectNow_PublishesSnapshot(t *testing.T) {
	score := 86
	ins := &stubInsights{
		cards: []domain.CampaignScorecard{{CampaignID: "c-1", Score: &score, Tier: domain.TierStar}},
		risk:  &domain.RiskResult{RiskScore: 12, RiskLevel: domain.RiskLow},
		stats: &domain.DeliverabilityStats{TotalDomains: 4},
	}
	store := &memStore{}

	c := New(ins, store, nil, testConfig())
	c.CollectNow(context.Background())

	snap := c.Latest()
	if snap == nil {
		t.Fatal("Latest() is nil after CollectNow")
	}
	if snap.ID == "" {
		t.Error("snapshot should have an ID")
	}
	if len(snap.Scorecards) != 1 || snap.Risk == nil || snap.Deliverability == nil {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Errors) != 0 {
		t.Errorf("snapshot errors = %v", snap.Errors)
	}
	if len(store.puts) != 1 {
		t.Errorf("store received %d puts, want 1", len(store.puts))
	}
	if c.LastFetchTime().IsZero() {
		t.Error("LastFetchTime should be set")
	}
}

func TestCollectNow_FailedSectionKeepsPreviousData(t *testing.T) {
	score := 52
	ins := &stubInsights{
		cards: []domain.CampaignScorecard{{CampaignID: "c-1", Score: &score}},
		risk:  &domain.RiskResult{RiskScore: 30, RiskLevel: domain.RiskMedium},
		stats: &domain.DeliverabilityStats{TotalDomains: 2},
	}

	c := New(ins, nil, nil, testConfig())
	c.CollectNow(context.Background())

	// Second cycle: scorecards fail but risk still works
	ins.cardsErr = errors.New("db timeout")
	c.CollectNow(context.Background())

	snap := c.Latest()
	if len(snap.Errors) != 1 || snap.Errors[0] != "scorecards" {
		t.Errorf("snapshot errors = %v", snap.Errors)
	}
	if len(snap.Scorecards) != 1 {
		t.Errorf("failed section should carry previous data, got %d scorecards", len(snap.Scorecards))
	}
	if snap.Risk == nil || snap.Risk.RiskScore != 30 {
		t.Error("healthy sections should still refresh")
	}
}

func TestMaybeExport_OncePerDay(t *testing.T) {
	ins := &stubInsights{risk: &domain.RiskResult{}, stats: &domain.DeliverabilityStats{}}
	exp := &memExporter{}

	c := New(ins, nil, exp, testConfig())
	c.CollectNow(context.Background())
	c.CollectNow(context.Background())

	if len(exp.exports) != 1 {
		t.Errorf("exported %d snapshots, want 1 per day", len(exp.exports))
	}
}

func TestMaybeExport_SkipsDegradedSnapshots(t *testing.T) {
	ins := &stubInsights{riskErr: errors.New("db down")}
	exp := &memExporter{}

	c := New(ins, nil, exp, testConfig())
	c.CollectNow(context.Background())

	if len(exp.exports) != 0 {
		t.Error("degraded snapshots should not be archived")
	}
}

func TestMaybeExport_RetriesAfterFailure(t *testing.T) {
	ins := &stubInsights{risk: &domain.RiskResult{}, stats: &domain.DeliverabilityStats{}}
	exp := &memExporter{err: errors.New("s3 unavailable")}

	c := New(ins, nil, exp, testConfig())
	c.CollectNow(context.Background())

	exp.err = nil
	c.CollectNow(context.Background())

	if len(exp.exports) != 1 {
		t.Errorf("exported %d snapshots, want 1 after retry", len(exp.exports))
	}
}

func TestStartStop(t *testing.T) {
	ins := &stubInsights{risk: &domain.RiskResult{}, stats: &domain.DeliverabilityStats{}}
	c := New(ins, nil, nil, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()

	// Wait for the initial cycle
	deadline := time.After(2 * time.Second)
	for c.Latest() == nil {
		select {
		case <-deadline:
			t.Fatal("collector never published a snapshot")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if !c.IsRunning() {
		t.Error("IsRunning() should be true while started")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("collector did not stop on context cancel")
	}
	if c.IsRunning() {
		t.Error("IsRunning() should be false after stop")
	}
}
