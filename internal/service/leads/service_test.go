package leads_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ignite/outreach-analytics/internal/domain"
	"github.com/ignite/outreach-analytics/internal/service/leads"
)

// memRepo is an in-memory lead repository for unit testing.
type memRepo struct {
	mu      sync.Mutex
	leads   map[string]*domain.Lead
	failIDs map[string]bool // AssignCampaign fails for these
}

func newMemRepo() *memRepo {
	return &memRepo{leads: make(map[string]*domain.Lead), failIDs: make(map[string]bool)}
}

func (m *memRepo) add(id string, campaignID *string) {
	m.leads[id] = &domain.Lead{
		ID: id, Email: id + "@example.com", Status: domain.LeadNew,
		CampaignID: campaignID, ReceivedAt: time.Now(),
	}
}

func (m *memRepo) List(_ context.Context, f leads.ListFilter) ([]domain.Lead, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Lead
	for _, l := range m.leads {
		if f.Status != "" && string(l.Status) != f.Status {
			continue
		}
		out = append(out, *l)
	}
	return out, len(out), nil
}

func (m *memRepo) Get(_ context.Context, id string) (*domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[id]
	if !ok {
		return nil, leads.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memRepo) Unmapped(_ context.Context, limit int) ([]domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Lead
	for _, l := range m.leads {
		if l.Unmapped() && len(out) < limit {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memRepo) AssignCampaign(_ context.Context, leadID, campaignID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIDs[leadID] {
		return fmt.Errorf("simulated write failure")
	}
	l, ok := m.leads[leadID]
	if !ok {
		return leads.ErrNotFound
	}
	l.CampaignID = &campaignID
	return nil
}

// stubInvoker returns canned mappings via JSON round-trip, mimicking the
// real client's decode path.
type stubInvoker struct {
	mappings []domain.LeadMapping
	err      error
	gotFn    string
}

func (s *stubInvoker) Invoke(_ context.Context, fn string, _, result any) error {
	s.gotFn = fn
	if s.err != nil {
		return s.err
	}
	data, _ := json.Marshal(map[string]any{"mappings": s.mappings})
	return json.Unmarshal(data, result)
}

func TestRemapAppliesMappings(t *testing.T) {
	repo := newMemRepo()
	repo.add("l1", nil)
	repo.add("l2", nil)
	mapped := "c9"
	repo.add("l3", &mapped) // already mapped, not part of the batch

	inv := &stubInvoker{mappings: []domain.LeadMapping{
		{LeadID: "l1", CampaignID: "c1", Confidence: 0.9},
		{LeadID: "l2", CampaignID: "c2", Confidence: 0.8},
	}}

	svc := leads.NewService(repo, inv)
	result, err := svc.Remap(context.Background())
	if err != nil {
		t.Fatalf("remap: %v", err)
	}
	if inv.gotFn != leads.RemapFunction {
		t.Fatalf("expected function %q, got %q", leads.RemapFunction, inv.gotFn)
	}
	if result.Considered != 2 || result.Mapped != 2 {
		t.Fatalf("expected 2 considered / 2 mapped, got %+v", result)
	}

	l1, _ := repo.Get(context.Background(), "l1")
	if l1.CampaignID == nil || *l1.CampaignID != "c1" {
		t.Fatalf("expected l1 mapped to c1, got %v", l1.CampaignID)
	}
}

func TestRemapSkipsLowConfidenceAndUnknown(t *testing.T) {
	repo := newMemRepo()
	repo.add("l1", nil)

	inv := &stubInvoker{mappings: []domain.LeadMapping{
		{LeadID: "l1", CampaignID: "c1", Confidence: 0.2},   // below threshold
		{LeadID: "ghost", CampaignID: "c1", Confidence: 0.9}, // not in batch
	}}

	svc := leads.NewService(repo, inv)
	result, err := svc.Remap(context.Background())
	if err != nil {
		t.Fatalf("remap: %v", err)
	}
	if result.Mapped != 0 || result.Skipped != 2 {
		t.Fatalf("expected 0 mapped / 2 skipped, got %+v", result)
	}

	l1, _ := repo.Get(context.Background(), "l1")
	if !l1.Unmapped() {
		t.Fatal("low-confidence mapping must not be applied")
	}
}

func TestRemapToleratesPartialFailure(t *testing.T) {
	repo := newMemRepo()
	repo.add("l1", nil)
	repo.add("l2", nil)
	repo.failIDs["l2"] = true

	inv := &stubInvoker{mappings: []domain.LeadMapping{
		{LeadID: "l1", CampaignID: "c1", Confidence: 0.9},
		{LeadID: "l2", CampaignID: "c2", Confidence: 0.9},
	}}

	svc := leads.NewService(repo, inv)
	result, err := svc.Remap(context.Background())
	if err != nil {
		t.Fatalf("remap should tolerate per-lead failures: %v", err)
	}
	if result.Mapped != 1 || result.Failed != 1 {
		t.Fatalf("expected 1 mapped / 1 failed, got %+v", result)
	}
}

func TestRemapDisabledWithoutInvoker(t *testing.T) {
	svc := leads.NewService(newMemRepo(), nil)
	_, err := svc.Remap(context.Background())
	if err != leads.ErrRemapDisabled {
		t.Fatalf("expected ErrRemapDisabled, got %v", err)
	}
}

func TestRemapNothingToDo(t *testing.T) {
	repo := newMemRepo()
	mapped := "c1"
	repo.add("l1", &mapped)

	svc := leads.NewService(repo, &stubInvoker{})
	_, err := svc.Remap(context.Background())
	if err != leads.ErrNothingToRemap {
		t.Fatalf("expected ErrNothingToRemap, got %v", err)
	}
}

func TestAssignRequiresCampaign(t *testing.T) {
	repo := newMemRepo()
	repo.add("l1", nil)
	svc := leads.NewService(repo, nil)

	if err := svc.Assign(context.Background(), "l1", ""); err == nil {
		t.Fatal("expected validation error")
	}
	if err := svc.Assign(context.Background(), "l1", "c1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
}

func TestListCapsLimit(t *testing.T) {
	repo := newMemRepo()
	repo.add("l1", nil)
	svc := leads.NewService(repo, nil)

	out, total, err := svc.List(context.Background(), leads.ListFilter{Limit: -5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(out) != 1 {
		t.Fatalf("expected 1 lead, got %d (total %d)", len(out), total)
	}
}
