package leads

import (
	"context"
	"fmt"

	"github.com/ignite/outreach-analytics/internal/domain"
	"github.com/ignite/outreach-analytics/internal/pkg/logger"
)

// Invoker executes a named remote function with a JSON payload and decodes
// the JSON result. Satisfied by *functions.Client.
type Invoker interface {
	Invoke(ctx context.Context, fn string, payload, result any) error
}

// RemapFunction is the hosted function that maps leads to campaigns.
const RemapFunction = "lead-campaign-remap"

// remapLead is the per-lead payload sent to the remap function.
type remapLead struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Snippet string `json:"snippet"`
}

type remapRequest struct {
	Leads []remapLead `json:"leads"`
}

type remapResponse struct {
	Mappings []domain.LeadMapping `json:"mappings"`
}

// RemapResult summarizes one batch remap run.
type RemapResult struct {
	Considered int                  `json:"considered"`
	Mapped     int                  `json:"mapped"`
	Skipped    int                  `json:"skipped"`
	Failed     int                  `json:"failed"`
	Mappings   []domain.LeadMapping `json:"mappings"`
}

// Service implements lead inbox business logic.
type Service struct {
	repo    Repository
	invoker Invoker
	log     *logger.Logger

	// MinConfidence filters low-confidence mappings returned by the
	// remap function rather than applying them blindly.
	MinConfidence float64

	// BatchSize bounds how many unmapped leads one remap run considers.
	BatchSize int
}

// NewService creates a leads service. invoker may be nil when the function
// endpoint is not configured; Remap then returns ErrRemapDisabled.
func NewService(repo Repository, invoker Invoker) *Service {
	return &Service{
		repo:          repo,
		invoker:       invoker,
		log:           logger.Component("leads"),
		MinConfidence: 0.5,
		BatchSize:     200,
	}
}

// List returns leads matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Lead, int, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	return s.repo.List(ctx, f)
}

// Get returns a single lead.
func (s *Service) Get(ctx context.Context, id string) (*domain.Lead, error) {
	return s.repo.Get(ctx, id)
}

// Assign attributes a lead to a campaign manually.
func (s *Service) Assign(ctx context.Context, leadID, campaignID string) error {
	if campaignID == "" {
		return fmt.Errorf("campaign_id is required")
	}
	return s.repo.AssignCampaign(ctx, leadID, campaignID)
}

// Remap runs the AI-assisted batch remap: collect unmapped leads, invoke the
// remote function, and apply the returned mappings. Per-lead apply failures
// are tolerated and counted; the run reports partial success rather than
// aborting.
func (s *Service) Remap(ctx context.Context) (*RemapResult, error) {
	if s.invoker == nil {
		return nil, ErrRemapDisabled
	}

	unmapped, err := s.repo.Unmapped(ctx, s.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("fetch unmapped leads: %w", err)
	}
	if len(unmapped) == 0 {
		return nil, ErrNothingToRemap
	}

	req := remapRequest{Leads: make([]remapLead, 0, len(unmapped))}
	known := make(map[string]bool, len(unmapped))
	for _, l := range unmapped {
		known[l.ID] = true
		req.Leads = append(req.Leads, remapLead{
			ID: l.ID, Email: l.Email, Name: l.Name, Company: l.Company, Snippet: l.Snippet,
		})
	}

	var resp remapResponse
	if err := s.invoker.Invoke(ctx, RemapFunction, req, &resp); err != nil {
		return nil, fmt.Errorf("invoke %s: %w", RemapFunction, err)
	}

	result := &RemapResult{Considered: len(unmapped)}
	for _, m := range resp.Mappings {
		if !known[m.LeadID] {
			s.log.Warn("remap returned unknown lead", "lead_id", m.LeadID)
			result.Skipped++
			continue
		}
		if m.CampaignID == "" || m.Confidence < s.MinConfidence {
			result.Skipped++
			continue
		}
		if err := s.repo.AssignCampaign(ctx, m.LeadID, m.CampaignID); err != nil {
			s.log.Error("remap assign failed", "lead_id", m.LeadID, "error", err)
			result.Failed++
			continue
		}
		result.Mapped++
		result.Mappings = append(result.Mappings, m)
	}

	s.log.Info("remap run complete",
		"considered", result.Considered, "mapped", result.Mapped,
		"skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}
