package sesauth

import (
	"context"
	"time"

	"github.com/ignite/outreach-analytics/internal/domain"
	"github.com/ignite/outreach-analytics/internal/pkg/logger"
)

// Verifier resolves the auth status of one domain.
type Verifier interface {
	VerifyDomain(ctx context.Context, domain string) (*AuthStatus, error)
}

// Store is the persistence slice the syncer needs.
type Store interface {
	ListDomains(ctx context.Context) ([]domain.SendingDomain, error)
	UpdateDomainAuth(ctx context.Context, dom string, spf, dkim, dmarc bool) error
}

// Syncer periodically re-verifies every sending domain's authentication and
// persists the results. Failures on individual domains don't abort the run.
type Syncer struct {
	verifier Verifier
	store    Store
	interval time.Duration
	log      *logger.Logger
}

// NewSyncer creates a syncer. interval <= 0 defaults to 6 hours.
func NewSyncer(v Verifier, s Store, interval time.Duration) *Syncer {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &Syncer{
		verifier: v,
		store:    s,
		interval: interval,
		log:      logger.Component("sesauth"),
	}
}

// Start runs the sync loop until the context is cancelled.
func (s *Syncer) Start(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce verifies all domains once and returns how many were updated.
func (s *Syncer) RunOnce(ctx context.Context) int {
	domains, err := s.store.ListDomains(ctx)
	if err != nil {
		s.log.Error("failed to list sending domains", "error", err)
		return 0
	}

	updated := 0
	for _, d := range domains {
		status, err := s.verifier.VerifyDomain(ctx, d.Domain)
		if err != nil {
			s.log.Warn("auth verification failed", "domain", d.Domain, "error", err)
			continue
		}
		if err := s.store.UpdateDomainAuth(ctx, d.Domain, status.SPF, status.DKIM, status.DMARC); err != nil {
			s.log.Error("failed to persist auth status", "domain", d.Domain, "error", err)
			continue
		}
		updated++
	}

	s.log.Info("domain auth sync complete", "checked", len(domains), "updated", updated)
	return updated
}
