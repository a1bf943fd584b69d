package sesauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/ignite/outreach-analytics/internal/domain"
)

type stubIdentityAPI struct {
	dkim     types.DkimStatus
	mailFrom types.MailFromDomainStatus
	err      error
}

func (s *stubIdentityAPI) GetEmailIdentity(ctx context.Context, in *sesv2.GetEmailIdentityInput, opts ...func(*sesv2.Options)) (*sesv2.GetEmailIdentityOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &sesv2.GetEmailIdentityOutput{
		DkimAttributes:     &types.DkimAttributes{Status: s.dkim},
		MailFromAttributes: &types.MailFromAttributes{MailFromDomainStatus: s.mailFrom},
	}, nil
}

func TestVerifyDomain_FullAuth(t *testing.T) {
	c := &Client{
		api: &stubIdentityAPI{dkim: types.DkimStatusSuccess, mailFrom: types.MailFromDomainStatusSuccess},
		lookupTXT: func(ctx context.Context, name string) ([]string, error) {
			if name != "_dmarc.mail.example.com" {
				t.Errorf("unexpected TXT lookup: %s", name)
			}
			return []string{"v=DMARC1; p=quarantine"}, nil
		},
	}

	status, err := c.VerifyDomain(context.Background(), "mail.example.com")
	if err != nil {
		t.Fatalf("VerifyDomain() error: %v", err)
	}
	if !status.SPF || !status.DKIM || !status.DMARC {
		t.Errorf("VerifyDomain() = %+v, want full auth", status)
	}
}

func TestVerifyDomain_NoDMARC(t *testing.T) {
	c := &Client{
		api: &stubIdentityAPI{dkim: types.DkimStatusSuccess, mailFrom: types.MailFromDomainStatusPending},
		lookupTXT: func(ctx context.Context, name string) ([]string, error) {
			return nil, errors.New("no such host")
		},
	}

	status, err := c.VerifyDomain(context.Background(), "cold.example.com")
	if err != nil {
		t.Fatalf("VerifyDomain() error: %v", err)
	}
	if status.SPF {
		t.Error("pending mail-from should not count as SPF verified")
	}
	if status.DMARC {
		t.Error("missing TXT record should not count as DMARC")
	}
}

type memStore struct {
	domains []domain.SendingDomain
	updates map[string][3]bool
	listErr error
}

func (m *memStore) ListDomains(ctx context.Context) ([]domain.SendingDomain, error) {
	return m.domains, m.listErr
}

func (m *memStore) UpdateDomainAuth(ctx context.Context, dom string, spf, dkim, dmarc bool) error {
	if m.updates == nil {
		m.updates = map[string][3]bool{}
	}
	m.updates[dom] = [3]bool{spf, dkim, dmarc}
	return nil
}

type stubVerifier struct {
	results map[string]*AuthStatus
}

func (s *stubVerifier) VerifyDomain(ctx context.Context, dom string) (*AuthStatus, error) {
	if r, ok := s.results[dom]; ok {
		return r, nil
	}
	return nil, errors.New("identity not found")
}

func TestSyncer_RunOnce(t *testing.T) {
	store := &memStore{domains: []domain.SendingDomain{
		{Domain: "a.example.com"},
		{Domain: "b.example.com"},
		{Domain: "broken.example.com"},
	}}
	v := &stubVerifier{results: map[string]*AuthStatus{
		"a.example.com": {Domain: "a.example.com", SPF: true, DKIM: true, DMARC: true},
		"b.example.com": {Domain: "b.example.com", SPF: true},
	}}

	syncer := NewSyncer(v, store, time.Hour)
	updated := syncer.RunOnce(context.Background())

	if updated != 2 {
		t.Errorf("RunOnce() updated = %d, want 2", updated)
	}
	if got := store.updates["a.example.com"]; got != [3]bool{true, true, true} {
		t.Errorf("a.example.com = %v", got)
	}
	if got := store.updates["b.example.com"]; got != [3]bool{true, false, false} {
		t.Errorf("b.example.com = %v", got)
	}
	if _, ok := store.updates["broken.example.com"]; ok {
		t.Error("failed verification should not be persisted")
	}
}

func TestSyncer_ListFailure(t *testing.T) {
	store := &memStore{listErr: errors.New("db down")}
	syncer := NewSyncer(&stubVerifier{}, store, time.Hour)

	if updated := syncer.RunOnce(context.Background()); updated != 0 {
		t.Errorf("RunOnce() updated = %d, want 0", updated)
	}
}
