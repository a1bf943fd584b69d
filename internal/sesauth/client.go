// Package sesauth verifies sending domain authentication (SPF, DKIM, DMARC)
// against AWS SESv2 identity records and DNS, and syncs the results into the
// sending_domains table so risk estimates use current auth state.
package sesauth

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/ignite/outreach-analytics/internal/config"
)

// identityAPI is the slice of the SESv2 API this package uses.
type identityAPI interface {
	GetEmailIdentity(ctx context.Context, in *sesv2.GetEmailIdentityInput, opts ...func(*sesv2.Options)) (*sesv2.GetEmailIdentityOutput, error)
}

// AuthStatus is the verification state of one sending domain.
type AuthStatus struct {
	Domain string `json:"domain"`
	SPF    bool   `json:"spf"`
	DKIM   bool   `json:"dkim"`
	DMARC  bool   `json:"dmarc"`
}

// Client checks domain authentication via SESv2 plus a DMARC DNS lookup.
type Client struct {
	api       identityAPI
	lookupTXT func(ctx context.Context, name string) ([]string, error)
}

// NewClient creates a SESv2-backed auth checker with static credentials.
func NewClient(ctx context.Context, cfg appconfig.SESAuthConfig) (*Client, error) {
	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKey,
		cfg.SecretKey,
		"",
	)

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Client{
		api:       sesv2.NewFromConfig(awsCfg),
		lookupTXT: net.DefaultResolver.LookupTXT,
	}, nil
}

// VerifyDomain resolves the full auth status for one domain. SPF and DKIM
// come from the SESv2 identity; DMARC from the _dmarc TXT record.
func (c *Client) VerifyDomain(ctx context.Context, domain string) (*AuthStatus, error) {
	out, err := c.api.GetEmailIdentity(ctx, &sesv2.GetEmailIdentityInput{
		EmailIdentity: &domain,
	})
	if err != nil {
		return nil, fmt.Errorf("get email identity %s: %w", domain, err)
	}

	status := &AuthStatus{Domain: domain}

	if out.DkimAttributes != nil {
		status.DKIM = out.DkimAttributes.Status == types.DkimStatusSuccess
	}
	if out.MailFromAttributes != nil {
		status.SPF = out.MailFromAttributes.MailFromDomainStatus == types.MailFromDomainStatusSuccess
	}

	status.DMARC = c.hasDMARCRecord(ctx, domain)

	return status, nil
}

func (c *Client) hasDMARCRecord(ctx context.Context, domain string) bool {
	records, err := c.lookupTXT(ctx, "_dmarc."+domain)
	if err != nil {
		return false
	}
	for _, rec := range records {
		if strings.HasPrefix(strings.TrimSpace(rec), "v=DMARC1") {
			return true
		}
	}
	return false
}
