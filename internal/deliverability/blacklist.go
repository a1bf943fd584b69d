package deliverability

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"strings"
	"time"
)

// HealthChecker runs DNS blacklist checks for sending domains and persists
// the results.
type HealthChecker struct {
	db *sql.DB
}

// NewHealthChecker creates a health checker backed by the database.
func NewHealthChecker(db *sql.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// BlacklistCheckResult contains the results of checking a domain against
// DNS-based domain blacklists.
type BlacklistCheckResult struct {
	Domain     string   `json:"domain"`
	Listed     bool     `json:"listed"`
	Blacklists []string `json:"blacklists"`
	Clean      []string `json:"clean"`
	CheckedAt  string   `json:"checked_at"`
}

var domainBlacklists = []string{
	"dbl.spamhaus.org",
	"multi.surbl.org",
	"uribl.spameatingmonkey.net",
	"dbl.nordspam.com",
}

// CheckBlacklists queries domain blacklists (DBLs) for a sending domain.
func (h *HealthChecker) CheckBlacklists(ctx context.Context, domain string) (*BlacklistCheckResult, error) {
	domain = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
	if domain == "" {
		return nil, fmt.Errorf("empty domain")
	}

	result := &BlacklistCheckResult{
		Domain:    domain,
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
	}

	resolver := &net.Resolver{PreferGo: true}

	for _, bl := range domainBlacklists {
		query := fmt.Sprintf("%s.%s", domain, bl)
		lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		addrs, err := resolver.LookupHost(lookupCtx, query)
		cancel()

		if err != nil {
			// NXDOMAIN means not listed (the normal case)
			result.Clean = append(result.Clean, bl)
			continue
		}

		// A 127.0.x.x answer means the domain is listed
		listed := false
		for _, addr := range addrs {
			if strings.HasPrefix(addr, "127.") {
				listed = true
				break
			}
		}
		if listed {
			result.Listed = true
			result.Blacklists = append(result.Blacklists, bl)
		} else {
			result.Clean = append(result.Clean, bl)
		}
	}

	if h.db != nil {
		_, _ = h.db.ExecContext(ctx, `
			UPDATE sending_domains
			SET blacklisted = $1,
			    last_health_check = NOW(),
			    status = CASE WHEN $1 AND status != 'retired' THEN 'blacklisted' ELSE status END,
			    updated_at = NOW()
			WHERE domain = $2
		`, result.Listed, domain)
	}

	return result, nil
}

// Start runs blacklist checks on an hourly cycle until the context is
// cancelled.
func (h *HealthChecker) Start(ctx context.Context) {
	if _, _, err := h.RunHealthChecks(ctx); err != nil {
		log.Printf("[DomainHealth] initial run failed: %v", err)
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := h.RunHealthChecks(ctx); err != nil {
				log.Printf("[DomainHealth] run failed: %v", err)
			}
		}
	}
}

// RunHealthChecks performs blacklist checks for all active and warming
// domains, oldest check first.
func (h *HealthChecker) RunHealthChecks(ctx context.Context) (int, int, error) {
	if h.db == nil {
		return 0, 0, fmt.Errorf("no database connection")
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT domain
		FROM sending_domains
		WHERE status IN ('active', 'warming', 'blacklisted')
		ORDER BY last_health_check ASC NULLS FIRST
	`)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			continue
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}

	checked := 0
	listed := 0
	for _, d := range domains {
		result, err := h.CheckBlacklists(ctx, d)
		if err != nil {
			log.Printf("[DomainHealth] blacklist check failed for %s: %v", d, err)
			continue
		}
		if result.Listed {
			log.Printf("[DomainHealth] domain %s listed on: %v", d, result.Blacklists)
			listed++
		}
		checked++
	}

	log.Printf("[DomainHealth] health check complete: %d domains checked, %d listed", checked, listed)
	return checked, listed, nil
}
