package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ignite/outreach-analytics/internal/domain"
	"github.com/ignite/outreach-analytics/internal/service/insights"
)

// MetricsRepo implements insights.MetricsRepository against PostgreSQL.
type MetricsRepo struct{ db *sql.DB }

// NewMetricsRepo creates a Postgres-backed metrics repository.
func NewMetricsRepo(db *sql.DB) *MetricsRepo { return &MetricsRepo{db: db} }

const campaignMetricsColumns = `
	campaign_id, campaign_name, status,
	total_sent, total_replied, total_bounced,
	reply_rate, bounce_rate,
	COALESCE(positive_reply_rate, 0), positive_tracked,
	updated_at`

func (r *MetricsRepo) CampaignMetrics(ctx context.Context, since time.Time) ([]domain.CampaignMetrics, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+campaignMetricsColumns+`
		FROM campaign_metrics
		WHERE updated_at >= $1
		ORDER BY updated_at DESC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("list campaign metrics: %w", err)
	}
	defer rows.Close()

	var out []domain.CampaignMetrics
	for rows.Next() {
		m, err := scanCampaignMetrics(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign metrics: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MetricsRepo) CampaignMetricsByID(ctx context.Context, id string) (*domain.CampaignMetrics, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+campaignMetricsColumns+`
		FROM campaign_metrics
		WHERE campaign_id = $1
	`, id)

	m, err := scanCampaignMetrics(row)
	if err == sql.ErrNoRows {
		return nil, insights.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign metrics: %w", err)
	}
	return &m, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCampaignMetrics(row rowScanner) (domain.CampaignMetrics, error) {
	var m domain.CampaignMetrics
	err := row.Scan(
		&m.CampaignID, &m.CampaignName, &m.Status,
		&m.TotalSent, &m.TotalReplied, &m.TotalBounced,
		&m.ReplyRate, &m.BounceRate,
		&m.PositiveReplyRate, &m.PositiveTracked,
		&m.UpdatedAt,
	)
	return m, err
}

// DeliverabilityStats aggregates domain health SQL-side so the service only
// sees one row.
func (r *MetricsRepo) DeliverabilityStats(ctx context.Context) (*domain.DeliverabilityStats, error) {
	stats := &domain.DeliverabilityStats{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(AVG(bounce_rate), 0),
			COUNT(*) FILTER (WHERE blacklisted),
			COUNT(*) FILTER (WHERE spf_verified AND dkim_verified AND dmarc_verified),
			COUNT(*),
			COALESCE(AVG(health_score), 0)
		FROM sending_domains
		WHERE status != 'retired'
	`).Scan(
		&stats.AvgBounceRate,
		&stats.BlacklistedDomains,
		&stats.DomainsWithFullAuth,
		&stats.TotalDomains,
		&stats.AvgHealthScore,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate sending domains: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM mailboxes WHERE status = 'warming'
	`).Scan(&stats.WarmingMailboxes)
	if err != nil {
		return nil, fmt.Errorf("count warming mailboxes: %w", err)
	}

	return stats, nil
}

func (r *MetricsRepo) CallStats(ctx context.Context, since time.Time) ([]domain.CallStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			rep_id,
			MAX(rep_name),
			COUNT(*),
			COUNT(*) FILTER (WHERE outcome IN ('connected', 'meeting_set', 'not_a_fit')),
			COUNT(*) FILTER (WHERE outcome = 'meeting_set'),
			COALESCE(AVG(duration_sec) FILTER (WHERE duration_sec > 0), 0),
			COALESCE(AVG(talk_ratio) FILTER (WHERE talk_ratio > 0), 0)
		FROM calls
		WHERE occurred_at >= $1
		GROUP BY rep_id
		ORDER BY COUNT(*) DESC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("aggregate calls: %w", err)
	}
	defer rows.Close()

	var out []domain.CallStats
	for rows.Next() {
		var s domain.CallStats
		if err := rows.Scan(
			&s.RepID, &s.RepName, &s.TotalCalls, &s.ConnectedCalls,
			&s.PositiveOutcomes, &s.AvgDurationSec, &s.AvgTalkRatio,
		); err != nil {
			return nil, fmt.Errorf("scan call stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateDomainAuth persists SPF/DKIM/DMARC verification results for a
// sending domain, as reported by the ESP identity API.
func (r *MetricsRepo) UpdateDomainAuth(ctx context.Context, dom string, spf, dkim, dmarc bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sending_domains
		SET spf_verified = $1, dkim_verified = $2, dmarc_verified = $3, updated_at = NOW()
		WHERE domain = $4
	`, spf, dkim, dmarc, dom)
	if err != nil {
		return fmt.Errorf("update domain auth: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("sending domain %s not found", dom)
	}
	return nil
}

// ListDomains returns all non-retired sending domains.
func (r *MetricsRepo) ListDomains(ctx context.Context) ([]domain.SendingDomain, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, domain, status, health_score, bounce_rate,
		       spf_verified, dkim_verified, dmarc_verified,
		       blacklisted, last_health_check, updated_at
		FROM sending_domains
		WHERE status != 'retired'
		ORDER BY domain
	`)
	if err != nil {
		return nil, fmt.Errorf("list sending domains: %w", err)
	}
	defer rows.Close()

	var out []domain.SendingDomain
	for rows.Next() {
		var d domain.SendingDomain
		if err := rows.Scan(
			&d.ID, &d.Domain, &d.Status, &d.HealthScore, &d.BounceRate,
			&d.SPFVerified, &d.DKIMVerified, &d.DMARCVerified,
			&d.Blacklisted, &d.LastHealthCheck, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sending domain: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
