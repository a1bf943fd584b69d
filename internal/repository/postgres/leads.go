package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ignite/outreach-analytics/internal/domain"
	"github.com/ignite/outreach-analytics/internal/service/leads"
)

// LeadRepo implements leads.Repository against PostgreSQL.
type LeadRepo struct{ db *sql.DB }

// NewLeadRepo creates a Postgres-backed lead repository.
func NewLeadRepo(db *sql.DB) *LeadRepo { return &LeadRepo{db: db} }

const leadColumns = `id, email, name, company, snippet, status, campaign_id, received_at, updated_at`

func (r *LeadRepo) List(ctx context.Context, f leads.ListFilter) ([]domain.Lead, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	idx := 1

	if f.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", idx))
		args = append(args, f.Status)
		idx++
	}
	if f.CampaignID != "" {
		where = append(where, fmt.Sprintf("campaign_id = $%d", idx))
		args = append(args, f.CampaignID)
		idx++
	}
	if f.Search != "" {
		where = append(where, fmt.Sprintf("(email ILIKE $%d OR name ILIKE $%d OR company ILIKE $%d)", idx, idx, idx))
		args = append(args, "%"+f.Search+"%")
		idx++
	}
	clause := strings.Join(where, " AND ")

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leads WHERE "+clause, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(
		"SELECT %s FROM leads WHERE %s ORDER BY received_at DESC LIMIT $%d OFFSET $%d",
		leadColumns, clause, idx, idx+1,
	)
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	out, err := scanLeads(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *LeadRepo) Get(ctx context.Context, id string) (*domain.Lead, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+leadColumns+" FROM leads WHERE id = $1", id)

	var l domain.Lead
	err := scanLead(row, &l)
	if err == sql.ErrNoRows {
		return nil, leads.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &l, nil
}

func (r *LeadRepo) Unmapped(ctx context.Context, limit int) ([]domain.Lead, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE campaign_id IS NULL OR campaign_id = ''
		ORDER BY received_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unmapped leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

func (r *LeadRepo) AssignCampaign(ctx context.Context, leadID, campaignID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE leads SET campaign_id = $1, updated_at = NOW() WHERE id = $2
	`, campaignID, leadID)
	if err != nil {
		return fmt.Errorf("assign campaign: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return leads.ErrNotFound
	}
	return nil
}

func scanLead(row rowScanner, l *domain.Lead) error {
	return row.Scan(
		&l.ID, &l.Email, &l.Name, &l.Company, &l.Snippet,
		&l.Status, &l.CampaignID, &l.ReceivedAt, &l.UpdatedAt,
	)
}

func scanLeads(rows *sql.Rows) ([]domain.Lead, error) {
	var out []domain.Lead
	for rows.Next() {
		var l domain.Lead
		if err := scanLead(rows, &l); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
