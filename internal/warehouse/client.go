// Package warehouse reads historical campaign aggregates from Snowflake.
// The warehouse holds daily rollups older than the operational window in
// Postgres, used for trend lines on the dashboard.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/snowflakedb/gosnowflake" // Snowflake driver

	"github.com/ignite/outreach-analytics/internal/config"
)

// Client provides read access to the campaign aggregates warehouse.
type Client struct {
	cfg config.WarehouseConfig
	db  *sql.DB
}

// DailyCampaignRollup is one day of sends, replies, and bounces for a campaign.
type DailyCampaignRollup struct {
	Day     time.Time `json:"day"`
	Sent    int64     `json:"sent"`
	Replied int64     `json:"replied"`
	Bounced int64     `json:"bounced"`
}

// CampaignTrend is the historical trend for one campaign.
type CampaignTrend struct {
	CampaignID string                `json:"campaign_id"`
	Days       []DailyCampaignRollup `json:"days"`
}

// NewClient opens a connection pool to Snowflake.
func NewClient(cfg config.WarehouseConfig) (*Client, error) {
	db, err := sql.Open("snowflake", buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open snowflake connection: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Client{cfg: cfg, db: db}, nil
}

// buildDSN assembles a gosnowflake DSN: user:password@account/database/schema.
func buildDSN(cfg config.WarehouseConfig) string {
	dsn := fmt.Sprintf("%s:%s@%s/%s/%s",
		cfg.User,
		cfg.Password,
		cfg.Account,
		cfg.Database,
		cfg.Schema,
	)
	if cfg.Warehouse != "" {
		dsn += "?warehouse=" + cfg.Warehouse
	}
	return dsn
}

// Close closes the connection pool.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Ping tests the warehouse connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// CampaignTrend returns daily rollups for one campaign over the last N days,
// oldest first.
func (c *Client) CampaignTrend(ctx context.Context, campaignID string, days int) (*CampaignTrend, error) {
	startDate := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	rows, err := c.db.QueryContext(ctx, `
		SELECT DAY, SENT, REPLIED, BOUNCED
		FROM CAMPAIGN_DAILY_ROLLUPS
		WHERE CAMPAIGN_ID = ? AND DAY >= ?
		ORDER BY DAY ASC
	`, campaignID, startDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaign rollups: %w", err)
	}
	defer rows.Close()

	trend := &CampaignTrend{CampaignID: campaignID}
	for rows.Next() {
		var r DailyCampaignRollup
		if err := rows.Scan(&r.Day, &r.Sent, &r.Replied, &r.Bounced); err != nil {
			return nil, fmt.Errorf("failed to scan rollup row: %w", err)
		}
		trend.Days = append(trend.Days, r)
	}
	return trend, rows.Err()
}

// SendVolumeByDay returns total send volume across all campaigns for the last
// N days, used for the dashboard volume chart.
func (c *Client) SendVolumeByDay(ctx context.Context, days int) ([]DailyCampaignRollup, error) {
	startDate := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	rows, err := c.db.QueryContext(ctx, `
		SELECT DAY, SUM(SENT), SUM(REPLIED), SUM(BOUNCED)
		FROM CAMPAIGN_DAILY_ROLLUPS
		WHERE DAY >= ?
		GROUP BY DAY
		ORDER BY DAY ASC
	`, startDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query send volume: %w", err)
	}
	defer rows.Close()

	var out []DailyCampaignRollup
	for rows.Next() {
		var r DailyCampaignRollup
		if err := rows.Scan(&r.Day, &r.Sent, &r.Replied, &r.Bounced); err != nil {
			return nil, fmt.Errorf("failed to scan volume row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
