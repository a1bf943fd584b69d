package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach-analytics/internal/domain"
	"github.com/ignite/outreach-analytics/internal/pkg/httputil"
	"github.com/ignite/outreach-analytics/internal/service/insights"
	"github.com/ignite/outreach-analytics/internal/service/leads"
	"github.com/ignite/outreach-analytics/internal/warehouse"
)

// InsightsService is the on-demand analytics surface used by handlers.
type InsightsService interface {
	CampaignScorecards(ctx context.Context) ([]domain.CampaignScorecard, error)
	CampaignScorecard(ctx context.Context, id string) (*domain.CampaignScorecard, error)
	DeliverabilityRisk(ctx context.Context) (*domain.RiskResult, *domain.DeliverabilityStats, error)
	CoachingScores(ctx context.Context) ([]domain.CoachingScore, error)
}

// LeadsService is the lead inbox surface used by handlers.
type LeadsService interface {
	List(ctx context.Context, f leads.ListFilter) ([]domain.Lead, int, error)
	Get(ctx context.Context, id string) (*domain.Lead, error)
	Assign(ctx context.Context, leadID, campaignID string) error
	Remap(ctx context.Context) (*leads.RemapResult, error)
}

// SnapshotSource serves the collector's latest published snapshot.
type SnapshotSource interface {
	Latest() *domain.DashboardSnapshot
	LastFetchTime() time.Time
	CollectNow(ctx context.Context)
}

// TrendSource serves historical rollups from the warehouse.
type TrendSource interface {
	CampaignTrend(ctx context.Context, campaignID string, days int) (*warehouse.CampaignTrend, error)
}

// RemapLimiter bounds how often the remap function may be invoked.
type RemapLimiter interface {
	Allow(ctx context.Context) (bool, error)
}

// Handlers holds all HTTP handlers and their dependencies.
type Handlers struct {
	insights   InsightsService
	leads      LeadsService
	snapshots  SnapshotSource
	trends     TrendSource
	remapLimit RemapLimiter

	// Health probes; either may be nil when the backend is not configured.
	db    *sql.DB
	redis *redis.Client

	startedAt time.Time
}

// NewHandlers creates the handler set. trends may be nil when the warehouse
// is disabled.
func NewHandlers(ins InsightsService, ls LeadsService, snaps SnapshotSource, trends TrendSource) *Handlers {
	return &Handlers{
		insights:  ins,
		leads:     ls,
		snapshots: snaps,
		trends:    trends,
		startedAt: time.Now(),
	}
}

// SetHealthProbes wires the database and Redis clients used by HealthCheck.
func (h *Handlers) SetHealthProbes(db *sql.DB, rdb *redis.Client) {
	h.db = db
	h.redis = rdb
}

// SetRemapLimiter wires the shared rate limit for remap runs.
func (h *Handlers) SetRemapLimiter(rl RemapLimiter) {
	h.remapLimit = rl
}

// HealthCheck reports process and dependency health. A down database makes
// the service degraded; a down Redis does not, snapshots still serve from
// memory.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			checks["database"] = "unreachable"
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	state := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	httputil.JSON(w, status, map[string]any{
		"status":     state,
		"uptime_sec": int(time.Since(h.startedAt).Seconds()),
		"last_fetch": h.snapshots.LastFetchTime(),
		"checks":     checks,
	})
}

// GetDashboard serves the latest snapshot. Before the first collection cycle
// completes it returns 503 so clients can distinguish "warming up" from
// "empty".
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshots.Latest()
	if snap == nil {
		httputil.ServiceUnavailable(w, "no snapshot available yet")
		return
	}
	httputil.OK(w, snap)
}

// TriggerRefresh runs a collection cycle synchronously and serves the result.
func (h *Handlers) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	h.snapshots.CollectNow(r.Context())
	snap := h.snapshots.Latest()
	if snap == nil {
		httputil.ServiceUnavailable(w, "collection failed")
		return
	}
	httputil.OK(w, snap)
}

// GetCampaignScores recomputes scorecards on demand.
func (h *Handlers) GetCampaignScores(w http.ResponseWriter, r *http.Request) {
	cards, err := h.insights.CampaignScorecards(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{
		"scorecards": cards,
		"count":      len(cards),
	})
}

// GetCampaignScore scores one campaign.
func (h *Handlers) GetCampaignScore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	card, err := h.insights.CampaignScorecard(r.Context(), id)
	if errors.Is(err, insights.ErrNotFound) {
		httputil.NotFound(w, "campaign not found")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, card)
}

// GetCampaignTrend serves historical daily rollups for one campaign.
func (h *Handlers) GetCampaignTrend(w http.ResponseWriter, r *http.Request) {
	if h.trends == nil {
		httputil.ServiceUnavailable(w, "warehouse not configured")
		return
	}

	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			httputil.BadRequest(w, "days must be between 1 and 365")
			return
		}
		days = n
	}

	trend, err := h.trends.CampaignTrend(r.Context(), chi.URLParam(r, "id"), days)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, trend)
}

// GetDeliverabilityRisk estimates current deliverability risk.
func (h *Handlers) GetDeliverabilityRisk(w http.ResponseWriter, r *http.Request) {
	risk, stats, err := h.insights.DeliverabilityRisk(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{
		"risk":  risk,
		"stats": stats,
	})
}

// GetCoachingScores serves per-rep call quality assessments.
func (h *Handlers) GetCoachingScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.insights.CoachingScores(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{
		"coaching": scores,
		"count":    len(scores),
	})
}

// ListLeads serves the lead inbox with filtering and pagination.
func (h *Handlers) ListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := leads.ListFilter{
		Status:     q.Get("status"),
		CampaignID: q.Get("campaign_id"),
		Search:     q.Get("search"),
	}
	if v := q.Get("limit"); v != "" {
		f.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		f.Offset, _ = strconv.Atoi(v)
	}

	items, total, err := h.leads.List(r.Context(), f)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{
		"leads": items,
		"total": total,
	})
}

// GetLead serves one lead.
func (h *Handlers) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.leads.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, leads.ErrNotFound) {
		httputil.NotFound(w, "lead not found")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, lead)
}

// AssignLead manually attributes a lead to a campaign.
func (h *Handlers) AssignLead(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CampaignID string `json:"campaign_id"`
	}
	if !httputil.Decode(w, r, &body) {
		return
	}
	if body.CampaignID == "" {
		httputil.BadRequest(w, "campaign_id is required")
		return
	}

	err := h.leads.Assign(r.Context(), chi.URLParam(r, "id"), body.CampaignID)
	if errors.Is(err, leads.ErrNotFound) {
		httputil.NotFound(w, "lead not found")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "assigned"})
}

// RemapLeads triggers the AI-assisted batch remap.
func (h *Handlers) RemapLeads(w http.ResponseWriter, r *http.Request) {
	if h.remapLimit != nil {
		ok, err := h.remapLimit.Allow(r.Context())
		if err == nil && !ok {
			httputil.Error(w, http.StatusTooManyRequests, "remap rate limit exceeded, try again later")
			return
		}
		// A limiter error (Redis down) fails open; the run itself is cheap
		// compared to refusing a legitimate request.
	}

	result, err := h.leads.Remap(r.Context())
	switch {
	case errors.Is(err, leads.ErrRemapDisabled):
		httputil.ServiceUnavailable(w, "remap function not configured")
		return
	case errors.Is(err, leads.ErrNothingToRemap):
		httputil.OK(w, map[string]any{"considered": 0, "mapped": 0})
		return
	case err != nil:
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, result)
}
