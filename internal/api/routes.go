package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router and all API routes.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (no auth required)
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.GetDashboard)
		r.Post("/dashboard/refresh", h.TriggerRefresh)

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/scores", h.GetCampaignScores)
			r.Get("/{id}/score", h.GetCampaignScore)
			r.Get("/{id}/trend", h.GetCampaignTrend)
		})

		r.Get("/deliverability/risk", h.GetDeliverabilityRisk)
		r.Get("/calls/coaching", h.GetCoachingScores)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", h.ListLeads)
			r.Post("/remap", h.RemapLeads)
			r.Get("/{id}", h.GetLead)
			r.Post("/{id}/assign", h.AssignLead)
		})
	})

	return r
}
