package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"campaign-validator/internal/observability"
)

func Router(h *ValidationHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(observability.Measure)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", h.Validate)
		r.Post("/validate/batch", h.ValidateBatch)
		r.Post("/guardrails/bid", h.BidCap)
		r.Post("/guardrails/budget", h.BudgetAllocation)
		r.Get("/archetypes", h.Archetypes)
		r.Get("/policies", h.Policies)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", observability.MetricsHandler())
	return r
}
