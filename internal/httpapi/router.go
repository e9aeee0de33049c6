// Package httpapi wires the storefront and back-office handlers onto a chi
// router with the shared middleware stack.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the full HTTP surface: public storefront routes under
// /api, admin routes under /api/admin, plus /health and /metrics.
func NewRouter(storefront *StorefrontHandler, admin *AdminHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware)
			storefront.RegisterRoutes(r)
		})

		r.Route("/admin", func(r chi.Router) {
			admin.RegisterRoutes(r)
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "senteurs",
	})
}
