package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-org-site/internal/metrics"
	"github.com/MKhiriev/go-org-site/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withMetrics)
	router.Use(withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version", h.getServerVersion)
		r.Get("/api/health", h.health)
		r.Method("GET", "/metrics", metrics.Handler())
	})

	// credential and refresh-token endpoints, throttled per client IP
	router.Group(func(r chi.Router) {
		r.Use(h.withRateLimit)

		r.Post("/api/auth/signin", h.signIn)
		r.Post("/api/auth/refresh", h.refresh)
		r.Post("/api/auth/signout", h.signOut)
	})

	// routes for any signed-in user
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/auth/logout-all", h.logoutAll)
		r.Get("/api/auth/session", h.session)
		r.Get("/api/auth/sessions", h.sessions)

		r.Put("/api/users/me/avatar", h.updateAvatar)
		r.Delete("/api/users/me/avatar", h.deleteAvatar)
	})

	// admin routes
	router.Group(func(r chi.Router) {
		r.Use(h.withRateLimit)
		r.Use(h.auth)
		r.Use(requireRole(models.RoleAdmin))

		r.Post("/api/auth/signup", h.signUp)

		r.Get("/api/users", h.listUsers)
		r.Patch("/api/users", h.updateUser)
		r.Delete("/api/users/{userID}", h.deleteUser)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
