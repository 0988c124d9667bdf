// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/MKhiriev/go-key-vault/internal/app"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/utils"
)

// Init builds the router: recovery, real IP, trace id and request logging on
// every route, rate limiting on the account routes and bearer-token auth on
// everything else.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		if h.authRateLimit > 0 {
			r.Use(h.withAuthRateLimit())
		}
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/user/verifier", h.verifier)

		r.Route("/api/entries", func(r chi.Router) {
			r.Post("/", h.createEntry)
			r.Get("/", h.listEntries)
			r.Get("/{id}", h.getEntry)
			r.Delete("/{id}", h.deleteEntry)
			r.Post("/{id}/rotate", h.rotateEntry)
		})

		r.Route("/api/audit", func(r chi.Router) {
			r.Post("/", h.reportAudit)
			r.Get("/", h.listAudit)
		})
	})

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteError(w, app.MsgNotFound, http.StatusNotFound)
	})
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// withAuthRateLimit keys the account routes by client IP. RealIP has already
// replaced RemoteAddr when the request came through a proxy.
func (h *Handler) withAuthRateLimit() func(http.Handler) http.Handler {
	return httprate.Limit(
		h.authRateLimit,
		h.authRateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.FromRequest(r).Warn().
				Str("func", "Handler.withAuthRateLimit").
				Str("path", r.URL.Path).
				Msg("account request throttled")
			utils.WriteError(w, app.MsgTooManyRequests, http.StatusTooManyRequests)
		}),
	)
}
