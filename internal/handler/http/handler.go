// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"time"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/service"
)

// Handler serves the vault REST API. It owns no state besides its
// dependencies; every request is authorised, executed and audited through
// the services it holds.
type Handler struct {
	// services is the business layer the routes delegate to.
	services *service.Services

	// authRateLimit is the number of register and login requests one client
	// IP may make within authRateWindow. Zero disables the limiter.
	authRateLimit  int
	authRateWindow time.Duration

	// logger is the base logger; request loggers derive from it.
	logger *logger.Logger
}

// Option configures a [Handler].
type Option func(*Handler)

// WithAuthRateLimit throttles the unauthenticated account routes to limit
// requests per window for each client IP. Non-positive values leave the
// routes unthrottled.
func WithAuthRateLimit(limit int, window time.Duration) Option {
	return func(h *Handler) {
		if limit > 0 && window > 0 {
			h.authRateLimit = limit
			h.authRateWindow = window
		}
	}
}

// NewHandler creates a Handler backed by services. Call Init to obtain the
// router.
func NewHandler(services *service.Services, logger *logger.Logger, opts ...Option) *Handler {
	logger.Info().Msg("http handler created")
	h := &Handler{
		services: services,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
