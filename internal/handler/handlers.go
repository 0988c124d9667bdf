// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package handler builds the transport handlers enabled by the server
// configuration.
package handler

import (
	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/handler/grpc"
	"github.com/MKhiriev/go-key-vault/internal/handler/http"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/service"
)

// Handlers holds the transport handlers the server should run. A nil field
// means that transport is disabled.
type Handlers struct {
	// HTTP serves the REST API; set when an HTTP address is configured.
	HTTP *http.Handler
	// GRPC serves the health service; set when a gRPC address is configured.
	GRPC *grpc.Handler
}

// NewHandlers builds a handler for every transport with a configured
// address. The HTTP handler gets the account rate limit from cfg.
// It fails with errNoHandlersAreCreated when neither address is set.
func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, logger, http.WithAuthRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow))
	}
	if cfg.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
