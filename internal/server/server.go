// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/handler"
	"github.com/MKhiriev/go-key-vault/internal/logger"
)

// server runs every enabled transport until a stop signal arrives.
type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer
	logger     *logger.Logger

	stopOnce sync.Once
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	s := &server{logger: logger}

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		s.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		s.gRPCServer = newGRPCServer(handlers.GRPC, cfg, logger)
	}

	if len(s.transports()) == 0 {
		return nil, errNoServersAreCreated
	}

	return s, nil
}

// RunServer blocks until SIGTERM, SIGINT or SIGQUIT, then shuts down.
func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := s.run(ctx); err != nil {
		s.logger.Err(err).Msg("error running server")
	}
}

// Shutdown stops every transport once. gRPC goes first so the health
// service reports NOT_SERVING before HTTP stops accepting requests.
func (s *server) Shutdown() {
	s.stopOnce.Do(func() {
		transports := s.transports()
		for i := len(transports) - 1; i >= 0; i-- {
			transports[i].Shutdown()
		}
	})
}

func (s *server) transports() []Server {
	var out []Server
	if s.httpServer != nil {
		out = append(out, s.httpServer)
	}
	if s.gRPCServer != nil {
		out = append(out, s.gRPCServer)
	}
	return out
}

func (s *server) run(ctx context.Context) error {
	transports := s.transports()
	if len(transports) == 0 {
		return errNoServersToRun
	}

	var wg sync.WaitGroup
	for _, t := range transports {
		wg.Add(1)
		go func() {
			defer wg.Done()
			t.RunServer()
		}()
	}

	<-ctx.Done()
	s.logger.Info().Msg("stop signal received")

	s.Shutdown()
	wg.Wait()

	s.logger.Info().Msg("server shut down gracefully")
	return nil
}
