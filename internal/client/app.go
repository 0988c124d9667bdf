// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-key-vault/internal/adapter"
	"github.com/MKhiriev/go-key-vault/internal/clipboard"
	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/keyring"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/internal/tui"
	"github.com/MKhiriev/go-key-vault/internal/workers"
)

type App struct {
	services *service.ClientServices
	ui       UI
	workers  *workers.Workers
	closers  []func() error
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, ui UI, logger *logger.Logger, closers ...func() error) *App {
	return &App{
		services: services,
		ui:       ui,
		workers:  workers.NewWorkers(services.CacheJob),
		closers:  closers,
		logger:   logger,
	}
}

// OpenApp builds the full client stack from cfg: the sqlite cache, the HTTP
// server adapter, the OS keyring, the system clipboard and the terminal UI.
func OpenApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, logger)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	services := service.NewClientServices(
		storages.EntryCache,
		serverAdapter,
		keyring.NewTokenStore(),
		clipboard.SystemWriter(),
		*cfg,
		logger,
	)

	return NewApp(services, tui.New(services.VaultService, logger), logger, storages.Close), nil
}

func (a *App) Auth() service.ClientAuthService {
	return a.services.AuthService
}

func (a *App) Vault() service.VaultService {
	return a.services.VaultService
}

// Run restores the saved session, starts the background workers and hands
// the terminal to the UI. The vault is locked when Run returns.
func (a *App) Run(ctx context.Context) error {
	if err := a.services.AuthService.RestoreSession(ctx); err != nil {
		if errors.Is(err, service.ErrNotLoggedIn) {
			return fmt.Errorf("%w: run \"login\" or \"register\" first", err)
		}
		return fmt.Errorf("restore session: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.workers.Run(ctx)
	defer a.workers.Stop()

	defer func() {
		if err := a.services.VaultService.Close(); err != nil {
			a.logger.Err(err).Str("func", "App.Run").Msg("closing vault failed")
		}
	}()

	return a.ui.Run(ctx)
}

// Close releases the local storage. It is safe to call more than once.
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	a.closers = nil
	return errors.Join(errs...)
}
