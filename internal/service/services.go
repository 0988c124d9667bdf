// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/MKhiriev/go-key-vault/internal/workers"
)

// Services groups the server-side business services the transport handlers
// depend on.
type Services struct {
	// AuthService registers accounts, checks passwords and issues tokens.
	AuthService AuthService
	// EntryService stores opaque entries, wrapped with input validation.
	EntryService EntryService
	// AuditService appends to and reads the audit trail.
	AuditService AuditService

	// ExpiryJob deactivates entries past their ExpiresAt. It is idle until
	// the caller runs it.
	ExpiryJob workers.Worker
}

// NewServices builds the server services over storages. The validated entry
// service is shared with the audit service.
func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	entryService := NewEntryValidationService().Wrap(NewEntryService(storages.EntryRepository, logger))

	return &Services{
		AuthService:  NewAuthService(storages.UserRepository, cfg.App, logger),
		EntryService: entryService,
		AuditService: NewAuditService(storages.AuditRepository, entryService, logger),
		ExpiryJob:    NewEntryExpiryJob(storages.EntryRepository, utils.SystemClock(), cfg.Workers.EntryExpiryInterval, logger),
	}
}
