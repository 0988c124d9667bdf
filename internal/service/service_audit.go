// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/MKhiriev/go-key-vault/internal/validators"
	"github.com/MKhiriev/go-key-vault/models"
)

type auditService struct {
	auditRepository store.AuditRepository
	entryService    EntryService
	validator       validators.Validator
	now             func() time.Time
	logger          *logger.Logger
}

// NewAuditService returns an [AuditService]. entryService is used to check that
// a reported entry belongs to the reporter.
func NewAuditService(auditRepository store.AuditRepository, entryService EntryService, logger *logger.Logger) AuditService {
	return &auditService{
		auditRepository: auditRepository,
		entryService:    entryService,
		validator:       validators.NewEntryValidator(),
		now:             time.Now,
		logger:          logger,
	}
}

// Record appends record to the trail, filling in its id and timestamp.
func (s *auditService) Record(ctx context.Context, record models.AuditRecord) error {
	log := logger.FromContext(ctx)

	if !record.Action.Valid() {
		return fmt.Errorf("%w: %w", ErrValidation, validators.ErrInvalidAction)
	}

	record.ID = utils.NewID()
	record.CreatedAt = s.now().UTC()

	if err := s.auditRepository.AppendRecord(ctx, record); err != nil {
		log.Err(err).
			Str("func", "auditService.Record").
			Str("action", string(record.Action)).
			Int64("user_id", record.UserID).
			Msg("appending audit record failed")
		return fmt.Errorf("appending audit record failed: %w", err)
	}

	return nil
}

func (s *auditService) ReportEvent(ctx context.Context, userID int64, event models.AuditEvent) error {
	if err := s.validator.Validate(ctx, event); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if event.Success {
		return s.entryService.TouchEntry(ctx, userID, event.EntryID)
	}

	_, err := s.entryService.GetEntry(ctx, userID, event.EntryID)
	return err
}

// ListRecords returns one page of the caller's audit records, newest first.
func (s *auditService) ListRecords(ctx context.Context, filter models.AuditFilter) (models.AuditList, error) {
	if err := s.validator.Validate(ctx, filter); err != nil {
		return models.AuditList{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if filter.Limit == 0 {
		filter.Limit = defaultPageSize
	}

	list, err := s.auditRepository.ListRecords(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "auditService.ListRecords").
			Int64("user_id", filter.UserID).
			Msg("listing audit records failed")
		return models.AuditList{}, fmt.Errorf("listing audit records failed: %w", err)
	}

	return list, nil
}
