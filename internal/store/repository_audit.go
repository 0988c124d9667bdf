// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/models"
)

type auditRepository struct {
	*DB
	logger *logger.Logger
}

// NewAuditRepository returns the PostgreSQL audit trail. It only ever
// inserts and selects.
func NewAuditRepository(db *DB, logger *logger.Logger) AuditRepository {
	logger.Debug().Msg("creating audit repository")
	return &auditRepository{DB: db, logger: logger}
}

// AppendRecord inserts one audit record, retrying transient failures.
func (r *auditRepository) AppendRecord(ctx context.Context, record models.AuditRecord) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertAuditQuery(record)
	if err != nil {
		log.Err(err).Str("func", "auditRepository.AppendRecord").Msg("failed to create query")
		return err
	}

	err = r.withRetry(ctx, func(ctx context.Context) error {
		_, execErr := r.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "auditRepository.AppendRecord").
			Str("action", string(record.Action)).
			Int64("user_id", record.UserID).
			Msg("failed to append audit record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// ListRecords returns one page of the caller's trail, newest first.
func (r *auditRepository) ListRecords(ctx context.Context, filter models.AuditFilter) (models.AuditList, error) {
	log := logger.FromContext(ctx)

	countQuery, countArgs, err := buildCountAuditQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "auditRepository.ListRecords").Msg("failed to create count query")
		return models.AuditList{}, err
	}

	var total int
	if err = r.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "auditRepository.ListRecords").Msg("failed to count audit records")
		return models.AuditList{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err := buildListAuditQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "auditRepository.ListRecords").Msg("failed to create query")
		return models.AuditList{}, err
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "auditRepository.ListRecords").Msg("failed to list audit records")
		return models.AuditList{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.AuditRecord, 0, 32)
	for rows.Next() {
		var (
			record  models.AuditRecord
			action  string
			entryID sql.NullString
		)
		scanErr := rows.Scan(
			&record.ID, &record.UserID, &entryID, &action, &record.Success,
			&record.Endpoint, &record.Method, &record.IPAddress, &record.UserAgent, &record.RequestID,
			&record.StatusCode, &record.ErrorMessage,
			&record.CreatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "auditRepository.ListRecords").Msg("failed to scan audit row")
			return models.AuditList{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		record.Action = models.AuditAction(action)
		if entryID.Valid {
			record.EntryID = &entryID.String
		}
		records = append(records, record)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "auditRepository.ListRecords").Msg("error occurred during rows iteration")
		return models.AuditList{}, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return models.AuditList{Records: records, Total: total}, nil
}
