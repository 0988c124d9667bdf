// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/migrations"
	"github.com/sethvargo/go-retry"
)

const (
	defaultRetryBase     = 50 * time.Millisecond
	defaultRetryAttempts = 3
)

// DB wraps a *sql.DB with the dialect it speaks and an optional error
// classifier that drives [DB.withRetry].
type DB struct {
	*sql.DB
	dialect            migrations.Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger

	retryBase time.Duration
}

// Migrate applies the embedded migrations for the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// withRetry runs op, retrying with exponential backoff while the classifier
// reports the failure as [Retryable]. Without a classifier op runs once.
func (db *DB) withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	if db.errorClassificator == nil {
		return op(ctx)
	}

	base := db.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	backoff := retry.WithMaxRetries(defaultRetryAttempts-1, retry.NewExponential(base))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if err != nil && db.errorClassificator.Classify(err) == Retryable {
			db.logger.Warn().Err(err).Str("func", "DB.withRetry").Msg("retrying transient database error")
			return retry.RetryableError(err)
		}
		return err
	})
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
