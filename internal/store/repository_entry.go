// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/models"
)

// entryRepository is the PostgreSQL-backed implementation of [EntryRepository].
// It never sees plaintext; bundle columns are stored exactly as received.
type entryRepository struct {
	*DB
	logger *logger.Logger
}

// NewEntryRepository returns the PostgreSQL-backed [EntryRepository].
func NewEntryRepository(db *DB, logger *logger.Logger) EntryRepository {
	logger.Debug().Msg("creating entry repository")
	return &entryRepository{DB: db, logger: logger}
}

// SaveEntry inserts a new active entry and returns it with its timestamps.
func (r *entryRepository) SaveEntry(ctx context.Context, entry models.VaultEntry) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertEntryQuery(entry)
	if err != nil {
		log.Err(err).Str("func", "entryRepository.SaveEntry").Str("entry_id", entry.ID).Msg("failed to create query")
		return models.VaultEntry{}, err
	}

	if err = r.QueryRowContext(ctx, query, args...).Scan(&entry.CreatedAt, &entry.UpdatedAt); err != nil {
		log.Err(err).Str("func", "entryRepository.SaveEntry").Str("entry_id", entry.ID).Msg("failed to insert entry")
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	entry.Active = true
	if entry.Tags == nil {
		entry.Tags = []string{}
	}

	log.Debug().Str("func", "entryRepository.SaveEntry").Str("entry_id", entry.ID).Msg("entry saved")
	return entry, nil
}

// GetEntry returns the entry with the given id regardless of owner or state.
func (r *entryRepository) GetEntry(ctx context.Context, id string) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetEntryQuery(id)
	if err != nil {
		log.Err(err).Str("func", "entryRepository.GetEntry").Msg("failed to create query")
		return models.VaultEntry{}, err
	}

	entry, err := scanEntry(r.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.VaultEntry{}, ErrEntryNotFound
	case err != nil:
		log.Err(err).Str("func", "entryRepository.GetEntry").Str("entry_id", id).Msg("failed to scan entry row")
		return models.VaultEntry{}, err
	}

	return entry, nil
}

// ListEntries returns one page of the filter's matches and the total match count.
func (r *entryRepository) ListEntries(ctx context.Context, filter models.EntryFilter) (models.EntryList, error) {
	log := logger.FromContext(ctx)

	countQuery, countArgs, err := buildCountEntriesQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "entryRepository.ListEntries").Msg("failed to create count query")
		return models.EntryList{}, err
	}

	var total int
	if err = r.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "entryRepository.ListEntries").Int64("user_id", filter.UserID).Msg("failed to count entries")
		return models.EntryList{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err := buildListEntriesQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "entryRepository.ListEntries").Msg("failed to create query")
		return models.EntryList{}, err
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "entryRepository.ListEntries").Int64("user_id", filter.UserID).Msg("failed to list entries")
		return models.EntryList{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.VaultEntry, 0, 16)
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "entryRepository.ListEntries").Msg("failed to scan entry row")
			return models.EntryList{}, scanErr
		}
		entries = append(entries, entry)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "entryRepository.ListEntries").Msg("error occurred during rows iteration")
		return models.EntryList{}, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return models.EntryList{Entries: entries, Total: total}, nil
}

// DeactivateEntry soft-deletes an active entry owned by userID.
func (r *entryRepository) DeactivateEntry(ctx context.Context, id string, userID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.ExecContext(ctx, deactivateEntry, id, userID)
	if err != nil {
		log.Err(err).Str("func", "entryRepository.DeactivateEntry").Str("entry_id", id).Msg("failed to deactivate entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return requireOneRow(result)
}

// DeactivateExpired soft-deletes active entries that expired at or before now.
func (r *entryRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.ExecContext(ctx, deactivateExpiredEntries, now)
	if err != nil {
		log.Err(err).Str("func", "entryRepository.DeactivateExpired").Msg("failed to deactivate expired entries")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return affected, nil
}

// TouchEntry records a successful reveal.
func (r *entryRepository) TouchEntry(ctx context.Context, id string, userID int64, at time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.ExecContext(ctx, touchEntry, id, userID, at)
	if err != nil {
		log.Err(err).Str("func", "entryRepository.TouchEntry").Str("entry_id", id).Msg("failed to update access statistics")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return requireOneRow(result)
}

// RotateEntry deactivates oldID and inserts replacement in one transaction.
// replacement.UserID scopes the deactivation; replacement.RotatedFromID is
// set to oldID.
func (r *entryRepository) RotateEntry(ctx context.Context, oldID string, replacement models.VaultEntry) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	replacement.RotatedFromID = &oldID
	query, args, err := buildInsertEntryQuery(replacement)
	if err != nil {
		log.Err(err).Str("func", "entryRepository.RotateEntry").Msg("failed to create query")
		return models.VaultEntry{}, err
	}

	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "entryRepository.RotateEntry").Msg("failed to begin transaction")
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, deactivateEntry, oldID, replacement.UserID)
	if err != nil {
		log.Err(err).Str("func", "entryRepository.RotateEntry").Str("entry_id", oldID).Msg("failed to deactivate rotated entry")
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if err = requireOneRow(result); err != nil {
		log.Warn().Str("func", "entryRepository.RotateEntry").Str("entry_id", oldID).Msg("rotated entry is missing or inactive")
		return models.VaultEntry{}, err
	}

	if err = tx.QueryRowContext(ctx, query, args...).Scan(&replacement.CreatedAt, &replacement.UpdatedAt); err != nil {
		log.Err(err).Str("func", "entryRepository.RotateEntry").Str("entry_id", replacement.ID).Msg("failed to insert replacement")
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "entryRepository.RotateEntry").Msg("failed to commit transaction")
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	replacement.Active = true
	if replacement.Tags == nil {
		replacement.Tags = []string{}
	}

	log.Info().
		Str("func", "entryRepository.RotateEntry").
		Str("old_entry_id", oldID).
		Str("new_entry_id", replacement.ID).
		Msg("entry rotated")
	return replacement, nil
}

func requireOneRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

type nullBundle struct {
	Ciphertext, Nonce, Salt sql.NullString
}

func (b nullBundle) bundle() *models.EncryptedBundle {
	if !b.Ciphertext.Valid {
		return nil
	}
	return &models.EncryptedBundle{Ciphertext: b.Ciphertext.String, Nonce: b.Nonce.String, Salt: b.Salt.String}
}

// scanEntry reads one row laid out as entryColumns.
func scanEntry(row rowScanner) (models.VaultEntry, error) {
	var (
		entry               models.VaultEntry
		classification      string
		tags                string
		secondary, metadata nullBundle
		rotatedFrom         sql.NullString
		expiresAt, accessed sql.NullTime
	)

	err := row.Scan(
		&entry.ID, &entry.UserID, &entry.Label, &entry.Description, &classification, &tags, &entry.Environment,
		&entry.Primary.Ciphertext, &entry.Primary.Nonce, &entry.Primary.Salt,
		&secondary.Ciphertext, &secondary.Nonce, &secondary.Salt,
		&metadata.Ciphertext, &metadata.Nonce, &metadata.Salt,
		&entry.Active, &rotatedFrom, &expiresAt, &accessed, &entry.AccessCount,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VaultEntry{}, err
	}
	if err != nil {
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if entry.Tags, err = decodeTags(tags); err != nil {
		return models.VaultEntry{}, err
	}
	entry.Classification = models.Classification(classification)
	entry.Secondary = secondary.bundle()
	entry.Metadata = metadata.bundle()
	if rotatedFrom.Valid {
		entry.RotatedFromID = &rotatedFrom.String
	}
	if expiresAt.Valid {
		entry.ExpiresAt = &expiresAt.Time
	}
	if accessed.Valid {
		entry.LastAccessedAt = &accessed.Time
	}

	return entry, nil
}
