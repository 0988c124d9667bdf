// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/models"
)

// entryCache is the sqlite-backed [EntryCache]. Each row keeps the entry's
// JSON form in payload next to the columns used for filtering.
type entryCache struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewEntryCache returns an [EntryCache] over the client's sqlite database.
// Entries are stored as JSON payloads keyed by (user_id, id); only the
// searchable metadata is kept in columns.
func NewEntryCache(db *DB, logger *logger.Logger) EntryCache {
	logger.Debug().Msg("creating entry cache")
	return &entryCache{DB: db, logger: logger, now: time.Now}
}

// ReplaceAll swaps the user's cached entries for entries in one transaction.
func (c *entryCache) ReplaceAll(ctx context.Context, userID int64, entries []models.VaultEntry) error {
	log := logger.FromContext(ctx)

	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "entryCache.ReplaceAll").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, clearCache, userID); err != nil {
		log.Err(err).Str("func", "entryCache.ReplaceAll").Msg("failed to clear cache")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertCacheEntry)
	if err != nil {
		log.Err(err).Str("func", "entryCache.ReplaceAll").Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	defer stmt.Close()

	syncedAt := c.now().UTC()
	for _, entry := range entries {
		entry.UserID = userID
		args, argsErr := cacheArgs(entry, syncedAt)
		if argsErr != nil {
			return argsErr
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			log.Err(err).Str("func", "entryCache.ReplaceAll").Str("entry_id", entry.ID).Msg("failed to cache entry")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "entryCache.ReplaceAll").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	log.Debug().Str("func", "entryCache.ReplaceAll").Int("entries", len(entries)).Msg("cache replaced")
	return nil
}

// PutEntry inserts or replaces one cached entry and stamps its cache time.
func (c *entryCache) PutEntry(ctx context.Context, entry models.VaultEntry) error {
	log := logger.FromContext(ctx)

	args, err := cacheArgs(entry, c.now().UTC())
	if err != nil {
		return err
	}
	if _, err = c.ExecContext(ctx, upsertCacheEntry, args...); err != nil {
		log.Err(err).Str("func", "entryCache.PutEntry").Str("entry_id", entry.ID).Msg("failed to cache entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// GetEntry returns the cached entry, or [ErrEntryNotFound] when the cache has
// no row for (userID, id).
func (c *entryCache) GetEntry(ctx context.Context, userID int64, id string) (models.VaultEntry, error) {
	log := logger.FromContext(ctx)

	var payload string
	err := c.QueryRowContext(ctx, getCacheEntry, userID, id).Scan(&payload)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.VaultEntry{}, ErrEntryNotFound
	case err != nil:
		log.Err(err).Str("func", "entryCache.GetEntry").Str("entry_id", id).Msg("failed to read cached entry")
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return decodeCachedEntry(payload, userID)
}

// ListEntries pages through the cached entries that match filter. Inactive
// entries are skipped unless filter.IncludeInactive is set.
func (c *entryCache) ListEntries(ctx context.Context, filter models.EntryFilter) (models.EntryList, error) {
	log := logger.FromContext(ctx)

	countQuery, countArgs, err := buildCountCacheQuery(filter)
	if err != nil {
		return models.EntryList{}, err
	}
	var total int
	if err = c.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "entryCache.ListEntries").Msg("failed to count cached entries")
		return models.EntryList{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err := buildListCacheQuery(filter)
	if err != nil {
		return models.EntryList{}, err
	}
	rows, err := c.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "entryCache.ListEntries").Msg("failed to list cached entries")
		return models.EntryList{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.VaultEntry, 0, 16)
	for rows.Next() {
		var payload string
		if err = rows.Scan(&payload); err != nil {
			return models.EntryList{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entry, decodeErr := decodeCachedEntry(payload, filter.UserID)
		if decodeErr != nil {
			log.Err(decodeErr).Str("func", "entryCache.ListEntries").Msg("corrupt cache row")
			return models.EntryList{}, decodeErr
		}
		entries = append(entries, entry)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return models.EntryList{}, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return models.EntryList{Entries: entries, Total: total}, nil
}

// DeleteEntry drops the cached row. Dropping a missing row is not an error.
func (c *entryCache) DeleteEntry(ctx context.Context, userID int64, id string) error {
	if _, err := c.ExecContext(ctx, deleteCacheEntry, userID, id); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "entryCache.DeleteEntry").Str("entry_id", id).Msg("failed to drop cached entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func cacheArgs(entry models.VaultEntry, syncedAt time.Time) ([]any, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %w", ErrEncodingColumn, err)
	}
	active := 0
	if entry.Active {
		active = 1
	}
	return []any{
		entry.ID, entry.UserID, entry.Label, string(entry.Classification), entry.Environment,
		active, string(payload), syncedAt.Format(time.RFC3339Nano),
	}, nil
}

func decodeCachedEntry(payload string, userID int64) (models.VaultEntry, error) {
	var entry models.VaultEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return models.VaultEntry{}, fmt.Errorf("%w: payload: %w", ErrEncodingColumn, err)
	}
	entry.UserID = userID
	return entry, nil
}
