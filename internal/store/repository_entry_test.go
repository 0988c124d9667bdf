// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/models"
)

const entryID = "0190b2a4-6d7e-7c3a-9f1e-2b4c6d8e0f11"

func testEntry() models.VaultEntry {
	return models.VaultEntry{
		ID:             entryID,
		UserID:         7,
		Label:          "stripe",
		Classification: models.ClassificationAPIKey,
		Tags:           []string{"billing", "prod"},
		Environment:    "production",
		Primary:        models.EncryptedBundle{Ciphertext: "cGN0", Nonce: "cG5vbmNl", Salt: "cHNhbHQ="},
		Metadata:       &models.EncryptedBundle{Ciphertext: "bWN0", Nonce: "bW5vbmNl", Salt: "bXNhbHQ="},
	}
}

// entryRow renders e in entryColumns order.
func entryRow(e models.VaultEntry, tags string) []driver.Value {
	nullable := func(b *models.EncryptedBundle) []driver.Value {
		if b == nil {
			return []driver.Value{nil, nil, nil}
		}
		return []driver.Value{b.Ciphertext, b.Nonce, b.Salt}
	}

	row := []driver.Value{e.ID, e.UserID, e.Label, e.Description, string(e.Classification), tags, e.Environment,
		e.Primary.Ciphertext, e.Primary.Nonce, e.Primary.Salt}
	row = append(row, nullable(e.Secondary)...)
	row = append(row, nullable(e.Metadata)...)
	return append(row, e.Active, nil, nil, nil, e.AccessCount, e.CreatedAt, e.UpdatedAt)
}

func TestEntryRepository_SaveEntry(t *testing.T) {
	db, mock := newTestDB(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO vault_entries").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	saved, err := NewEntryRepository(db, logger.Nop()).SaveEntry(context.Background(), testEntry())
	require.NoError(t, err)
	assert.True(t, saved.Active)
	assert.Equal(t, now, saved.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepository_SaveEntry_Error(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectQuery("INSERT INTO vault_entries").WillReturnError(errors.New("boom"))

	_, err := NewEntryRepository(db, logger.Nop()).SaveEntry(context.Background(), testEntry())
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestEntryRepository_GetEntry(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newTestDB(t)
		want := testEntry()
		want.Active = true
		want.AccessCount = 4
		want.CreatedAt = time.Now().UTC()
		want.UpdatedAt = want.CreatedAt

		mock.ExpectQuery("SELECT (.+) FROM vault_entries WHERE id = \\$1").
			WithArgs(entryID).
			WillReturnRows(sqlmock.NewRows(entryColumns).AddRow(entryRow(want, `["billing","prod"]`)...))

		got, err := NewEntryRepository(db, logger.Nop()).GetEntry(context.Background(), entryID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Nil(t, got.Secondary)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		mock.ExpectQuery("SELECT (.+) FROM vault_entries").WillReturnRows(sqlmock.NewRows(entryColumns))

		_, err := NewEntryRepository(db, logger.Nop()).GetEntry(context.Background(), entryID)
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})

	t.Run("corrupt tags", func(t *testing.T) {
		db, mock := newTestDB(t)
		mock.ExpectQuery("SELECT (.+) FROM vault_entries").
			WillReturnRows(sqlmock.NewRows(entryColumns).AddRow(entryRow(testEntry(), "not json")...))

		_, err := NewEntryRepository(db, logger.Nop()).GetEntry(context.Background(), entryID)
		assert.ErrorIs(t, err, ErrEncodingColumn)
	})
}

func TestEntryRepository_ListEntries(t *testing.T) {
	db, mock := newTestDB(t)
	filter := models.EntryFilter{UserID: 7, Classification: models.ClassificationAPIKey, Limit: 1}

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM vault_entries").
		WithArgs(int64(7), true, "api_key").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT (.+) FROM vault_entries WHERE (.+) LIMIT 1").
		WithArgs(int64(7), true, "api_key").
		WillReturnRows(sqlmock.NewRows(entryColumns).AddRow(entryRow(testEntry(), "[]")...))

	list, err := NewEntryRepository(db, logger.Nop()).ListEntries(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Entries, 1)
	assert.Empty(t, list.Entries[0].Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepository_DeactivateEntry(t *testing.T) {
	tests := []struct {
		name    string
		result  driver.Result
		err     error
		wantErr error
	}{
		{name: "deactivated", result: sqlmock.NewResult(0, 1)},
		{name: "missing or already inactive", result: sqlmock.NewResult(0, 0), wantErr: ErrEntryNotFound},
		{name: "db error", err: errors.New("boom"), wantErr: ErrExecutingStatement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			exp := mock.ExpectExec("UPDATE vault_entries SET active = FALSE").WithArgs(entryID, int64(7))
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err := NewEntryRepository(db, logger.Nop()).DeactivateEntry(context.Background(), entryID, 7)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEntryRepository_DeactivateExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("counts deactivated rows", func(t *testing.T) {
		db, mock := newTestDB(t)
		mock.ExpectExec("UPDATE vault_entries SET active = FALSE").
			WithArgs(now).
			WillReturnResult(sqlmock.NewResult(0, 3))

		n, err := NewEntryRepository(db, logger.Nop()).DeactivateExpired(context.Background(), now)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		db, mock := newTestDB(t)
		mock.ExpectExec("UPDATE vault_entries SET active = FALSE").
			WithArgs(now).
			WillReturnError(errors.New("boom"))

		_, err := NewEntryRepository(db, logger.Nop()).DeactivateExpired(context.Background(), now)
		assert.ErrorIs(t, err, ErrExecutingStatement)
	})
}

func TestEntryRepository_TouchEntry(t *testing.T) {
	db, mock := newTestDB(t)
	at := time.Now()

	mock.ExpectExec("UPDATE vault_entries SET last_accessed_at").
		WithArgs(entryID, int64(7), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewEntryRepository(db, logger.Nop()).TouchEntry(context.Background(), entryID, 7, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepository_RotateEntry(t *testing.T) {
	const newID = "0190b2a4-6d7e-7c3a-9f1e-2b4c6d8e0f22"

	replacement := testEntry()
	replacement.ID = newID

	t.Run("success", func(t *testing.T) {
		db, mock := newTestDB(t)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE vault_entries SET active = FALSE").
			WithArgs(entryID, int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO vault_entries").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectCommit()

		rotated, err := NewEntryRepository(db, logger.Nop()).RotateEntry(context.Background(), entryID, replacement)
		require.NoError(t, err)
		require.NotNil(t, rotated.RotatedFromID)
		assert.Equal(t, entryID, *rotated.RotatedFromID)
		assert.Equal(t, newID, rotated.ID)
		assert.True(t, rotated.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("old entry inactive rolls back", func(t *testing.T) {
		db, mock := newTestDB(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE vault_entries SET active = FALSE").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := NewEntryRepository(db, logger.Nop()).RotateEntry(context.Background(), entryID, replacement)
		assert.ErrorIs(t, err, ErrEntryNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		db, mock := newTestDB(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE vault_entries SET active = FALSE").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO vault_entries").WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		_, err := NewEntryRepository(db, logger.Nop()).RotateEntry(context.Background(), entryID, replacement)
		assert.ErrorIs(t, err, ErrExecutingStatement)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
