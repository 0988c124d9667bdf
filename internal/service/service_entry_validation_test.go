// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/mock"
	"github.com/MKhiriev/go-key-vault/internal/validators"
	"github.com/MKhiriev/go-key-vault/models"
)

// newValidatedEntryService wraps a real entryService whose repository expects
// nothing unless the test says so.
func newValidatedEntryService(t *testing.T) (EntryService, *mock.MockEntryRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntryRepository(ctrl)
	return NewEntryValidationService().Wrap(NewEntryService(repo, logger.Nop())), repo
}

func TestEntryValidationService_StoreEntry(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.VaultEntry)
		wantErr error
	}{
		{name: "no label", mutate: func(e *models.VaultEntry) { e.Label = "" }, wantErr: validators.ErrEmptyLabel},
		{name: "bad classification", mutate: func(e *models.VaultEntry) { e.Classification = "ssh" }, wantErr: validators.ErrInvalidClassification},
		{name: "bad bundle", mutate: func(e *models.VaultEntry) { e.Primary.Nonce = "short" }, wantErr: validators.ErrInvalidBundle},
		{name: "no owner", mutate: func(e *models.VaultEntry) { e.UserID = 0 }, wantErr: validators.ErrInvalidUserID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newValidatedEntryService(t)
			entry := storedEntry()
			tt.mutate(&entry)

			_, err := svc.StoreEntry(context.Background(), entry)
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEntryValidationService_PassesValidInput(t *testing.T) {
	svc, repo := newValidatedEntryService(t)
	repo.EXPECT().SaveEntry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e models.VaultEntry) (models.VaultEntry, error) { return e, nil },
	)

	_, err := svc.StoreEntry(context.Background(), storedEntry())
	require.NoError(t, err)
}

func TestEntryValidationService_RejectsBadIDs(t *testing.T) {
	svc, _ := newValidatedEntryService(t)
	ctx := context.Background()

	_, err := svc.GetEntry(ctx, ownerID, "not-a-uuid")
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, svc.DeleteEntry(ctx, ownerID, "../etc"), ErrValidation)
	assert.ErrorIs(t, svc.TouchEntry(ctx, 0, entryID), ErrValidation)

	_, err = svc.RotateEntry(ctx, ownerID, entryID, models.RotateRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEntryValidationService_ListFilter(t *testing.T) {
	svc, _ := newValidatedEntryService(t)

	_, err := svc.ListEntries(context.Background(), models.EntryFilter{UserID: ownerID, Limit: validators.MaxPageSize + 1})
	assert.ErrorIs(t, err, validators.ErrInvalidLimit)

	_, err = svc.ListEntries(context.Background(), models.EntryFilter{UserID: ownerID, Classification: "ssh"})
	assert.ErrorIs(t, err, validators.ErrInvalidClassification)
}
