// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-key-vault/internal/adapter"
	"github.com/MKhiriev/go-key-vault/internal/app"
	"github.com/MKhiriev/go-key-vault/internal/clipboard"
	"github.com/MKhiriev/go-key-vault/internal/crypto"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/mock"
	"github.com/MKhiriev/go-key-vault/internal/session"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/MKhiriev/go-key-vault/internal/validators"
	"github.com/MKhiriev/go-key-vault/models"
)

var vaultStart = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

type fakeClipboard struct {
	mu      sync.Mutex
	content string
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = text
	return nil
}

func (c *fakeClipboard) Content() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

type vaultFixture struct {
	svc     VaultService
	adapter *mock.MockServerAdapter
	cache   *mock.MockEntryCache
	guard   *session.Guard
	clock   *utils.ManualClock
	clip    *fakeClipboard
	enc     crypto.EncryptionService
}

func newVaultFixture(t *testing.T) *vaultFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &vaultFixture{
		adapter: mock.NewMockServerAdapter(ctrl),
		cache:   mock.NewMockEntryCache(ctrl),
		clock:   utils.NewManualClock(vaultStart),
		clip:    &fakeClipboard{},
		enc:     crypto.NewEncryptionService(crypto.WithIterations(1000)),
	}
	f.guard = session.NewGuard(f.enc, NewVerifierSource(f.adapter, f.cache), session.WithClock(f.clock))
	clip := clipboard.NewGuard(f.clip, f.clock, clipboard.DefaultClearDelay, logger.Nop())
	f.svc = NewVaultService(f.adapter, f.cache, f.guard, f.enc, clip, logger.Nop())
	return f
}

func (f *vaultFixture) loggedIn() {
	f.adapter.EXPECT().UserID().Return(ownerID, nil).AnyTimes()
	f.adapter.EXPECT().Token().Return("jwt").AnyTimes()
}

func (f *vaultFixture) seal(t *testing.T, plaintext string) models.EncryptedBundle {
	t.Helper()
	bundle, err := f.enc.Encrypt(plaintext, masterSecret)
	require.NoError(t, err)
	return bundle
}

func (f *vaultFixture) unlock(t *testing.T) {
	t.Helper()
	f.adapter.EXPECT().Verifier(gomock.Any()).Return(f.seal(t, verifierMarker), nil)
	require.NoError(t, f.svc.Unlock(context.Background(), masterSecret))
}

func (f *vaultFixture) sealedEntry(t *testing.T, secret string) models.VaultEntry {
	t.Helper()
	secondary := f.seal(t, "key-id-123")
	return models.VaultEntry{
		ID:             entryID,
		Label:          "stripe",
		Classification: models.ClassificationAPIKey,
		Primary:        f.seal(t, secret),
		Secondary:      &secondary,
		Active:         true,
	}
}

// ───────────── unlock / lock ─────────────

func TestVaultService_UnlockAndStatus(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()

	f.adapter.EXPECT().Verifier(gomock.Any()).Return(f.seal(t, verifierMarker), nil)
	err := f.svc.Unlock(context.Background(), "WrongHorseBattery9!")
	assert.ErrorIs(t, err, validators.ErrInvalidMasterSecret)
	assert.Equal(t, session.Locked, f.svc.Status().State)

	f.unlock(t)
	status := f.svc.Status()
	assert.Equal(t, session.Unlocked, status.State)
	assert.Equal(t, vaultStart.Add(session.DefaultAutoLockTimeout), status.Deadline)
	assert.True(t, status.LoggedIn)
	assert.Equal(t, clipboard.DefaultClearDelay, status.ClipboardDelay)

	var reasons []session.LockReason
	f.svc.OnLock(func(r session.LockReason) { reasons = append(reasons, r) })
	f.svc.Lock()
	assert.Equal(t, session.Locked, f.svc.Status().State)
	assert.Equal(t, []session.LockReason{session.ReasonManual}, reasons)
}

func TestVaultService_UnlockOffline(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()

	f.adapter.EXPECT().Verifier(gomock.Any()).Return(models.EncryptedBundle{}, fmt.Errorf("%w: connection refused", adapter.ErrTransport))
	f.cache.EXPECT().ListEntries(gomock.Any(), models.EntryFilter{UserID: ownerID, Limit: offlineVerifierBundles}).
		Return(models.EntryList{Entries: []models.VaultEntry{f.sealedEntry(t, "sk_live")}, Total: 1}, nil)

	require.NoError(t, f.svc.Unlock(context.Background(), masterSecret))
}

func TestVaultService_UnlockServerRejects(t *testing.T) {
	f := newVaultFixture(t)

	f.adapter.EXPECT().Verifier(gomock.Any()).Return(models.EncryptedBundle{}, fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgTokenIsExpiredOrInvalid))

	assert.ErrorIs(t, f.svc.Unlock(context.Background(), masterSecret), ErrInvalidToken)
}

func TestVaultService_AutoLock(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	f.unlock(t)

	f.clock.Advance(session.DefaultAutoLockTimeout)
	assert.Equal(t, session.Locked, f.svc.Status().State)

	_, err := f.svc.Reveal(context.Background(), entryID)
	assert.ErrorIs(t, err, session.ErrSessionLocked)
	assert.ErrorIs(t, f.svc.ResetAutoLock(), session.ErrSessionLocked)
}

// ───────────── Store ─────────────

func TestVaultService_Store(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	f.unlock(t)
	ctx := context.Background()

	f.adapter.EXPECT().CreateEntry(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, e models.VaultEntry) (models.VaultEntry, error) {
			primary, err := f.enc.Decrypt(e.Primary, masterSecret)
			require.NoError(t, err)
			assert.Equal(t, "sk_live_abc", primary)

			require.NotNil(t, e.Secondary)
			secondary, err := f.enc.Decrypt(*e.Secondary, masterSecret)
			require.NoError(t, err)
			assert.Equal(t, "pk_live_abc", secondary)
			assert.NotEqual(t, e.Primary.Salt, e.Secondary.Salt)
			assert.NotEqual(t, e.Primary.Nonce, e.Secondary.Nonce)

			assert.Nil(t, e.Metadata, "empty notes produce no bundle")
			assert.Equal(t, []string{"billing"}, e.Tags)

			e.ID = entryID
			e.Active = true
			return e, nil
		},
	)
	f.cache.EXPECT().PutEntry(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, e models.VaultEntry) error {
			assert.Equal(t, ownerID, e.UserID)
			assert.Equal(t, entryID, e.ID)
			return nil
		},
	)

	saved, err := f.svc.Store(ctx, NewEntry{
		Label:          "stripe",
		Classification: models.ClassificationAPIKey,
		Tags:           []string{"billing"},
		Secret:         "sk_live_abc",
		Secondary:      "pk_live_abc",
	})
	require.NoError(t, err)
	assert.Equal(t, entryID, saved.ID)
}

func TestVaultService_Store_Locked(t *testing.T) {
	f := newVaultFixture(t)

	_, err := f.svc.Store(context.Background(), NewEntry{Label: "x", Secret: "y"})
	assert.ErrorIs(t, err, session.ErrSessionLocked)
}

func TestVaultService_Store_NoSecret(t *testing.T) {
	f := newVaultFixture(t)

	_, err := f.svc.Store(context.Background(), NewEntry{Label: "x"})
	assert.ErrorIs(t, err, ErrValidation)
}

// ───────────── List ─────────────

func TestVaultService_List(t *testing.T) {
	f := newVaultFixture(t)
	filter := models.EntryFilter{Tag: "prod"}

	f.adapter.EXPECT().ListEntries(gomock.Any(), filter).Return(models.EntryList{Total: 4}, nil)

	page, err := f.svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.False(t, page.FromCache)
	assert.Equal(t, 4, page.Total)
}

func TestVaultService_List_FallsBackToCache(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	filter := models.EntryFilter{Tag: "prod"}

	f.adapter.EXPECT().ListEntries(gomock.Any(), filter).Return(models.EntryList{}, fmt.Errorf("%w: timeout", adapter.ErrTransport))
	f.cache.EXPECT().ListEntries(gomock.Any(), models.EntryFilter{UserID: ownerID, Tag: "prod"}).Return(models.EntryList{Total: 2}, nil)

	page, err := f.svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.True(t, page.FromCache)
	assert.Equal(t, 2, page.Total)
}

func TestVaultService_List_ServerErrorIsNotHidden(t *testing.T) {
	f := newVaultFixture(t)

	f.adapter.EXPECT().ListEntries(gomock.Any(), gomock.Any()).Return(models.EntryList{}, fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgTokenIsExpiredOrInvalid))

	_, err := f.svc.List(context.Background(), models.EntryFilter{})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// ───────────── Reveal / Copy ─────────────

func TestVaultService_Reveal(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	f.unlock(t)
	ctx := context.Background()

	f.adapter.EXPECT().GetEntry(ctx, entryID).Return(f.sealedEntry(t, "sk_live_abc"), nil)
	f.adapter.EXPECT().ReportAudit(ctx, models.AuditEvent{
		EntryID: entryID,
		Action:  models.AuditActionRetrieve,
		Success: true,
	}).Return(nil)

	revealed, err := f.svc.Reveal(ctx, entryID)
	require.NoError(t, err)
	assert.Equal(t, "sk_live_abc", revealed.Secret)
	assert.Equal(t, "key-id-123", revealed.Secondary)
	assert.Empty(t, revealed.Notes)

	remembered, ok := f.guard.Recall(entryID)
	require.True(t, ok)
	assert.Equal(t, "sk_live_abc", remembered)

	f.svc.Lock()
	_, ok = f.guard.Recall(entryID)
	assert.False(t, ok, "lock drops revealed plaintext")
}

func TestVaultService_Reveal_TamperedReportsFailure(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	f.unlock(t)

	entry := f.sealedEntry(t, "sk_live_abc")
	entry.Primary.Ciphertext = f.seal(t, "other").Ciphertext

	f.adapter.EXPECT().GetEntry(gomock.Any(), entryID).Return(entry, nil)
	f.adapter.EXPECT().ReportAudit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e models.AuditEvent) error {
			assert.False(t, e.Success)
			assert.NotEmpty(t, e.ErrorMessage)
			return nil
		},
	)

	_, err := f.svc.Reveal(context.Background(), entryID)
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
	_, ok := f.guard.Recall(entryID)
	assert.False(t, ok)
}

func TestVaultService_Reveal_ReportFailureIsNotFatal(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	f.unlock(t)

	f.adapter.EXPECT().GetEntry(gomock.Any(), entryID).Return(f.sealedEntry(t, "sk_live_abc"), nil)
	f.adapter.EXPECT().ReportAudit(gomock.Any(), gomock.Any()).Return(fmt.Errorf("%w: offline", adapter.ErrTransport))

	revealed, err := f.svc.Reveal(context.Background(), entryID)
	require.NoError(t, err)
	assert.Equal(t, "sk_live_abc", revealed.Secret)
}

func TestVaultService_Reveal_FromCacheWhenOffline(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	f.unlock(t)

	f.adapter.EXPECT().GetEntry(gomock.Any(), entryID).Return(models.VaultEntry{}, fmt.Errorf("%w: offline", adapter.ErrTransport))
	f.cache.EXPECT().GetEntry(gomock.Any(), ownerID, entryID).Return(f.sealedEntry(t, "cached"), nil)
	f.adapter.EXPECT().ReportAudit(gomock.Any(), gomock.Any()).Return(fmt.Errorf("%w: offline", adapter.ErrTransport))

	revealed, err := f.svc.Reveal(context.Background(), entryID)
	require.NoError(t, err)
	assert.Equal(t, "cached", revealed.Secret)
}

func TestVaultService_Reveal_Forbidden(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	f.unlock(t)

	f.adapter.EXPECT().GetEntry(gomock.Any(), entryID).Return(models.VaultEntry{}, fmt.Errorf("%w: %s", adapter.ErrForbidden, app.MsgAccessDenied))

	_, err := f.svc.Reveal(context.Background(), entryID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVaultService_Copy(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	f.unlock(t)
	ctx := context.Background()

	f.adapter.EXPECT().GetEntry(ctx, entryID).Return(f.sealedEntry(t, "sk_live_abc"), nil).Times(1)
	f.adapter.EXPECT().ReportAudit(ctx, gomock.Any()).Return(nil).Times(1)

	require.NoError(t, f.svc.Copy(ctx, entryID))
	assert.Equal(t, "sk_live_abc", f.clip.Content())

	require.NoError(t, f.svc.Copy(ctx, entryID), "second copy reuses the revealed plaintext")

	f.clock.Advance(clipboard.DefaultClearDelay)
	assert.Empty(t, f.clip.Content())
}

func TestVaultService_Close(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	f.unlock(t)

	f.adapter.EXPECT().GetEntry(gomock.Any(), entryID).Return(f.sealedEntry(t, "sk_live_abc"), nil)
	f.adapter.EXPECT().ReportAudit(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, f.svc.Copy(context.Background(), entryID))

	require.NoError(t, f.svc.Close())
	assert.Empty(t, f.clip.Content())
	assert.Equal(t, session.Locked, f.svc.Status().State)
}

// ───────────── Delete / Rotate ─────────────

func TestVaultService_Delete(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	ctx := context.Background()

	f.adapter.EXPECT().DeleteEntry(ctx, entryID).Return(nil)
	f.cache.EXPECT().DeleteEntry(ctx, ownerID, entryID).Return(nil)

	require.NoError(t, f.svc.Delete(ctx, entryID))
}

func TestVaultService_Delete_NotFound(t *testing.T) {
	f := newVaultFixture(t)

	f.adapter.EXPECT().DeleteEntry(gomock.Any(), entryID).Return(fmt.Errorf("%w: %s", adapter.ErrNotFound, app.MsgEntryNotFound))

	assert.ErrorIs(t, f.svc.Delete(context.Background(), entryID), ErrEntryNotFound)
}

func TestVaultService_Rotate(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	f.unlock(t)
	ctx := context.Background()

	old := f.sealedEntry(t, "sk_live_old")
	rotatedID := "0190f3a4-7b1c-7d2e-8f00-0000000000ff"

	f.adapter.EXPECT().GetEntry(ctx, entryID).Return(old, nil)
	f.adapter.EXPECT().RotateEntry(ctx, entryID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, r models.RotateRequest) (models.VaultEntry, error) {
			secret, err := f.enc.Decrypt(r.Primary, masterSecret)
			require.NoError(t, err)
			assert.Equal(t, "sk_live_new", secret)
			assert.Equal(t, old.Secondary, r.Secondary)

			rotatedFrom := entryID
			return models.VaultEntry{ID: rotatedID, Primary: r.Primary, Active: true, RotatedFromID: &rotatedFrom}, nil
		},
	)
	f.cache.EXPECT().DeleteEntry(ctx, ownerID, entryID).Return(nil)
	f.cache.EXPECT().PutEntry(ctx, gomock.Any()).Return(nil)

	rotated, err := f.svc.Rotate(ctx, entryID, "sk_live_new")
	require.NoError(t, err)
	assert.Equal(t, rotatedID, rotated.ID)
}

func TestVaultService_Rotate_Locked(t *testing.T) {
	f := newVaultFixture(t)

	_, err := f.svc.Rotate(context.Background(), entryID, "sk_live_new")
	assert.ErrorIs(t, err, session.ErrSessionLocked)
}

// ───────────── RefreshCache ─────────────

func TestVaultService_RefreshCache_Pages(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	ctx := context.Background()

	a, b, c := models.VaultEntry{ID: "a"}, models.VaultEntry{ID: "b"}, models.VaultEntry{ID: "c"}
	gomock.InOrder(
		f.adapter.EXPECT().ListEntries(ctx, models.EntryFilter{Limit: validators.MaxPageSize}).
			Return(models.EntryList{Entries: []models.VaultEntry{a, b}, Total: 3}, nil),
		f.adapter.EXPECT().ListEntries(ctx, models.EntryFilter{Limit: validators.MaxPageSize, Offset: 2}).
			Return(models.EntryList{Entries: []models.VaultEntry{c}, Total: 3}, nil),
		f.cache.EXPECT().ReplaceAll(ctx, ownerID, []models.VaultEntry{a, b, c}).Return(nil),
	)

	require.NoError(t, f.svc.RefreshCache(ctx))
}

func TestVaultService_RefreshCache_NotLoggedIn(t *testing.T) {
	f := newVaultFixture(t)
	f.adapter.EXPECT().UserID().Return(int64(0), adapter.ErrNoToken)

	assert.ErrorIs(t, f.svc.RefreshCache(context.Background()), ErrNotLoggedIn)
}

func TestVaultService_RefreshCache_CacheError(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()
	boom := errors.New("disk full")

	f.adapter.EXPECT().ListEntries(gomock.Any(), gomock.Any()).Return(models.EntryList{}, nil)
	f.cache.EXPECT().ReplaceAll(gomock.Any(), ownerID, nil).Return(boom)

	assert.ErrorIs(t, f.svc.RefreshCache(context.Background()), boom)
}

// ───────────── helpers ─────────────

func TestVaultService_ValidateAndGenerate(t *testing.T) {
	f := newVaultFixture(t)

	assert.True(t, f.svc.Validate(masterSecret).Valid)
	assert.False(t, f.svc.Validate("password").Valid)

	secret, err := f.svc.GenerateSecret(24)
	require.NoError(t, err)
	assert.Len(t, secret, 24)

	_, err = f.svc.GenerateSecret(4)
	assert.ErrorIs(t, err, crypto.ErrInvalidLength)
}

func TestVerifierSource_OfflineNotLoggedIn(t *testing.T) {
	f := newVaultFixture(t)

	f.adapter.EXPECT().Verifier(gomock.Any()).Return(models.EncryptedBundle{}, fmt.Errorf("%w: offline", adapter.ErrTransport))
	f.adapter.EXPECT().UserID().Return(int64(0), adapter.ErrNoToken)

	_, err := NewVerifierSource(f.adapter, f.cache).VerifierBundles(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestVerifierSource_CacheMissing(t *testing.T) {
	f := newVaultFixture(t)
	f.loggedIn()

	f.adapter.EXPECT().Verifier(gomock.Any()).Return(models.EncryptedBundle{}, fmt.Errorf("%w: offline", adapter.ErrTransport))
	f.cache.EXPECT().ListEntries(gomock.Any(), gomock.Any()).Return(models.EntryList{}, store.ErrScanningRows)

	_, err := NewVerifierSource(f.adapter, f.cache).VerifierBundles(context.Background())
	assert.ErrorIs(t, err, adapter.ErrTransport)
	assert.ErrorIs(t, err, store.ErrScanningRows)
}
