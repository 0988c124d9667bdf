// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/mock"
	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/MKhiriev/go-key-vault/models"
)

const (
	testUserID  int64 = 10
	testToken         = "good-token"
	testEntryID       = "0190f3a4-7b1c-7d2e-8f00-1234567890ab"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

type handlerFixture struct {
	h       *Handler
	router  http.Handler
	auth    *mock.MockAuthService
	entries *mock.MockEntryService
	audit   *mock.MockAuditService

	mu      sync.Mutex
	records []models.AuditRecord
}

func newHandlerFixture(t *testing.T, opts ...Option) *handlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &handlerFixture{
		auth:    mock.NewMockAuthService(ctrl),
		entries: mock.NewMockEntryService(ctrl),
		audit:   mock.NewMockAuditService(ctrl),
	}
	f.h = NewHandler(&service.Services{
		AuthService:  f.auth,
		EntryService: f.entries,
		AuditService: f.audit,
	}, logger.Nop(), opts...)
	f.router = f.h.Init()

	f.auth.EXPECT().ParseToken(gomock.Any(), testToken).Return(models.Token{UserID: testUserID}, nil).AnyTimes()
	return f
}

// captureAudit makes every Record call succeed and keeps the records.
func (f *handlerFixture) captureAudit() {
	f.audit.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, record models.AuditRecord) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.records = append(f.records, record)
			return nil
		},
	).AnyTimes()
}

func (f *handlerFixture) audited() []models.AuditRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.AuditRecord(nil), f.records...)
}

// serve sends an authenticated request through the full router.
func (f *handlerFixture) serve(method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// encodeBody serialises v to JSON and returns it as an io.Reader.
func encodeBody(t *testing.T, v any) io.Reader {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buf).Encode(v))
	return buf
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}

func testBundle() models.EncryptedBundle {
	return models.EncryptedBundle{
		Ciphertext: "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=",
		Nonce:      "AAAAAAAAAAAAAAAA",
		Salt:       "AAAAAAAAAAAAAAAAAAAAAA==",
	}
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svc, log)

	require.NotNil(t, h)
	assert.Equal(t, svc, h.services)
	assert.Equal(t, log, h.logger)
}

func TestNewHandler_AuthRateLimitOption(t *testing.T) {
	h := NewHandler(&service.Services{}, logger.Nop(), WithAuthRateLimit(5, time.Minute))
	assert.Equal(t, 5, h.authRateLimit)
	assert.Equal(t, time.Minute, h.authRateWindow)

	h = NewHandler(&service.Services{}, logger.Nop(), WithAuthRateLimit(0, time.Minute))
	assert.Zero(t, h.authRateLimit, "non-positive limit leaves routes unthrottled")
}

func TestNewHandler_IndependentInstances(t *testing.T) {
	h1 := NewHandler(&service.Services{}, logger.Nop())
	h2 := NewHandler(&service.Services{}, logger.Nop())

	assert.NotSame(t, h1, h2)
}
