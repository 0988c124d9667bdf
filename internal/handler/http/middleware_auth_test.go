// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-key-vault/internal/app"
	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/MKhiriev/go-key-vault/models"
)

func TestAuth_Middleware_TableTest(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		wantStatus     int
		wantNextCalled bool
	}{
		{"valid token", "Bearer " + testToken, http.StatusOK, true},
		{"lowercase scheme", "bearer " + testToken, http.StatusOK, true},
		{"no header", "", http.StatusUnauthorized, false},
		{"no token", "Bearer", http.StatusUnauthorized, false},
		{"wrong scheme", "Basic " + testToken, http.StatusUnauthorized, false},
		{"expired token", "Bearer expired", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			f.auth.EXPECT().ParseToken(gomock.Any(), "expired").Return(models.Token{}, service.ErrInvalidToken).AnyTimes()

			nextCalled := false
			var gotUserID int64
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = utils.GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			f.h.auth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			if tt.wantNextCalled {
				assert.Equal(t, testUserID, gotUserID)
			} else {
				assert.Equal(t, app.MsgTokenIsExpiredOrInvalid, errorBody(t, rec))
			}
		})
	}
}

func TestAuth_OriginalRequestNotMutated(t *testing.T) {
	f := newHandlerFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)

	f.h.auth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(httptest.NewRecorder(), req)

	_, ok := utils.GetUserIDFromContext(req.Context())
	assert.False(t, ok)
}
