// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newMethodRouter() *chi.Mux {
	router := chi.NewRouter()
	router.Get("/items", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Post("/items", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusCreated) })
	router.Delete("/items/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	router.MethodNotAllowed(CheckHTTPMethod(router))
	return router
}

func TestCheckHTTPMethod_TableTest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"registered GET", http.MethodGet, "/items", http.StatusOK},
		{"registered POST", http.MethodPost, "/items", http.StatusCreated},
		{"registered DELETE with param", http.MethodDelete, "/items/7", http.StatusNoContent},
		{"PUT on static route", http.MethodPut, "/items", http.StatusNotFound},
		{"GET on param route", http.MethodGet, "/items/7", http.StatusNotFound},
	}

	router := newMethodRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCheckHTTPMethod_DelegatesRegisteredMethod(t *testing.T) {
	router := newMethodRouter()
	rec := httptest.NewRecorder()

	CheckHTTPMethod(router)(rec, httptest.NewRequest(http.MethodPost, "/items", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCheckHTTPMethod_WritesJSONBody(t *testing.T) {
	router := newMethodRouter()
	rec := httptest.NewRecorder()

	CheckHTTPMethod(router)(rec, httptest.NewRequest(http.MethodPatch, "/items", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}
