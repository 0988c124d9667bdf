// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-key-vault/internal/config"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/MKhiriev/go-key-vault/models"
)

type httpServerAdapter struct {
	client *resty.Client

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter builds a REST [ServerAdapter] for cfg.HTTPAddress.
// A missing scheme defaults to http.
func NewHTTPServerAdapter(cfg config.Adapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) UserID() (int64, error) {
	token := h.Token()
	if token == "" {
		return 0, ErrNoToken
	}
	return utils.ParseUnverifiedUserID(token)
}

// Register posts to /api/user/register and keeps the token from the
// Authorization response header.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.User, error) {
	return h.authenticate(ctx, "/api/user/register", user)
}

// Login posts to /api/user/login. The response body carries the verifier.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.User, error) {
	return h.authenticate(ctx, "/api/user/login", user)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, path string, user models.User) (models.User, error) {
	var result models.User

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		SetResult(&result).
		Post(path)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %s: %w", ErrTransport, path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.User{}, fmt.Errorf("%s parse bearer token: %w", path, err)
	}
	userID, err := utils.ParseUnverifiedUserID(token)
	if err != nil {
		return models.User{}, fmt.Errorf("%s parse user id: %w", path, err)
	}

	h.SetToken(token)
	result.UserID = userID
	if result.Login == "" {
		result.Login = user.Login
	}
	return result, nil
}

func (h *httpServerAdapter) Verifier(ctx context.Context) (models.EncryptedBundle, error) {
	var user models.User
	if err := h.do(h.authedRequest(ctx).SetResult(&user), resty.MethodGet, "/api/user/verifier"); err != nil {
		return models.EncryptedBundle{}, err
	}
	return user.Verifier, nil
}

func (h *httpServerAdapter) CreateEntry(ctx context.Context, entry models.VaultEntry) (models.VaultEntry, error) {
	var created models.VaultEntry
	req := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(entry).
		SetResult(&created)
	if err := h.do(req, resty.MethodPost, "/api/entries"); err != nil {
		return models.VaultEntry{}, err
	}
	return created, nil
}

func (h *httpServerAdapter) ListEntries(ctx context.Context, filter models.EntryFilter) (models.EntryList, error) {
	var list models.EntryList
	req := h.authedRequest(ctx).
		SetQueryParamsFromValues(entryFilterValues(filter)).
		SetResult(&list)
	if err := h.do(req, resty.MethodGet, "/api/entries"); err != nil {
		return models.EntryList{}, err
	}
	return list, nil
}

func (h *httpServerAdapter) GetEntry(ctx context.Context, id string) (models.VaultEntry, error) {
	var entry models.VaultEntry
	req := h.authedRequest(ctx).
		SetPathParam("id", id).
		SetResult(&entry)
	if err := h.do(req, resty.MethodGet, "/api/entries/{id}"); err != nil {
		return models.VaultEntry{}, err
	}
	return entry, nil
}

func (h *httpServerAdapter) DeleteEntry(ctx context.Context, id string) error {
	return h.do(h.authedRequest(ctx).SetPathParam("id", id), resty.MethodDelete, "/api/entries/{id}")
}

func (h *httpServerAdapter) RotateEntry(ctx context.Context, id string, rotate models.RotateRequest) (models.VaultEntry, error) {
	var entry models.VaultEntry
	req := h.authedRequest(ctx).
		SetPathParam("id", id).
		SetHeader("Content-Type", "application/json").
		SetBody(rotate).
		SetResult(&entry)
	if err := h.do(req, resty.MethodPost, "/api/entries/{id}/rotate"); err != nil {
		return models.VaultEntry{}, err
	}
	return entry, nil
}

func (h *httpServerAdapter) ReportAudit(ctx context.Context, event models.AuditEvent) error {
	req := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event)
	return h.do(req, resty.MethodPost, "/api/audit")
}

func (h *httpServerAdapter) ListAudit(ctx context.Context, filter models.AuditFilter) (models.AuditList, error) {
	var list models.AuditList
	req := h.authedRequest(ctx).
		SetQueryParamsFromValues(auditFilterValues(filter)).
		SetResult(&list)
	if err := h.do(req, resty.MethodGet, "/api/audit"); err != nil {
		return models.AuditList{}, err
	}
	return list, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// do executes req and maps both transport and status failures.
func (h *httpServerAdapter) do(req *resty.Request, method, path string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		h.logger.Warn().Err(err).Str("func", "httpServerAdapter.do").Str("path", path).Msg("request failed")
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	return mapHTTPError(resp)
}
