// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/models"
)

// parseEntryFilter reads classification, environment, tag, include_inactive,
// limit and offset. Range checks are left to the validator.
func parseEntryFilter(query url.Values) (models.EntryFilter, error) {
	filter := models.EntryFilter{
		Classification: models.Classification(query.Get("classification")),
		Environment:    query.Get("environment"),
		Tag:            query.Get("tag"),
	}

	if raw := query.Get("include_inactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return models.EntryFilter{}, fmt.Errorf("%w: include_inactive: %w", service.ErrValidation, err)
		}
		filter.IncludeInactive = includeInactive
	}

	var err error
	if filter.Limit, filter.Offset, err = parsePaging(query); err != nil {
		return models.EntryFilter{}, err
	}
	return filter, nil
}

// parseAuditFilter reads entry_id, action, from, to, limit and offset. Times
// are RFC 3339.
func parseAuditFilter(query url.Values) (models.AuditFilter, error) {
	filter := models.AuditFilter{
		EntryID: query.Get("entry_id"),
		Action:  models.AuditAction(query.Get("action")),
	}

	var err error
	if filter.From, err = parseTime(query, "from"); err != nil {
		return models.AuditFilter{}, err
	}
	if filter.To, err = parseTime(query, "to"); err != nil {
		return models.AuditFilter{}, err
	}
	if filter.Limit, filter.Offset, err = parsePaging(query); err != nil {
		return models.AuditFilter{}, err
	}
	return filter, nil
}

func parsePaging(query url.Values) (limit, offset uint64, err error) {
	if raw := query.Get("limit"); raw != "" {
		if limit, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return 0, 0, fmt.Errorf("%w: limit: %w", service.ErrValidation, err)
		}
	}
	if raw := query.Get("offset"); raw != "" {
		if offset, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return 0, 0, fmt.Errorf("%w: offset: %w", service.ErrValidation, err)
		}
	}
	return limit, offset, nil
}

func parseTime(query url.Values, key string) (*time.Time, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", service.ErrValidation, key, err)
	}
	return &t, nil
}
