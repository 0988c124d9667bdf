// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"net/url"
	"strconv"
	"time"

	"github.com/MKhiriev/go-key-vault/models"
)

func entryFilterValues(filter models.EntryFilter) url.Values {
	values := url.Values{}
	if filter.Classification != "" {
		values.Set("classification", string(filter.Classification))
	}
	if filter.Environment != "" {
		values.Set("environment", filter.Environment)
	}
	if filter.Tag != "" {
		values.Set("tag", filter.Tag)
	}
	if filter.IncludeInactive {
		values.Set("include_inactive", "true")
	}
	setPaging(values, filter.Limit, filter.Offset)
	return values
}

func auditFilterValues(filter models.AuditFilter) url.Values {
	values := url.Values{}
	if filter.EntryID != "" {
		values.Set("entry_id", filter.EntryID)
	}
	if filter.Action != "" {
		values.Set("action", string(filter.Action))
	}
	if filter.From != nil {
		values.Set("from", filter.From.UTC().Format(time.RFC3339))
	}
	if filter.To != nil {
		values.Set("to", filter.To.UTC().Format(time.RFC3339))
	}
	setPaging(values, filter.Limit, filter.Offset)
	return values
}

func setPaging(values url.Values, limit, offset uint64) {
	if limit > 0 {
		values.Set("limit", strconv.FormatUint(limit, 10))
	}
	if offset > 0 {
		values.Set("offset", strconv.FormatUint(offset, 10))
	}
}
