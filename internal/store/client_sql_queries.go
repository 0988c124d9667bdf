// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-key-vault/models"
)

const cacheTable = "entries_cache"

const (
	clearCache = `DELETE FROM entries_cache WHERE user_id = ?;`

	upsertCacheEntry = `INSERT INTO entries_cache (id, user_id, label, classification, environment, active, payload, synced_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT (user_id, id) DO UPDATE SET
        label = excluded.label,
        classification = excluded.classification,
        environment = excluded.environment,
        active = excluded.active,
        payload = excluded.payload,
        synced_at = excluded.synced_at;`

	getCacheEntry = `SELECT payload FROM entries_cache WHERE user_id = ? AND id = ?;`

	deleteCacheEntry = `DELETE FROM entries_cache WHERE user_id = ? AND id = ?;`
)

func cacheFilterConditions(filter models.EntryFilter) sq.And {
	conditions := sq.And{sq.Eq{"user_id": filter.UserID}}
	if !filter.IncludeInactive {
		conditions = append(conditions, sq.Eq{"active": 1})
	}
	if filter.Classification != "" {
		conditions = append(conditions, sq.Eq{"classification": string(filter.Classification)})
	}
	if filter.Environment != "" {
		conditions = append(conditions, sq.Eq{"environment": filter.Environment})
	}
	if filter.Tag != "" {
		conditions = append(conditions,
			sq.Expr("EXISTS (SELECT 1 FROM json_each(payload, '$.tags') WHERE json_each.value = ?)", filter.Tag))
	}
	return conditions
}

// buildListCacheQuery uses "?" placeholders; sqlite does not understand "$n".
func buildListCacheQuery(filter models.EntryFilter) (string, []any, error) {
	builder := sq.
		Select("payload").
		From(cacheTable).
		Where(cacheFilterConditions(filter)).
		OrderBy("label", "id")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildCountCacheQuery(filter models.EntryFilter) (string, []any, error) {
	query, args, err := sq.
		Select("COUNT(*)").
		From(cacheTable).
		Where(cacheFilterConditions(filter)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
