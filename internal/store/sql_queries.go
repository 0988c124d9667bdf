// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-key-vault/models"
)

const (
	createUser = `INSERT INTO users (login, password_hash, verifier_ciphertext, verifier_nonce, verifier_salt)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING user_id, created_at;`

	findUserByLogin = `SELECT user_id, login, password_hash, verifier_ciphertext, verifier_nonce, verifier_salt, created_at
    FROM users
    WHERE login = $1;`

	findUserByID = `SELECT user_id, login, password_hash, verifier_ciphertext, verifier_nonce, verifier_salt, created_at
    FROM users
    WHERE user_id = $1;`

	deactivateEntry = `UPDATE vault_entries
    SET active = FALSE, updated_at = NOW()
    WHERE id = $1 AND user_id = $2 AND active;`

	touchEntry = `UPDATE vault_entries
    SET last_accessed_at = $3, access_count = access_count + 1
    WHERE id = $1 AND user_id = $2 AND active;`

	deactivateExpiredEntries = `UPDATE vault_entries
    SET active = FALSE, updated_at = NOW()
    WHERE active AND expires_at IS NOT NULL AND expires_at <= $1;`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var entryColumns = []string{
	"id", "user_id", "label", "description", "classification", "tags", "environment",
	"primary_ciphertext", "primary_nonce", "primary_salt",
	"secondary_ciphertext", "secondary_nonce", "secondary_salt",
	"metadata_ciphertext", "metadata_nonce", "metadata_salt",
	"active", "rotated_from_id", "expires_at", "last_accessed_at", "access_count",
	"created_at", "updated_at",
}

var auditColumns = []string{
	"id", "user_id", "entry_id", "action", "success",
	"endpoint", "method", "ip_address", "user_agent", "request_id", "status_code", "error_message",
	"created_at",
}

// buildInsertEntryQuery inserts every column except the usage statistics and
// timestamps, which take their defaults.
func buildInsertEntryQuery(entry models.VaultEntry) (string, []any, error) {
	tags, err := encodeTags(entry.Tags)
	if err != nil {
		return "", nil, err
	}

	secondary := bundleArgs(entry.Secondary)
	metadata := bundleArgs(entry.Metadata)

	query, args, err := psql.
		Insert(models.VaultEntry{}.TableName()).
		Columns(
			"id", "user_id", "label", "description", "classification", "tags", "environment",
			"primary_ciphertext", "primary_nonce", "primary_salt",
			"secondary_ciphertext", "secondary_nonce", "secondary_salt",
			"metadata_ciphertext", "metadata_nonce", "metadata_salt",
			"active", "rotated_from_id", "expires_at",
		).
		Values(
			entry.ID, entry.UserID, entry.Label, entry.Description, string(entry.Classification), tags, entry.Environment,
			entry.Primary.Ciphertext, entry.Primary.Nonce, entry.Primary.Salt,
			secondary[0], secondary[1], secondary[2],
			metadata[0], metadata[1], metadata[2],
			true, entry.RotatedFromID, entry.ExpiresAt,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildGetEntryQuery(id string) (string, []any, error) {
	query, args, err := psql.
		Select(entryColumns...).
		From(models.VaultEntry{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func entryFilterConditions(filter models.EntryFilter) sq.And {
	conditions := sq.And{sq.Eq{"user_id": filter.UserID}}
	if !filter.IncludeInactive {
		conditions = append(conditions, sq.Eq{"active": true})
	}
	if filter.Classification != "" {
		conditions = append(conditions, sq.Eq{"classification": string(filter.Classification)})
	}
	if filter.Environment != "" {
		conditions = append(conditions, sq.Eq{"environment": filter.Environment})
	}
	if filter.Tag != "" {
		conditions = append(conditions, sq.Expr("jsonb_exists(tags::jsonb, ?)", filter.Tag))
	}
	return conditions
}

// buildListEntriesQuery selects one page of the caller's entries, newest first.
func buildListEntriesQuery(filter models.EntryFilter) (string, []any, error) {
	builder := psql.
		Select(entryColumns...).
		From(models.VaultEntry{}.TableName()).
		Where(entryFilterConditions(filter)).
		OrderBy("created_at DESC", "id")
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

// buildCountEntriesQuery counts every entry the filter matches, ignoring paging.
func buildCountEntriesQuery(filter models.EntryFilter) (string, []any, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From(models.VaultEntry{}.TableName()).
		Where(entryFilterConditions(filter)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertAuditQuery(record models.AuditRecord) (string, []any, error) {
	query, args, err := psql.
		Insert(models.AuditRecord{}.TableName()).
		Columns(auditColumns...).
		Values(
			record.ID, record.UserID, record.EntryID, string(record.Action), record.Success,
			record.Endpoint, record.Method, record.IPAddress, record.UserAgent, record.RequestID,
			record.StatusCode, record.ErrorMessage,
			record.CreatedAt,
		).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func auditFilterConditions(filter models.AuditFilter) sq.And {
	conditions := sq.And{sq.Eq{"user_id": filter.UserID}}
	if filter.EntryID != "" {
		conditions = append(conditions, sq.Eq{"entry_id": filter.EntryID})
	}
	if filter.Action != "" {
		conditions = append(conditions, sq.Eq{"action": string(filter.Action)})
	}
	if filter.From != nil {
		conditions = append(conditions, sq.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		conditions = append(conditions, sq.LtOrEq{"created_at": *filter.To})
	}
	return conditions
}

func buildListAuditQuery(filter models.AuditFilter) (string, []any, error) {
	builder := psql.
		Select(auditColumns...).
		From(models.AuditRecord{}.TableName()).
		Where(auditFilterConditions(filter)).
		OrderBy("created_at DESC", "id")
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

func buildCountAuditQuery(filter models.AuditFilter) (string, []any, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From(models.AuditRecord{}.TableName()).
		Where(auditFilterConditions(filter)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// encodeTags stores tags as a JSON array so both dialects can filter on them.
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("%w: tags: %w", ErrEncodingColumn, err)
	}
	return string(raw), nil
}

func decodeTags(raw string) ([]string, error) {
	tags := []string{}
	if raw == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("%w: tags: %w", ErrEncodingColumn, err)
	}
	return tags, nil
}

// bundleArgs flattens an optional bundle into three nullable column values.
func bundleArgs(b *models.EncryptedBundle) [3]any {
	if b == nil {
		return [3]any{nil, nil, nil}
	}
	return [3]any{b.Ciphertext, b.Nonce, b.Salt}
}
