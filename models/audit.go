// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// AuditAction is the operation an audit record describes.
type AuditAction string

const (
	AuditActionStore    AuditAction = "store"
	AuditActionRetrieve AuditAction = "retrieve"
	AuditActionList     AuditAction = "list"
	AuditActionDelete   AuditAction = "delete"
)

// Valid reports whether a is a known action.
func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionStore, AuditActionRetrieve, AuditActionList, AuditActionDelete:
		return true
	}
	return false
}

// AuditRecord is one append-only entry of the audit trail.
// Records are inserted and read, never updated or deleted.
type AuditRecord struct {
	ID      string      `json:"id"`
	UserID  int64       `json:"user_id"`
	EntryID *string     `json:"entry_id,omitempty"`
	Action  AuditAction `json:"action"`
	Success bool        `json:"success"`

	Endpoint     string `json:"endpoint,omitempty"`
	Method       string `json:"method,omitempty"`
	IPAddress    string `json:"ip_address,omitempty"`
	UserAgent    string `json:"user_agent,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
	StatusCode   int    `json:"status_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table for audit records.
func (a AuditRecord) TableName() string {
	return "audit_records"
}

// AuditEvent is an event reported by the client, which is the only party able
// to tell whether a reveal (decryption) succeeded.
type AuditEvent struct {
	EntryID      string      `json:"entry_id"`
	Action       AuditAction `json:"action"`
	Success      bool        `json:"success"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

// AuditFilter narrows a listing of the caller's audit trail.
type AuditFilter struct {
	UserID  int64       `json:"-"`
	EntryID string      `json:"entry_id,omitempty"`
	Action  AuditAction `json:"action,omitempty"`
	From    *time.Time  `json:"from,omitempty"`
	To      *time.Time  `json:"to,omitempty"`
	Limit   uint64      `json:"limit,omitempty"`
	Offset  uint64      `json:"offset,omitempty"`
}

// AuditList is a page of audit records plus the total matching the filter.
type AuditList struct {
	Records []AuditRecord `json:"records"`
	Total   int           `json:"total"`
}
