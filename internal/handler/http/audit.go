// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net"
	"net/http"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-key-vault/internal/app"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/MKhiriev/go-key-vault/models"
)

// reportAudit accepts a client-side reveal report. The event is checked
// against the caller's entries before it is recorded.
func (h *Handler) reportAudit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUserID(w, r, "Handler.reportAudit")
	if !ok {
		return
	}

	var event models.AuditEvent
	if err := utils.DecodeJSON(r, &event); err != nil {
		writeServiceError(w, r, "Handler.reportAudit", wrapValidation(err), app.MsgInternalServerError)
		return
	}

	if err := h.services.AuditService.ReportEvent(r.Context(), userID, event); err != nil {
		writeServiceError(w, r, "Handler.reportAudit", err, app.MsgInternalServerError)
		return
	}

	entryID := event.EntryID
	h.recordAudit(r, models.AuditRecord{
		EntryID:      &entryID,
		Action:       event.Action,
		Success:      event.Success,
		StatusCode:   http.StatusNoContent,
		ErrorMessage: event.ErrorMessage,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUserID(w, r, "Handler.listAudit")
	if !ok {
		return
	}

	filter, err := parseAuditFilter(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, "Handler.listAudit", err, app.MsgInternalServerError)
		return
	}
	filter.UserID = userID

	list, err := h.services.AuditService.ListRecords(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, "Handler.listAudit", err, app.MsgInternalServerError)
		return
	}
	if list.Records == nil {
		list.Records = []models.AuditRecord{}
	}

	_, _ = utils.WriteJSON(w, list, http.StatusOK)
}

// outcome describes the result of one audited operation. entry_id is a UUID
// column, so an id that does not parse is kept in the error message instead.
func outcome(action models.AuditAction, entryID string, status int, err error) models.AuditRecord {
	record := models.AuditRecord{
		Action:     action,
		Success:    err == nil,
		StatusCode: status,
	}
	if err != nil {
		record.ErrorMessage = err.Error()
	}
	if entryID == "" {
		return record
	}
	if parsed, parseErr := uuid.Parse(entryID); parseErr == nil {
		id := parsed.String()
		record.EntryID = &id
		return record
	}
	malformed := fmt.Sprintf("malformed entry id %q", entryID)
	if record.ErrorMessage == "" {
		record.ErrorMessage = malformed
	} else {
		record.ErrorMessage = malformed + ": " + record.ErrorMessage
	}
	return record
}

// recordAudit fills in who made the request and from where, then appends the
// record. A failed append is logged and the request carries on.
func (h *Handler) recordAudit(r *http.Request, record models.AuditRecord) {
	ctx := r.Context()

	record.UserID, _ = utils.GetUserIDFromContext(ctx)
	record.Endpoint = r.URL.Path
	record.Method = r.Method
	record.IPAddress = clientIP(r)
	record.UserAgent = r.UserAgent()
	record.RequestID = utils.GetTraceIDFromContext(ctx)

	if err := h.services.AuditService.Record(ctx, record); err != nil {
		logger.FromRequest(r).Err(err).
			Str("func", "Handler.recordAudit").
			Str("action", string(record.Action)).
			Msg("audit record was not written")
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
