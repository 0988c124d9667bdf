// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-key-vault/internal/app"
	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/MKhiriev/go-key-vault/models"
)

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUserID(w, r, "Handler.createEntry")
	if !ok {
		return
	}

	var entry models.VaultEntry
	if err := utils.DecodeJSON(r, &entry); err != nil {
		status := writeServiceError(w, r, "Handler.createEntry", wrapValidation(err), app.MsgInternalServerError)
		h.recordAudit(r, outcome(models.AuditActionStore, "", status, err))
		return
	}
	entry.UserID = userID

	saved, err := h.services.EntryService.StoreEntry(r.Context(), entry)
	if err != nil {
		status := writeServiceError(w, r, "Handler.createEntry", err, app.MsgInternalServerError)
		h.recordAudit(r, outcome(models.AuditActionStore, "", status, err))
		return
	}

	h.recordAudit(r, outcome(models.AuditActionStore, saved.ID, http.StatusCreated, nil))
	_, _ = utils.WriteJSON(w, saved, http.StatusCreated)
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUserID(w, r, "Handler.listEntries")
	if !ok {
		return
	}

	filter, err := parseEntryFilter(r.URL.Query())
	if err != nil {
		status := writeServiceError(w, r, "Handler.listEntries", err, app.MsgInternalServerError)
		h.recordAudit(r, outcome(models.AuditActionList, "", status, err))
		return
	}
	filter.UserID = userID

	list, err := h.services.EntryService.ListEntries(r.Context(), filter)
	if err != nil {
		status := writeServiceError(w, r, "Handler.listEntries", err, app.MsgInternalServerError)
		h.recordAudit(r, outcome(models.AuditActionList, "", status, err))
		return
	}
	if list.Entries == nil {
		list.Entries = []models.VaultEntry{}
	}

	h.recordAudit(r, outcome(models.AuditActionList, "", http.StatusOK, nil))
	_, _ = utils.WriteJSON(w, list, http.StatusOK)
}

// getEntry hands out the bundles. Only failures are audited here; the client
// reports the reveal itself once it has decrypted the entry.
func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUserID(w, r, "Handler.getEntry")
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	entry, err := h.services.EntryService.GetEntry(r.Context(), userID, id)
	if err != nil {
		status := writeServiceError(w, r, "Handler.getEntry", err, app.MsgInternalServerError)
		h.recordAudit(r, outcome(models.AuditActionRetrieve, id, status, err))
		return
	}

	_, _ = utils.WriteJSON(w, entry, http.StatusOK)
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUserID(w, r, "Handler.deleteEntry")
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.services.EntryService.DeleteEntry(r.Context(), userID, id); err != nil {
		status := writeServiceError(w, r, "Handler.deleteEntry", err, app.MsgInternalServerError)
		h.recordAudit(r, outcome(models.AuditActionDelete, id, status, err))
		return
	}

	h.recordAudit(r, outcome(models.AuditActionDelete, id, http.StatusNoContent, nil))
	w.WriteHeader(http.StatusNoContent)
}

// rotateEntry audits the rotation as a store of the replacement and a delete
// of the old entry.
func (h *Handler) rotateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUserID(w, r, "Handler.rotateEntry")
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var request models.RotateRequest
	if err := utils.DecodeJSON(r, &request); err != nil {
		status := writeServiceError(w, r, "Handler.rotateEntry", wrapValidation(err), app.MsgInternalServerError)
		h.recordAudit(r, outcome(models.AuditActionStore, id, status, err))
		return
	}

	rotated, err := h.services.EntryService.RotateEntry(r.Context(), userID, id, request)
	if err != nil {
		status := writeServiceError(w, r, "Handler.rotateEntry", err, app.MsgInternalServerError)
		h.recordAudit(r, outcome(models.AuditActionStore, id, status, err))
		return
	}

	h.recordAudit(r, outcome(models.AuditActionStore, rotated.ID, http.StatusCreated, nil))
	h.recordAudit(r, outcome(models.AuditActionDelete, id, http.StatusCreated, nil))
	_, _ = utils.WriteJSON(w, rotated, http.StatusCreated)
}

func (h *Handler) requestUserID(w http.ResponseWriter, r *http.Request, fn string) (int64, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeServiceError(w, r, fn, ErrNoUserIDInContext, app.MsgInternalServerError)
	}
	return userID, ok
}

func wrapValidation(err error) error {
	return fmt.Errorf("%w: %w", service.ErrValidation, err)
}
