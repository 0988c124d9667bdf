// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-key-vault/internal/app"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/service"
	"github.com/MKhiriev/go-key-vault/internal/store"
	"github.com/MKhiriev/go-key-vault/internal/utils"
)

type errorReply struct {
	status  int
	message string
}

var errorStatusMap = map[error]errorReply{
	service.ErrValidation:         {http.StatusBadRequest, app.MsgInvalidDataProvided},
	service.ErrWrongPassword:      {http.StatusUnauthorized, app.MsgInvalidLoginPassword},
	service.ErrInvalidToken:       {http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
	service.ErrUnauthorized:       {http.StatusForbidden, app.MsgAccessDenied},
	service.ErrEntryNotFound:      {http.StatusNotFound, app.MsgEntryNotFound},
	service.ErrLoginAlreadyExists: {http.StatusConflict, app.MsgLoginAlreadyExists},

	// a valid token whose account is gone
	store.ErrNoUserWasFound: {http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
	ErrNoUserIDInContext:    {http.StatusUnauthorized, app.MsgNoUserIDProvided},
}

// replyFromError picks the status and body for err. Unknown errors become a
// 500 carrying fallback.
func replyFromError(err error, fallback string) errorReply {
	for target, reply := range errorStatusMap {
		if errors.Is(err, target) {
			return reply
		}
	}
	return errorReply{http.StatusInternalServerError, fallback}
}

// writeServiceError logs err and writes the matching error reply. It returns
// the status written.
func writeServiceError(w http.ResponseWriter, r *http.Request, fn string, err error, fallback string) int {
	reply := replyFromError(err, fallback)

	log := logger.FromRequest(r)
	if reply.status >= http.StatusInternalServerError {
		log.Err(err).Str("func", fn).Msg("request failed")
	} else {
		log.Warn().Err(err).Str("func", fn).Int("status", reply.status).Msg("request rejected")
	}

	utils.WriteError(w, reply.message, reply.status)
	return reply.status
}
