// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-key-vault/internal/app"
	"github.com/MKhiriev/go-key-vault/internal/logger"
	"github.com/MKhiriev/go-key-vault/internal/utils"
	"github.com/MKhiriev/go-key-vault/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var user models.User
	if err := utils.DecodeJSON(r, &user); err != nil {
		log.Err(err).Str("func", "Handler.register").Msg("invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, user)
	if err != nil {
		writeServiceError(w, r, "Handler.register", err, app.MsgRegistrationFailed)
		return
	}

	h.writeAuthenticated(w, r, "Handler.register", registeredUser, app.MsgRegistrationFailed)
}

// login answers with the token in the Authorization header and the user's
// verifier in the body.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var user models.User
	if err := utils.DecodeJSON(r, &user); err != nil {
		log.Err(err).Str("func", "Handler.login").Msg("invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, user)
	if err != nil {
		writeServiceError(w, r, "Handler.login", err, app.MsgLoginFailed)
		return
	}

	log.Debug().Int64("id", foundUser.UserID).Msg("user successfully logged in")
	h.writeAuthenticated(w, r, "Handler.login", foundUser, app.MsgLoginFailed)
}

func (h *Handler) verifier(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeServiceError(w, r, "Handler.verifier", ErrNoUserIDInContext, app.MsgInternalServerError)
		return
	}

	verifier, err := h.services.AuthService.Verifier(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "Handler.verifier", err, app.MsgInternalServerError)
		return
	}

	_, _ = utils.WriteJSON(w, models.User{Verifier: verifier}, http.StatusOK)
}

func (h *Handler) writeAuthenticated(w http.ResponseWriter, r *http.Request, fn string, user models.User, fallback string) {
	token, err := h.services.AuthService.CreateToken(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, fn, err, fallback)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token.SignedString)
	_, _ = utils.WriteJSON(w, models.User{Login: user.Login, Verifier: user.Verifier, CreatedAt: user.CreatedAt}, http.StatusOK)
}
