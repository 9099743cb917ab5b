// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/middleware"
	"github.com/danielhkuo/quickly-dine/session"
	"github.com/danielhkuo/quickly-dine/store"
)

// statusFor maps a session error kind to its HTTP status.
func statusFor(kind session.Kind) int {
	switch kind {
	case session.KindNotAuthenticated:
		return http.StatusUnauthorized
	case session.KindNotAParticipant, session.KindNotHost:
		return http.StatusForbidden
	case session.KindWrongPhase:
		return http.StatusConflict
	case session.KindNotFound:
		return http.StatusNotFound
	case session.KindInvalidInput, session.KindInsufficientParticipants:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err to the client. Session errors carry their own
// message; anything else is logged and reported as internalMsg.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error, internalMsg string) {
	var se *session.Error
	if errors.As(err, &se) {
		middleware.ErrorResponse(w, statusFor(se.Kind), se.Error())
		return
	}
	if errors.Is(err, store.ErrConflict) {
		middleware.ErrorResponse(w, http.StatusConflict, "Session is busy, please retry")
		return
	}

	logger.Error(internalMsg, zap.Error(err))
	middleware.ErrorResponse(w, http.StatusInternalServerError, internalMsg)
}
