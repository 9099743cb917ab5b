// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/lobby"
	"github.com/danielhkuo/quickly-dine/middleware"
	"github.com/danielhkuo/quickly-dine/models"
)

type SessionHandler struct {
	svc    *lobby.Service
	logger *zap.Logger
}

func NewSessionHandler(svc *lobby.Service, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, logger: logger}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	// The body is optional
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sess, err := h.svc.CreateSession(r.Context(), middleware.UserID(r.Context()), strings.TrimSpace(req.Name))
	if err != nil {
		writeError(w, h.logger, err, "Failed to create session")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: sess.ID,
		Code:      sess.Code,
	})
}

// JoinSession handles POST /sessions/join
func (h *SessionHandler) JoinSession(w http.ResponseWriter, r *http.Request) {
	var req models.JoinSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sess, err := h.svc.JoinSession(r.Context(), middleware.UserID(r.Context()), req.Code, req.DisplayName)
	if err != nil {
		writeError(w, h.logger, err, "Failed to join session")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.JoinSessionResponse{SessionID: sess.ID})
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.GetSession(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err, "Failed to load session")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.svc.View(sess))
}

// StartMatching handles POST /sessions/{id}/start-matching
// Host only, needs at least two participants
func (h *SessionHandler) StartMatching(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.StartMatching(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err, "Failed to start matching")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StartMatchingResponse{
		OK:    true,
		Phase: string(sess.Phase),
	})
}
