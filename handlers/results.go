// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/lobby"
	"github.com/danielhkuo/quickly-dine/middleware"
)

type ResultsHandler struct {
	svc    *lobby.Service
	logger *zap.Logger
}

func NewResultsHandler(svc *lobby.Service, logger *zap.Logger) *ResultsHandler {
	return &ResultsHandler{svc: svc, logger: logger}
}

// VoteStatus handles GET /sessions/{id}/votes
// Per-restaurant counts and the caller's own votes, only while voting
func (h *ResultsHandler) VoteStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.VoteStatus(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err, "Failed to load vote status")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Results handles GET /sessions/{id}/results
// Ranked tally with the winner once everyone has voted
func (h *ResultsHandler) Results(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Results(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err, "Failed to load results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
