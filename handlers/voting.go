// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/lobby"
	"github.com/danielhkuo/quickly-dine/middleware"
	"github.com/danielhkuo/quickly-dine/models"
)

type VotingHandler struct {
	svc    *lobby.Service
	logger *zap.Logger
}

func NewVotingHandler(svc *lobby.Service, logger *zap.Logger) *VotingHandler {
	return &VotingHandler{svc: svc, logger: logger}
}

// Candidates handles GET /sessions/{id}/candidates
// Returns restaurants the caller has not swiped yet, filtered by the group's preferences
func (h *VotingHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Candidates(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err, "Failed to load candidates")
		return
	}

	restaurants := page.Restaurants
	if restaurants == nil {
		restaurants = []models.Restaurant{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.CandidatesResponse{
		Restaurants: restaurants,
		Fallback:    page.Fallback,
	})
}

// Swipe handles POST /sessions/{id}/swipes
func (h *VotingHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	var req models.SwipeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	out, err := h.svc.Swipe(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), req.RestaurantID, req.Direction)
	if err != nil {
		writeError(w, h.logger, err, "Failed to record swipe")
		return
	}

	ids := out.ConsensusRestaurantIDs
	if ids == nil {
		ids = []string{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.SwipeResponse{
		ConsensusReached:       out.ConsensusReached,
		ConsensusRestaurantIDs: ids,
	})
}

// Vote handles POST /sessions/{id}/votes
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	out, err := h.svc.Vote(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"), req.RestaurantID, req.Vote)
	if err != nil {
		writeError(w, h.logger, err, "Failed to record vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		OK:    true,
		Phase: string(out.Phase),
	})
}
