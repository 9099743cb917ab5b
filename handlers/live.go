// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/live"
	"github.com/danielhkuo/quickly-dine/lobby"
	"github.com/danielhkuo/quickly-dine/middleware"
	"github.com/danielhkuo/quickly-dine/models"
)

type LiveHandler struct {
	svc     *lobby.Service
	hub     *live.Hub
	origins []string
	logger  *zap.Logger
}

func NewLiveHandler(svc *lobby.Service, hub *live.Hub, origins []string, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{svc: svc, hub: hub, origins: origins, logger: logger}
}

// Stream handles GET /sessions/{id}/live
// Upgrades to a websocket that receives a snapshot after every change
func (h *LiveHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	callerID := middleware.UserID(r.Context())

	// Membership is checked before the upgrade so refusals stay plain HTTP
	if _, err := h.svc.Snapshot(r.Context(), callerID, sessionID); err != nil {
		writeError(w, h.logger, err, "Failed to load session")
		return
	}

	load := func(ctx context.Context) (models.Snapshot, error) {
		return h.svc.Snapshot(ctx, callerID, sessionID)
	}
	live.Serve(w, r, h.hub, sessionID, load, live.Options{
		OriginPatterns: h.origins,
		Logger:         h.logger,
	})
}
