// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/lobby"
	"github.com/danielhkuo/quickly-dine/middleware"
)

type RestaurantHandler struct {
	svc    *lobby.Service
	logger *zap.Logger
}

func NewRestaurantHandler(svc *lobby.Service, logger *zap.Logger) *RestaurantHandler {
	return &RestaurantHandler{svc: svc, logger: logger}
}

// GetRestaurant handles GET /restaurants/{id}
func (h *RestaurantHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.svc.Restaurant(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err, "Failed to load restaurant")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, restaurant)
}
