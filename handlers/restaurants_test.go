// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/models"
	"github.com/danielhkuo/quickly-dine/session"
	"github.com/danielhkuo/quickly-dine/store"
	"github.com/danielhkuo/quickly-dine/testutil"
)

func TestGetRestaurant(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"seeded restaurant", env.seed[2].ID, http.StatusOK},
		{"unknown restaurant", "no-such-restaurant", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/restaurants/"+tt.id, nil, nil)
			req.SetPathValue("id", tt.id)
			w := serve(env.restaurantHandler.GetRestaurant, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if w.Code == http.StatusOK {
				r := decode[models.Restaurant](t, w)
				assert.Equal(t, env.seed[2].Name, r.Name)
				assert.Equal(t, env.seed[2].DietaryOptions, r.DietaryOptions)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{"not authenticated", session.NewError(session.KindNotAuthenticated, "Authentication required"), http.StatusUnauthorized, "Authentication required"},
		{"not a participant", session.NewError(session.KindNotAParticipant, "join first"), http.StatusForbidden, "join first"},
		{"not host", session.NewError(session.KindNotHost, "host only"), http.StatusForbidden, "host only"},
		{"wrong phase", session.NewError(session.KindWrongPhase, "too late"), http.StatusConflict, "too late"},
		{"not found", session.WrapError(session.KindNotFound, "Session not found", store.ErrNotFound), http.StatusNotFound, "Session not found"},
		{"invalid input", session.NewError(session.KindInvalidInput, "bad"), http.StatusBadRequest, "bad"},
		{"insufficient participants", session.NewError(session.KindInsufficientParticipants, "need 2"), http.StatusBadRequest, "need 2"},
		{"version conflict", store.ErrConflict, http.StatusConflict, "Session is busy, please retry"},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "Failed to do it"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, zap.NewNop(), tt.err, "Failed to do it")

			testutil.AssertStatus(t, w, tt.expectedStatus)
			resp := decode[models.ErrorResponse](t, w)
			assert.Equal(t, tt.expectedMsg, resp.Message)
			assert.Equal(t, http.StatusText(tt.expectedStatus), resp.Error)
		})
	}
}
