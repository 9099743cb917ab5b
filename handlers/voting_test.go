// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-dine/models"
	"github.com/danielhkuo/quickly-dine/testutil"
)

func TestCandidates(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "Alice")
	bob := env.createUser(t, "Bob")
	outsider := env.createUser(t, "Outsider")

	waiting := env.lobbyWith(t, alice, bob)
	sessionID := env.matching(t, alice, bob)

	t.Run("full catalog before any swipe", func(t *testing.T) {
		w := serve(env.votingHandler.Candidates, sessionRequest("GET", sessionID, "/candidates", nil, &alice))
		testutil.AssertStatus(t, w, http.StatusOK)

		resp := decode[models.CandidatesResponse](t, w)
		assert.False(t, resp.Fallback)
		assert.Len(t, resp.Restaurants, len(env.seed))
		for i := 1; i < len(resp.Restaurants); i++ {
			assert.GreaterOrEqual(t, resp.Restaurants[i-1].Rating, resp.Restaurants[i].Rating, "ordered by rating")
		}
	})

	t.Run("swiped restaurants are excluded for the swiper only", func(t *testing.T) {
		require.Equal(t, http.StatusOK, env.swipe(sessionID, alice, env.seed[3].ID, "left").Code)

		w := serve(env.votingHandler.Candidates, sessionRequest("GET", sessionID, "/candidates", nil, &alice))
		resp := decode[models.CandidatesResponse](t, w)
		assert.Len(t, resp.Restaurants, len(env.seed)-1)
		for _, r := range resp.Restaurants {
			assert.NotEqual(t, env.seed[3].ID, r.ID)
		}

		w = serve(env.votingHandler.Candidates, sessionRequest("GET", sessionID, "/candidates", nil, &bob))
		assert.Len(t, decode[models.CandidatesResponse](t, w).Restaurants, len(env.seed))
	})

	t.Run("disliked cuisines filter the catalog", func(t *testing.T) {
		req := asUser(testutil.MakeRequest("PUT", "/me/preferences", models.UpdatePreferencesRequest{
			DislikedCuisines: []string{env.seed[0].Cuisine},
		}, nil), bob)
		require.Equal(t, http.StatusOK, serve(env.userHandler.UpdatePreferences, req).Code)

		w := serve(env.votingHandler.Candidates, sessionRequest("GET", sessionID, "/candidates", nil, &alice))
		resp := decode[models.CandidatesResponse](t, w)
		assert.False(t, resp.Fallback)
		for _, r := range resp.Restaurants {
			assert.NotEqual(t, env.seed[0].Cuisine, r.Cuisine)
		}
	})

	t.Run("impossible filter falls back", func(t *testing.T) {
		// Required tags are the intersection, so every member needs it
		for _, u := range []models.User{alice, bob} {
			_, err := env.users.UpdatePreferences(context.Background(), u.ID, models.Preferences{
				SpiceLevel:         models.SpiceMedium,
				Budget:             models.BudgetAny,
				DietaryPreferences: []string{"no-restaurant-offers-this"},
			})
			require.NoError(t, err)
		}

		w := serve(env.votingHandler.Candidates, sessionRequest("GET", sessionID, "/candidates", nil, &alice))
		testutil.AssertStatus(t, w, http.StatusOK)
		resp := decode[models.CandidatesResponse](t, w)
		assert.True(t, resp.Fallback)
		assert.NotEmpty(t, resp.Restaurants)
	})

	errorTests := []struct {
		name           string
		sessionID      string
		caller         *models.User
		expectedStatus int
	}{
		{"non-member", sessionID, &outsider, http.StatusForbidden},
		{"anonymous", sessionID, nil, http.StatusUnauthorized},
		{"waiting session", waiting.SessionID, &alice, http.StatusConflict},
		{"unknown session", "missing", &alice, http.StatusNotFound},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(env.votingHandler.Candidates, sessionRequest("GET", tt.sessionID, "/candidates", nil, tt.caller))
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestSwipe(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "Alice")
	bob := env.createUser(t, "Bob")
	outsider := env.createUser(t, "Outsider")

	waiting := env.lobbyWith(t, alice, bob)
	sessionID := env.matching(t, alice, bob)
	target := env.seed[1].ID

	tests := []struct {
		name           string
		sessionID      string
		caller         *models.User
		restaurantID   string
		direction      string
		expectedStatus int
		expectedIDs    []string
	}{
		{"invalid direction", sessionID, &alice, target, "up", http.StatusBadRequest, nil},
		{"missing restaurant", sessionID, &alice, "", "right", http.StatusBadRequest, nil},
		{"unknown restaurant", sessionID, &alice, "no-such-restaurant", "right", http.StatusNotFound, nil},
		{"non-member", sessionID, &outsider, target, "right", http.StatusForbidden, nil},
		{"non-member with unknown restaurant", sessionID, &outsider, "no-such-restaurant", "right", http.StatusForbidden, nil},
		{"anonymous", sessionID, nil, target, "right", http.StatusUnauthorized, nil},
		{"waiting session", waiting.SessionID, &alice, target, "right", http.StatusConflict, nil},
		{"first right swipe", sessionID, &alice, target, "right", http.StatusOK, []string{}},
		{"bob passes", sessionID, &bob, target, "left", http.StatusOK, []string{}},
		{"bob changes his mind", sessionID, &bob, target, "RIGHT", http.StatusOK, []string{target}},
		{"session moved to voting", sessionID, &alice, env.seed[2].ID, "right", http.StatusConflict, nil},
		{"unknown restaurant while voting", sessionID, &alice, "no-such-restaurant", "right", http.StatusConflict, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sessionRequest("POST", tt.sessionID, "/swipes", models.SwipeRequest{RestaurantID: tt.restaurantID, Direction: tt.direction}, tt.caller)
			w := serve(env.votingHandler.Swipe, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if w.Code == http.StatusOK {
				resp := decode[models.SwipeResponse](t, w)
				assert.Equal(t, len(tt.expectedIDs) > 0, resp.ConsensusReached)
				assert.Equal(t, tt.expectedIDs, resp.ConsensusRestaurantIDs)
			}
		})
	}

	w := serve(env.sessionHandler.GetSession, sessionRequest("GET", sessionID, "", nil, &alice))
	view := decode[models.SessionView](t, w)
	assert.Equal(t, "voting", view.Phase)
	assert.Equal(t, []string{target}, view.ConsensusRestaurantIDs)
}

func TestVote(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "Alice")
	bob := env.createUser(t, "Bob")
	outsider := env.createUser(t, "Outsider")

	matchingID := env.matching(t, alice, bob)
	sessionID, restaurantID := env.voting(t, alice, bob)

	tests := []struct {
		name           string
		sessionID      string
		caller         *models.User
		restaurantID   string
		vote           string
		expectedStatus int
		expectedPhase  string
	}{
		{"invalid vote", sessionID, &alice, restaurantID, "maybe", http.StatusBadRequest, ""},
		{"missing restaurant", sessionID, &alice, "", "yes", http.StatusBadRequest, ""},
		{"not a consensus restaurant", sessionID, &alice, env.seed[5].ID, "yes", http.StatusBadRequest, ""},
		{"non-member", sessionID, &outsider, restaurantID, "yes", http.StatusForbidden, ""},
		{"anonymous", sessionID, nil, restaurantID, "yes", http.StatusUnauthorized, ""},
		{"matching session", matchingID, &alice, restaurantID, "yes", http.StatusConflict, ""},
		{"alice votes yes", sessionID, &alice, restaurantID, "yes", http.StatusOK, "voting"},
		{"alice revotes no", sessionID, &alice, restaurantID, "no", http.StatusOK, "voting"},
		{"bob completes the ballot", sessionID, &bob, restaurantID, "yes", http.StatusOK, "completed"},
		{"completed session", sessionID, &bob, restaurantID, "no", http.StatusConflict, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.voteAs(tt.sessionID, tt.caller, tt.restaurantID, tt.vote)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if w.Code == http.StatusOK {
				resp := decode[models.VoteResponse](t, w)
				assert.True(t, resp.OK)
				assert.Equal(t, tt.expectedPhase, resp.Phase)
			}
		})
	}
}
