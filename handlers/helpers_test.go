// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/auth"
	"github.com/danielhkuo/quickly-dine/candidates"
	"github.com/danielhkuo/quickly-dine/db"
	"github.com/danielhkuo/quickly-dine/lobby"
	"github.com/danielhkuo/quickly-dine/middleware"
	"github.com/danielhkuo/quickly-dine/models"
	"github.com/danielhkuo/quickly-dine/store"
	"github.com/danielhkuo/quickly-dine/testutil"
)

// testEnv wires every handler over a migrated sqlite database seeded with
// the sample catalog.
type testEnv struct {
	users  store.Users
	issuer *auth.TokenIssuer
	svc    *lobby.Service
	seed   []models.Restaurant

	userHandler       *UserHandler
	sessionHandler    *SessionHandler
	votingHandler     *VotingHandler
	resultsHandler    *ResultsHandler
	restaurantHandler *RestaurantHandler
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	logger := zap.NewNop()

	catalog := store.NewSQLCatalog(conn)
	seed := db.SampleRestaurants()
	require.NoError(t, catalog.UpsertRestaurants(context.Background(), seed))

	users := store.NewSQLUsers(conn)
	svc := lobby.NewService(lobby.Config{
		Sessions: store.NewSQLSessions(conn),
		Users:    users,
		Catalog:  catalog,
		Selector: candidates.NewSelector(catalog, seed, cfg.CandidatePageSize, cfg.FallbackPageSize, logger),
		Logger:   logger,
	})
	issuer := testutil.NewTestIssuer(t)

	return &testEnv{
		users:             users,
		issuer:            issuer,
		svc:               svc,
		seed:              seed,
		userHandler:       NewUserHandler(users, issuer, auth.NewHasher(4), logger),
		sessionHandler:    NewSessionHandler(svc, logger),
		votingHandler:     NewVotingHandler(svc, logger),
		resultsHandler:    NewResultsHandler(svc, logger),
		restaurantHandler: NewRestaurantHandler(svc, logger),
	}
}

func (e *testEnv) createUser(t *testing.T, name string) models.User {
	t.Helper()
	return testutil.CreateTestUser(t, e.users, name)
}

// asUser attaches u as the authenticated caller.
func asUser(req *http.Request, u models.User) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), auth.Identity{UserID: u.ID, Guest: u.Guest}))
}

func sessionRequest(method, sessionID, suffix string, body interface{}, u *models.User) *http.Request {
	req := testutil.MakeRequest(method, "/sessions/"+sessionID+suffix, body, nil)
	req.SetPathValue("id", sessionID)
	if u != nil {
		req = asUser(req, *u)
	}
	return req
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "Failed to decode response: %s", w.Body.String())
	return v
}

// lobbyWith creates a session hosted by users[0] and joins the rest.
func (e *testEnv) lobbyWith(t *testing.T, users ...models.User) models.CreateSessionResponse {
	t.Helper()

	req := asUser(testutil.MakeRequest("POST", "/sessions", models.CreateSessionRequest{Name: "Dinner"}, nil), users[0])
	w := serve(e.sessionHandler.CreateSession, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.CreateSessionResponse](t, w)

	for _, u := range users[1:] {
		req := asUser(testutil.MakeRequest("POST", "/sessions/join", models.JoinSessionRequest{Code: created.Code}, nil), u)
		w := serve(e.sessionHandler.JoinSession, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	return created
}

func (e *testEnv) matching(t *testing.T, users ...models.User) string {
	t.Helper()

	created := e.lobbyWith(t, users...)
	w := serve(e.sessionHandler.StartMatching, sessionRequest("POST", created.SessionID, "/start-matching", nil, &users[0]))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return created.SessionID
}

func (e *testEnv) swipe(sessionID string, u models.User, restaurantID, direction string) *httptest.ResponseRecorder {
	req := sessionRequest("POST", sessionID, "/swipes", models.SwipeRequest{RestaurantID: restaurantID, Direction: direction}, &u)
	return serve(e.votingHandler.Swipe, req)
}

func (e *testEnv) vote(sessionID string, u models.User, restaurantID, vote string) *httptest.ResponseRecorder {
	req := sessionRequest("POST", sessionID, "/votes", models.VoteRequest{RestaurantID: restaurantID, Vote: vote}, &u)
	return serve(e.votingHandler.Vote, req)
}

// voting drives a session to voting with consensus on the first seeded
// restaurant.
func (e *testEnv) voting(t *testing.T, users ...models.User) (string, string) {
	t.Helper()

	sessionID := e.matching(t, users...)
	restaurantID := e.seed[0].ID
	for _, u := range users {
		w := e.swipe(sessionID, u, restaurantID, "right")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	return sessionID, restaurantID
}

// voteAs is vote with an optional caller.
func (e *testEnv) voteAs(sessionID string, u *models.User, restaurantID, vote string) *httptest.ResponseRecorder {
	req := sessionRequest("POST", sessionID, "/votes", models.VoteRequest{RestaurantID: restaurantID, Vote: vote}, u)
	return serve(e.votingHandler.Vote, req)
}
