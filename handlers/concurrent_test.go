// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-dine/models"
	"github.com/danielhkuo/quickly-dine/testutil"
)

func makeUsers(t *testing.T, env *testEnv, n int) []models.User {
	t.Helper()
	users := make([]models.User, n)
	for i := range users {
		users[i] = env.createUser(t, fmt.Sprintf("Diner%d", i))
	}
	return users
}

// TestConcurrentJoins verifies that simultaneous joins all land exactly once
func TestConcurrentJoins(t *testing.T) {
	env := setupTestEnv(t)
	users := makeUsers(t, env, 9)
	created := env.lobbyWith(t, users[0])

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for _, u := range users[1:] {
		wg.Add(1)
		go func(u models.User) {
			defer wg.Done()
			req := asUser(testutil.MakeRequest("POST", "/sessions/join", models.JoinSessionRequest{Code: created.Code}, nil), u)
			if w := serve(env.sessionHandler.JoinSession, req); w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(u)
	}
	wg.Wait()

	assert.Equal(t, int32(len(users)-1), successCount.Load())

	w := serve(env.sessionHandler.GetSession, sessionRequest("GET", created.SessionID, "", nil, &users[0]))
	view := decode[models.SessionView](t, w)
	assert.Len(t, view.Participants, len(users))
	assert.Equal(t, int64(len(users)), view.Version)
}

// TestConcurrentSwipes verifies that exactly one swipe observes the move
// to voting when every participant swipes right at once
func TestConcurrentSwipes(t *testing.T) {
	env := setupTestEnv(t)
	users := makeUsers(t, env, 6)
	sessionID := env.matching(t, users...)
	target := env.seed[0].ID

	var successCount, consensusCount atomic.Int32
	var wg sync.WaitGroup

	for _, u := range users {
		wg.Add(1)
		go func(u models.User) {
			defer wg.Done()
			w := env.swipe(sessionID, u, target, "right")
			if w.Code != http.StatusOK {
				return
			}
			successCount.Add(1)
			var resp models.SwipeResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.ConsensusReached {
				consensusCount.Add(1)
			}
		}(u)
	}
	wg.Wait()

	assert.Equal(t, int32(len(users)), successCount.Load())
	assert.Equal(t, int32(1), consensusCount.Load(), "only the last swipe sees consensus")

	w := serve(env.sessionHandler.GetSession, sessionRequest("GET", sessionID, "", nil, &users[0]))
	view := decode[models.SessionView](t, w)
	assert.Equal(t, "voting", view.Phase)
	assert.Equal(t, []string{target}, view.ConsensusRestaurantIDs)
}

// TestConcurrentVotes verifies that simultaneous votes are all counted and
// the session completes once
func TestConcurrentVotes(t *testing.T) {
	env := setupTestEnv(t)
	users := makeUsers(t, env, 6)
	sessionID, restaurantID := env.voting(t, users...)

	var successCount, completedCount atomic.Int32
	var wg sync.WaitGroup

	for i, u := range users {
		wg.Add(1)
		go func(i int, u models.User) {
			defer wg.Done()
			vote := "yes"
			if i%3 == 0 {
				vote = "no"
			}
			w := env.vote(sessionID, u, restaurantID, vote)
			if w.Code != http.StatusOK {
				return
			}
			successCount.Add(1)
			var resp models.VoteResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Phase == "completed" {
				completedCount.Add(1)
			}
		}(i, u)
	}
	wg.Wait()

	require.Equal(t, int32(len(users)), successCount.Load())
	assert.Equal(t, int32(1), completedCount.Load())

	w := serve(env.resultsHandler.Results, sessionRequest("GET", sessionID, "/results", nil, &users[0]))
	resp := decode[models.ResultsResponse](t, w)
	require.NotNil(t, resp.Winner)
	assert.Equal(t, 4, resp.Winner.Yes)
	assert.Equal(t, 2, resp.Winner.No)
	assert.Equal(t, 2, resp.Winner.Score)
}

// TestParallelSessions verifies that sessions do not interfere
func TestParallelSessions(t *testing.T) {
	env := setupTestEnv(t)

	const numSessions = 4
	var wg sync.WaitGroup
	winners := make([]string, numSessions)

	pairs := make([][]models.User, numSessions)
	sessionIDs := make([]string, numSessions)
	for i := range pairs {
		pairs[i] = makeUsers(t, env, 2)
		sessionIDs[i] = env.matching(t, pairs[i]...)
	}

	for i := 0; i < numSessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pair := pairs[i]
			restaurantID := env.seed[i].ID
			sessionID := sessionIDs[i]
			for _, u := range pair {
				env.swipe(sessionID, u, restaurantID, "right")
			}
			for _, u := range pair {
				env.vote(sessionID, u, restaurantID, "yes")
			}
			w := serve(env.resultsHandler.Results, sessionRequest("GET", sessionID, "/results", nil, &pair[0]))
			var resp models.ResultsResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Winner != nil {
				winners[i] = resp.Winner.RestaurantID
			}
		}(i)
	}
	wg.Wait()

	for i, id := range winners {
		assert.Equal(t, env.seed[i].ID, id, "session %d", i)
	}
}
