// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)

// tick returns t0 advanced by n seconds.
func tick(n int) time.Time {
	return t0.Add(time.Duration(n) * time.Second)
}

// newSession returns a waiting session hosted by users[0] with every other
// user joined.
func newSession(t *testing.T, users ...string) *Session {
	t.Helper()
	require.NotEmpty(t, users)

	s := New("sess-1", "123456", "", users[0], users[0], t0)
	for i, u := range users[1:] {
		_, err := s.Join(u, u, tick(i+1))
		require.NoError(t, err)
	}
	return s
}

// newMatchingSession returns a session already in the matching phase.
func newMatchingSession(t *testing.T, users ...string) *Session {
	t.Helper()
	s := newSession(t, users...)
	require.NoError(t, s.StartMatching(users[0], tick(10)))
	return s
}

// newVotingSession returns a session in voting with consensus over ids.
func newVotingSession(t *testing.T, users []string, ids ...string) *Session {
	t.Helper()
	s := newMatchingSession(t, users...)
	s.Phase = PhaseVoting
	s.ConsensusRestaurantIDs = append([]string(nil), ids...)
	return s
}

func swipe(t *testing.T, s *Session, user, restaurant string, dir Direction, at int) SwipeOutcome {
	t.Helper()
	out, err := s.RecordSwipe(user, restaurant, dir, tick(at))
	require.NoError(t, err)
	return out
}

func vote(t *testing.T, s *Session, user, restaurant string, c Choice, at int) VoteOutcome {
	t.Helper()
	out, err := s.RecordVote(user, restaurant, c, tick(at))
	require.NoError(t, err)
	return out
}
