// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := New("id-1", "042137", "", "host", "Hosty", t0)

	assert.Equal(t, PhaseWaiting, s.Phase)
	assert.Equal(t, "Lobby 042137", s.Name)
	require.Len(t, s.Participants, 1)
	assert.True(t, s.Participants[0].IsHost)
	assert.Equal(t, "host", s.Participants[0].UserID)
	assert.Empty(t, s.ConsensusRestaurantIDs)

	named := New("id-2", "000001", "  Friday dinner ", "host", "Hosty", t0)
	assert.Equal(t, "Friday dinner", named.Name)
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "six digits", raw: "123456", want: "123456"},
		{name: "leading zeros", raw: "000123", want: "000123"},
		{name: "surrounding whitespace", raw: "  654321\n", want: "654321"},
		{name: "too short", raw: "12345", wantErr: true},
		{name: "too long", raw: "1234567", wantErr: true},
		{name: "letters", raw: "12a456", wantErr: true},
		{name: "inner space", raw: "123 45", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "unicode digits", raw: "١٢٣٤٥٦", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCode(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoin(t *testing.T) {
	t.Run("adds participant while waiting", func(t *testing.T) {
		s := newSession(t, "host")
		joined, err := s.Join("bob", "Bob", tick(5))
		require.NoError(t, err)
		assert.True(t, joined)
		require.Len(t, s.Participants, 2)
		assert.False(t, s.Participants[1].IsHost)
		assert.True(t, s.Participants[1].IsReady)
		assert.Equal(t, tick(5), s.Participants[1].JoinedAt)
	})

	t.Run("re-join does not duplicate", func(t *testing.T) {
		s := newSession(t, "host", "bob")
		joined, err := s.Join("bob", "Bob again", tick(6))
		require.NoError(t, err)
		assert.False(t, joined)
		assert.Len(t, s.Participants, 2)

		joined, err = s.Join("host", "Host", tick(7))
		require.NoError(t, err)
		assert.False(t, joined)
		assert.Len(t, s.Participants, 2)
	})

	t.Run("rejected once matching", func(t *testing.T) {
		s := newMatchingSession(t, "host", "bob")
		_, err := s.Join("carol", "Carol", tick(20))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWrongPhase))
		assert.Len(t, s.Participants, 2)
	})

	t.Run("requires identity", func(t *testing.T) {
		s := newSession(t, "host")
		_, err := s.Join("", "Nobody", tick(1))
		assert.Equal(t, KindNotAuthenticated, KindOf(err))
	})
}

func TestStartMatching(t *testing.T) {
	tests := []struct {
		name     string
		users    []string
		caller   string
		prepare  func(s *Session)
		wantKind Kind
	}{
		{name: "host with two participants", users: []string{"host", "bob"}, caller: "host"},
		{name: "non-host participant", users: []string{"host", "bob"}, caller: "bob", wantKind: KindNotHost},
		{name: "stranger", users: []string{"host", "bob"}, caller: "mallory", wantKind: KindNotHost},
		{name: "host alone", users: []string{"host"}, caller: "host", wantKind: KindInsufficientParticipants},
		{
			name:     "already matching",
			users:    []string{"host", "bob"},
			caller:   "host",
			prepare:  func(s *Session) { s.Phase = PhaseMatching },
			wantKind: KindWrongPhase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, tt.users...)
			if tt.prepare != nil {
				tt.prepare(s)
			}
			before := s.Clone()

			err := s.StartMatching(tt.caller, tick(30))
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, KindOf(err))
				assert.Equal(t, before, s, "rejected call must not mutate")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, PhaseMatching, s.Phase)
			assert.Equal(t, tick(30), s.UpdatedAt)
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := newMatchingSession(t, "a", "b")
	swipe(t, s, "a", "r1", DirectionRight, 20)

	c := s.Clone()
	c.Participants[0].DisplayName = "changed"
	_, err := c.RecordSwipe("b", "r1", DirectionRight, tick(21))
	require.NoError(t, err)

	assert.Equal(t, "a", s.Participants[0].DisplayName)
	assert.Equal(t, PhaseMatching, s.Phase)
	assert.Equal(t, 1, s.Swipes.Len())
	assert.Empty(t, s.ConsensusRestaurantIDs)
	assert.Equal(t, PhaseVoting, c.Phase)
}

func TestSwipedBy(t *testing.T) {
	s := newMatchingSession(t, "a", "b")
	swipe(t, s, "a", "r1", DirectionRight, 20)
	swipe(t, s, "a", "r2", DirectionLeft, 21)
	swipe(t, s, "b", "r3", DirectionLeft, 22)

	assert.ElementsMatch(t, []string{"r1", "r2"}, s.SwipedBy("a"))
	assert.Equal(t, []string{"r3"}, s.SwipedBy("b"))
	assert.Empty(t, s.SwipedBy("c"))
}
