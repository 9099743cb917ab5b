// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerUpsert(t *testing.T) {
	var l Ledger[Swipe]

	assert.True(t, l.Upsert(Swipe{UserID: "a", RestaurantID: "r1", Direction: DirectionRight, At: tick(1)}))
	assert.True(t, l.Upsert(Swipe{UserID: "b", RestaurantID: "r1", Direction: DirectionLeft, At: tick(2)}))
	assert.True(t, l.Upsert(Swipe{UserID: "a", RestaurantID: "r2", Direction: DirectionLeft, At: tick(3)}))
	require.Equal(t, 3, l.Len())

	// Flip replaces in place
	assert.True(t, l.Upsert(Swipe{UserID: "a", RestaurantID: "r1", Direction: DirectionLeft, At: tick(4)}))
	require.Equal(t, 3, l.Len())

	got, ok := l.Get(Key{UserID: "a", RestaurantID: "r1"})
	require.True(t, ok)
	assert.Equal(t, DirectionLeft, got.Direction)
	assert.Equal(t, tick(4), got.At)

	// Insertion order is preserved
	all := l.All()
	assert.Equal(t, "r1", all[0].RestaurantID)
	assert.Equal(t, "b", all[1].UserID)
	assert.Equal(t, "r2", all[2].RestaurantID)
}

func TestLedgerUpsertIdenticalDecisionIsNoop(t *testing.T) {
	var l Ledger[Vote]

	require.True(t, l.Upsert(Vote{UserID: "a", RestaurantID: "r1", Choice: ChoiceYes, At: tick(1)}))
	before := l.All()

	assert.False(t, l.Upsert(Vote{UserID: "a", RestaurantID: "r1", Choice: ChoiceYes, At: tick(9)}))
	assert.Equal(t, before, l.All())
}

func TestLedgerQueries(t *testing.T) {
	var l Ledger[Swipe]
	l.Upsert(Swipe{UserID: "a", RestaurantID: "r1", Direction: DirectionRight})
	l.Upsert(Swipe{UserID: "a", RestaurantID: "r2", Direction: DirectionRight})
	l.Upsert(Swipe{UserID: "b", RestaurantID: "r1", Direction: DirectionLeft})

	assert.Len(t, l.ByUser("a"), 2)
	assert.Len(t, l.ByUser("b"), 1)
	assert.Empty(t, l.ByUser("c"))
	assert.Len(t, l.ByRestaurant("r1"), 2)

	_, ok := l.Get(Key{UserID: "c", RestaurantID: "r1"})
	assert.False(t, ok)
}

func TestLedgerCloneIsIndependent(t *testing.T) {
	var l Ledger[Swipe]
	l.Upsert(Swipe{UserID: "a", RestaurantID: "r1", Direction: DirectionRight})

	c := l.Clone()
	c.Upsert(Swipe{UserID: "a", RestaurantID: "r1", Direction: DirectionLeft})
	c.Upsert(Swipe{UserID: "b", RestaurantID: "r1", Direction: DirectionLeft})

	got, _ := l.Get(Key{UserID: "a", RestaurantID: "r1"})
	assert.Equal(t, DirectionRight, got.Direction)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 2, c.Len())
}

func TestLedgerJSON(t *testing.T) {
	var empty Ledger[Vote]
	data, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	// Duplicate keys collapse to the last entry
	raw := `[
		{"user_id":"a","restaurant_id":"r1","vote":"yes","at":"2025-03-14T18:00:01Z"},
		{"user_id":"b","restaurant_id":"r1","vote":"no","at":"2025-03-14T18:00:02Z"},
		{"user_id":"a","restaurant_id":"r1","vote":"no","at":"2025-03-14T18:00:03Z"}
	]`
	var l Ledger[Vote]
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	require.Equal(t, 2, l.Len())

	got, ok := l.Get(Key{UserID: "a", RestaurantID: "r1"})
	require.True(t, ok)
	assert.Equal(t, ChoiceNo, got.Choice)
}

func TestSessionJSONRoundTripKeepsLedgerIndex(t *testing.T) {
	s := newMatchingSession(t, "a", "b")
	swipe(t, s, "a", "r1", DirectionRight, 20)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var loaded Session
	require.NoError(t, json.Unmarshal(data, &loaded))

	// Index is rebuilt so a flip replaces rather than appends
	_, err = loaded.RecordSwipe("a", "r1", DirectionLeft, tick(21))
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Swipes.Len())
	assert.Equal(t, PhaseMatching, loaded.Phase)
}
