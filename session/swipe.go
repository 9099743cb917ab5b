// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"sort"
	"strings"
	"time"
)

// SwipeOutcome is the result of RecordSwipe.
type SwipeOutcome struct {
	// ConsensusReached is true when at least one restaurant has a right
	// swipe from every participant.
	ConsensusReached       bool
	ConsensusRestaurantIDs []string
	// Transitioned is true when this swipe moved the session to voting.
	Transitioned bool
}

// RecordSwipe stores userID's decision on restaurantID and re-derives
// consensus from the ledger. The first swipe that yields a non-empty
// consensus moves the session to voting.
func (s *Session) RecordSwipe(userID, restaurantID string, dir Direction, now time.Time) (SwipeOutcome, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	if userID == "" {
		return SwipeOutcome{}, NewError(KindNotAuthenticated, "Authentication required")
	}
	if restaurantID == "" {
		return SwipeOutcome{}, invalidInput("Restaurant ID and direction (left/right) are required")
	}
	if dir != DirectionLeft && dir != DirectionRight {
		return SwipeOutcome{}, invalidInput("Restaurant ID and direction (left/right) are required")
	}
	if err := s.CanSwipe(userID); err != nil {
		return SwipeOutcome{}, err
	}

	if s.Swipes.Upsert(Swipe{UserID: userID, RestaurantID: restaurantID, Direction: dir, At: now}) {
		s.UpdatedAt = now
	}

	_, moved := s.applyTransition(now)
	consensus := s.ConsensusRestaurantIDs
	if !moved {
		consensus = Consensus(s)
	}
	return SwipeOutcome{
		ConsensusReached:       len(consensus) > 0,
		ConsensusRestaurantIDs: consensus,
		Transitioned:           moved,
	}, nil
}

// CanSwipe reports whether userID may swipe right now. Membership is
// checked before phase.
func (s *Session) CanSwipe(userID string) error {
	if !s.IsParticipant(userID) {
		return notAParticipant("swipe")
	}
	if s.Phase != PhaseMatching {
		return wrongPhase(PhaseMatching)
	}
	return nil
}

// Consensus returns, in ascending id order, every restaurant on which each
// current participant's latest swipe is right.
func Consensus(s *Session) []string {
	members := make(map[string]bool, len(s.Participants))
	for _, p := range s.Participants {
		members[p.UserID] = true
	}

	rights := make(map[string]int)
	for _, sw := range s.Swipes.All() {
		if sw.Direction == DirectionRight && members[sw.UserID] {
			rights[sw.RestaurantID]++
		}
	}

	ids := []string{}
	for id, n := range rights {
		if n == len(members) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
