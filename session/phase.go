// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"slices"
	"time"
)

// DeriveTransition returns the phase a session should move to given its
// committed ledgers, if any. It is evaluated after every ledger mutation
// and never for reads.
//
//	matching -> voting     when at least one restaurant has unanimous right swipes
//	voting   -> completed  when every participant voted on every consensus
//	                       restaurant and a winner exists
//
// waiting -> matching is host-triggered and never derived.
func DeriveTransition(s *Session) (Phase, bool) {
	switch s.Phase {
	case PhaseMatching:
		if len(Consensus(s)) > 0 {
			return PhaseVoting, true
		}
	case PhaseVoting:
		t := Tally(s)
		if t.AllVoted && t.Winner != nil {
			return PhaseCompleted, true
		}
	}
	return "", false
}

// advance moves s forward to next. Moves that are not strictly forward are
// ignored. Entering voting freezes the current consensus set.
func (s *Session) advance(next Phase, now time.Time) bool {
	if next.Rank() <= s.Phase.Rank() {
		return false
	}
	if next == PhaseVoting {
		s.ConsensusRestaurantIDs = slices.Clone(Consensus(s))
	}
	if next == PhaseCompleted {
		t := now
		s.CompletedAt = &t
	}
	s.Phase = next
	s.UpdatedAt = now
	return true
}

// applyTransition evaluates DeriveTransition and applies the result.
func (s *Session) applyTransition(now time.Time) (Phase, bool) {
	next, ok := DeriveTransition(s)
	if !ok {
		return "", false
	}
	return next, s.advance(next, now)
}
