// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"slices"
	"strings"
	"time"
)

// Phase is the lifecycle stage of a session.
type Phase string

const (
	PhaseWaiting   Phase = "waiting"
	PhaseMatching  Phase = "matching"
	PhaseVoting    Phase = "voting"
	PhaseCompleted Phase = "completed"
)

// phases in transition order
var phases = []Phase{PhaseWaiting, PhaseMatching, PhaseVoting, PhaseCompleted}

// Rank returns the position of p in the transition order, or -1 for an
// unknown phase.
func (p Phase) Rank() int {
	return slices.Index(phases, p)
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	return p.Rank() >= 0
}

// AtLeast reports whether p has reached q in the transition order.
func (p Phase) AtLeast(q Phase) bool {
	return p.Rank() >= q.Rank()
}

// Direction is a swipe decision.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ParseDirection validates a swipe direction.
func ParseDirection(raw string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(raw))); d {
	case DirectionLeft, DirectionRight:
		return d, nil
	}
	return "", invalidInput("direction must be one of: left, right")
}

// Choice is a vote value.
type Choice string

const (
	ChoiceYes Choice = "yes"
	ChoiceNo  Choice = "no"
)

// ParseChoice validates a vote value.
func ParseChoice(raw string) (Choice, error) {
	switch c := Choice(strings.ToLower(strings.TrimSpace(raw))); c {
	case ChoiceYes, ChoiceNo:
		return c, nil
	}
	return "", invalidInput(`vote must be "yes" or "no"`)
}

// Participant is one member of a session.
type Participant struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	IsHost      bool      `json:"is_host"`
	IsReady     bool      `json:"is_ready"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Swipe is a participant's latest decision on one restaurant.
type Swipe struct {
	UserID       string    `json:"user_id"`
	RestaurantID string    `json:"restaurant_id"`
	Direction    Direction `json:"direction"`
	At           time.Time `json:"at"`
}

func (s Swipe) LedgerKey() Key { return Key{UserID: s.UserID, RestaurantID: s.RestaurantID} }

func (s Swipe) sameDecision(o Swipe) bool { return s.Direction == o.Direction }

// Vote is a participant's latest vote on one consensus restaurant.
type Vote struct {
	UserID       string    `json:"user_id"`
	RestaurantID string    `json:"restaurant_id"`
	Choice       Choice    `json:"vote"`
	At           time.Time `json:"at"`
}

func (v Vote) LedgerKey() Key { return Key{UserID: v.UserID, RestaurantID: v.RestaurantID} }

func (v Vote) sameDecision(o Vote) bool { return v.Choice == o.Choice }

// Session is one group dining decision. It is an owned aggregate: callers
// load it, mutate a copy through the methods in this package, and persist
// the copy as a single versioned write.
type Session struct {
	ID                     string        `json:"id"`
	Code                   string        `json:"code"`
	Name                   string        `json:"name"`
	HostID                 string        `json:"host_id"`
	Phase                  Phase         `json:"phase"`
	Participants           []Participant `json:"participants"`
	Swipes                 Ledger[Swipe] `json:"swipes"`
	Votes                  Ledger[Vote]  `json:"votes"`
	ConsensusRestaurantIDs []string      `json:"consensus_restaurant_ids"`
	Version                int64         `json:"version"`
	CreatedAt              time.Time     `json:"created_at"`
	UpdatedAt              time.Time     `json:"updated_at"`
	CompletedAt            *time.Time    `json:"completed_at,omitempty"`
}

// New creates a waiting session whose only participant is the host.
// An empty name defaults to "Lobby <code>".
func New(id, code, name, hostID, hostName string, now time.Time) *Session {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Lobby " + code
	}
	return &Session{
		ID:     id,
		Code:   code,
		Name:   name,
		HostID: hostID,
		Phase:  PhaseWaiting,
		Participants: []Participant{{
			UserID:      hostID,
			DisplayName: hostName,
			IsHost:      true,
			IsReady:     true,
			JoinedAt:    now,
		}},
		ConsensusRestaurantIDs: []string{},
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// Clone returns a deep copy that can be mutated without affecting s.
func (s *Session) Clone() *Session {
	c := *s
	c.Participants = slices.Clone(s.Participants)
	c.Swipes = s.Swipes.Clone()
	c.Votes = s.Votes.Clone()
	c.ConsensusRestaurantIDs = slices.Clone(s.ConsensusRestaurantIDs)
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// Participant returns the participant entry for userID.
func (s *Session) Participant(userID string) (Participant, bool) {
	for _, p := range s.Participants {
		if p.UserID == userID {
			return p, true
		}
	}
	return Participant{}, false
}

// IsParticipant reports whether userID has joined the session.
func (s *Session) IsParticipant(userID string) bool {
	_, ok := s.Participant(userID)
	return ok
}

// ParticipantCount returns the current number of participants.
func (s *Session) ParticipantCount() int {
	return len(s.Participants)
}

// IsConsensus reports whether restaurantID is in the frozen consensus set.
func (s *Session) IsConsensus(restaurantID string) bool {
	return slices.Contains(s.ConsensusRestaurantIDs, restaurantID)
}

// SwipedBy returns the restaurant ids userID has swiped in any direction.
func (s *Session) SwipedBy(userID string) []string {
	var ids []string
	for _, sw := range s.Swipes.ByUser(userID) {
		ids = append(ids, sw.RestaurantID)
	}
	return ids
}
