// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"strings"
	"time"
)

const (
	// CodeLength is the number of digits in a join code.
	CodeLength = 6

	// MinParticipants is the smallest group that may start matching.
	MinParticipants = 2
)

// NormalizeCode trims surrounding whitespace and checks that the result is
// exactly CodeLength ASCII digits.
func NormalizeCode(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	if len(code) != CodeLength {
		return "", invalidInput("Valid 6-digit session code is required")
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return "", invalidInput("Valid 6-digit session code is required")
		}
	}
	return code, nil
}

// Join adds userID as a participant. Joining is only possible while the
// session is waiting. A user that already joined is not added twice; the
// returned bool reports whether a new entry was created.
func (s *Session) Join(userID, displayName string, now time.Time) (bool, error) {
	if userID == "" {
		return false, NewError(KindNotAuthenticated, "Authentication required")
	}
	if s.Phase != PhaseWaiting {
		return false, NewError(KindWrongPhase, "Session is no longer accepting new participants")
	}
	if s.IsParticipant(userID) {
		return false, nil
	}

	s.Participants = append(s.Participants, Participant{
		UserID:      userID,
		DisplayName: displayName,
		IsHost:      false,
		IsReady:     true,
		JoinedAt:    now,
	})
	s.UpdatedAt = now
	return true, nil
}

// StartMatching moves a waiting session to matching on behalf of callerID.
// Only the host may do this, and only once at least MinParticipants have
// joined.
func (s *Session) StartMatching(callerID string, now time.Time) error {
	if callerID != s.HostID {
		return NewError(KindNotHost, "Only the session host can start matching")
	}
	if s.Phase != PhaseWaiting {
		return wrongPhase(PhaseWaiting)
	}
	if s.ParticipantCount() < MinParticipants {
		return NewError(KindInsufficientParticipants, "At least 2 participants are required to start matching")
	}

	s.advance(PhaseMatching, now)
	return nil
}
