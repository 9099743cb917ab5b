// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"slices"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-dine/models"
	"github.com/danielhkuo/quickly-dine/session"
)

// View projects a session for clients. Ledgers stay private.
func View(s *session.Session, now time.Time) models.SessionView {
	participants := make([]models.ParticipantView, 0, len(s.Participants))
	for _, p := range s.Participants {
		participants = append(participants, models.ParticipantView{
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			IsHost:      p.IsHost,
			IsReady:     p.IsReady,
			JoinedAt:    p.JoinedAt,
		})
	}

	consensus := slices.Clone(s.ConsensusRestaurantIDs)
	if consensus == nil {
		consensus = []string{}
	}

	return models.SessionView{
		ID:                     s.ID,
		Code:                   s.Code,
		Name:                   s.Name,
		HostID:                 s.HostID,
		Phase:                  string(s.Phase),
		Participants:           participants,
		ConsensusRestaurantIDs: consensus,
		Version:                s.Version,
		CreatedAt:              s.CreatedAt,
		CreatedAgo:             humanize.RelTime(s.CreatedAt, now, "ago", "from now"),
		CompletedAt:            s.CompletedAt,
	}
}

// View projects sess using the service clock.
func (s *Service) View(sess *session.Session) models.SessionView {
	return View(sess, s.now())
}
