// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"sort"
	"strings"
	"time"
)

// Result is the vote count for one consensus restaurant.
type Result struct {
	RestaurantID string `json:"restaurant_id"`
	Yes          int    `json:"yes"`
	No           int    `json:"no"`
	Total        int    `json:"total"`
	AllVoted     bool   `json:"all_voted"`
	Score        int    `json:"score"`
}

// TallyResult is the read-only aggregate over a session's votes.
type TallyResult struct {
	// Results are ordered best first.
	Results          []Result
	ParticipantCount int
	// AllVoted is true when every consensus restaurant has a vote from
	// every participant.
	AllVoted bool
	// Winner is the top result when its score is non-negative. It is
	// provisional until AllVoted.
	Winner *Result
}

// Counts returns the results keyed by restaurant id.
func (t TallyResult) Counts() map[string]Result {
	out := make(map[string]Result, len(t.Results))
	for _, r := range t.Results {
		out[r.RestaurantID] = r
	}
	return out
}

// Tally aggregates the vote ledger over the consensus set. It has no side
// effects.
func Tally(s *Session) TallyResult {
	n := s.ParticipantCount()
	results := make([]Result, 0, len(s.ConsensusRestaurantIDs))
	for _, id := range s.ConsensusRestaurantIDs {
		r := Result{RestaurantID: id}
		for _, v := range s.Votes.ByRestaurant(id) {
			if !s.IsParticipant(v.UserID) {
				continue
			}
			switch v.Choice {
			case ChoiceYes:
				r.Yes++
			case ChoiceNo:
				r.No++
			}
		}
		r.Total = r.Yes + r.No
		r.AllVoted = r.Total == n
		r.Score = r.Yes - r.No
		results = append(results, r)
	}

	// Score, then yes votes, then id for a stable order.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Yes != results[j].Yes {
			return results[i].Yes > results[j].Yes
		}
		return results[i].RestaurantID < results[j].RestaurantID
	})

	allVoted := true
	for _, r := range results {
		if !r.AllVoted {
			allVoted = false
			break
		}
	}

	t := TallyResult{
		Results:          results,
		ParticipantCount: n,
		AllVoted:         allVoted,
	}
	if len(results) > 0 && results[0].Score >= 0 {
		w := results[0]
		t.Winner = &w
	}
	return t
}

// UserVotes returns userID's current vote per restaurant.
func UserVotes(s *Session, userID string) map[string]Choice {
	out := make(map[string]Choice)
	for _, v := range s.Votes.ByUser(userID) {
		out[v.RestaurantID] = v.Choice
	}
	return out
}

// VoteOutcome is the result of RecordVote.
type VoteOutcome struct {
	Phase     Phase
	Completed bool
	Tally     TallyResult
}

// RecordVote stores userID's vote on a consensus restaurant. When the vote
// leaves every participant having voted on every consensus restaurant and
// a winner exists, the session completes.
func (s *Session) RecordVote(userID, restaurantID string, choice Choice, now time.Time) (VoteOutcome, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	if userID == "" {
		return VoteOutcome{}, NewError(KindNotAuthenticated, "Authentication required")
	}
	if restaurantID == "" {
		return VoteOutcome{}, invalidInput("Restaurant ID and vote (yes/no) are required")
	}
	if choice != ChoiceYes && choice != ChoiceNo {
		return VoteOutcome{}, invalidInput(`vote must be "yes" or "no"`)
	}
	if !s.IsParticipant(userID) {
		return VoteOutcome{}, notAParticipant("vote")
	}
	if s.Phase != PhaseVoting {
		return VoteOutcome{}, wrongPhase(PhaseVoting)
	}
	if !s.IsConsensus(restaurantID) {
		return VoteOutcome{}, invalidInput("Restaurant is not available for voting")
	}

	if s.Votes.Upsert(Vote{UserID: userID, RestaurantID: restaurantID, Choice: choice, At: now}) {
		s.UpdatedAt = now
	}

	_, completed := s.applyTransition(now)
	return VoteOutcome{
		Phase:     s.Phase,
		Completed: completed,
		Tally:     Tally(s),
	}, nil
}
