// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/models"
	"github.com/danielhkuo/quickly-dine/session"
)

// VoteStatus returns live counts and the caller's own votes. It is only
// available while the session is voting.
func (s *Service) VoteStatus(ctx context.Context, callerID, sessionID string) (resp models.VoteStatusResponse, err error) {
	ctx, span := s.start(ctx, "lobby.VoteStatus", sessionID)
	defer func() { s.end(span, err) }()

	sess, err := s.member(ctx, callerID, sessionID, "view votes")
	if err != nil {
		return resp, err
	}
	if sess.Phase != session.PhaseVoting {
		return resp, session.NewError(session.KindWrongPhase, "Session is not in voting phase")
	}

	tally := session.Tally(sess)
	counts := make(map[string]models.VoteCount, len(tally.Results))
	for _, r := range tally.Results {
		counts[r.RestaurantID] = models.VoteCount{Yes: r.Yes, No: r.No, Total: r.Total, AllVoted: r.AllVoted}
	}

	mine := make(map[string]string)
	for id, c := range session.UserVotes(sess, callerID) {
		mine[id] = string(c)
	}

	details := s.restaurants(ctx, sess.ConsensusRestaurantIDs)
	list := make([]models.Restaurant, 0, len(sess.ConsensusRestaurantIDs))
	for _, id := range sess.ConsensusRestaurantIDs {
		if r, ok := details[id]; ok {
			list = append(list, r)
		}
	}

	return models.VoteStatusResponse{
		VoteCounts:       counts,
		UserVotes:        mine,
		Restaurants:      list,
		ParticipantCount: tally.ParticipantCount,
		AllVoted:         tally.AllVoted,
	}, nil
}

// Results returns the ranked tally. It is available while voting and
// after completion.
func (s *Service) Results(ctx context.Context, callerID, sessionID string) (resp models.ResultsResponse, err error) {
	ctx, span := s.start(ctx, "lobby.Results", sessionID)
	defer func() { s.end(span, err) }()

	sess, err := s.member(ctx, callerID, sessionID, "view results")
	if err != nil {
		return resp, err
	}
	if !sess.Phase.AtLeast(session.PhaseVoting) {
		return resp, session.NewError(session.KindWrongPhase, "Results are not available yet")
	}

	tally := session.Tally(sess)
	details := s.restaurants(ctx, sess.ConsensusRestaurantIDs)

	results := make([]models.RestaurantResult, 0, len(tally.Results))
	for _, r := range tally.Results {
		results = append(results, models.RestaurantResult{
			RestaurantID: r.RestaurantID,
			Restaurant:   lookup(details, r.RestaurantID),
			Yes:          r.Yes,
			No:           r.No,
			Total:        r.Total,
			AllVoted:     r.AllVoted,
			Score:        r.Score,
		})
	}

	var winner *models.Winner
	if tally.Winner != nil {
		w := tally.Winner
		winner = &models.Winner{
			RestaurantID: w.RestaurantID,
			Restaurant:   lookup(details, w.RestaurantID),
			Yes:          w.Yes,
			No:           w.No,
			Score:        w.Score,
		}
	}

	return models.ResultsResponse{
		Results:          results,
		Winner:           winner,
		AllVoted:         tally.AllVoted,
		ParticipantCount: tally.ParticipantCount,
		Phase:            string(sess.Phase),
	}, nil
}

// restaurants fetches details for ids. Missing details degrade to
// id-only results instead of failing the read.
func (s *Service) restaurants(ctx context.Context, ids []string) map[string]models.Restaurant {
	details, err := s.catalog.FindRestaurants(ctx, ids)
	if err != nil {
		s.logger.Warn("restaurant detail lookup failed", zap.Error(err))
		return map[string]models.Restaurant{}
	}
	return details
}

func lookup(details map[string]models.Restaurant, id string) *models.Restaurant {
	r, ok := details[id]
	if !ok {
		return nil
	}
	return &r
}
