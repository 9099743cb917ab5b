// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package candidates

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/models"
)

// Source returns up to limit restaurants matching a filter.
type Source interface {
	Candidates(ctx context.Context, f Filter, limit int) ([]models.Restaurant, error)
}

// Page is one batch of swipe cards.
type Page struct {
	Restaurants []models.Restaurant
	// Fallback is true when the filter was dropped because it matched
	// nothing or the source failed.
	Fallback bool
	Filter   Filter
}

// Selector picks candidates for a caller and never dead-ends: an empty or
// failed filtered query falls back to an unfiltered page from the primary
// source, then to a static default list.
type Selector struct {
	primary      Source
	defaults     []models.Restaurant
	pageSize     int
	fallbackSize int
	logger       *zap.Logger
}

// NewSelector creates a Selector. defaults may be empty.
func NewSelector(primary Source, defaults []models.Restaurant, pageSize, fallbackSize int, logger *zap.Logger) *Selector {
	if pageSize <= 0 {
		pageSize = 20
	}
	if fallbackSize <= 0 {
		fallbackSize = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		primary:      primary,
		defaults:     defaults,
		pageSize:     pageSize,
		fallbackSize: fallbackSize,
		logger:       logger,
	}
}

// ErrNoCandidates is returned when neither the source nor the defaults can
// supply a single restaurant.
var ErrNoCandidates = errors.New("no candidate restaurants available")

// Select builds the group filter and queries the source.
func (s *Selector) Select(ctx context.Context, profiles []Profile, swiped []string) (Page, error) {
	f := Build(profiles, swiped)

	list, err := s.primary.Candidates(ctx, f, s.pageSize)
	if err == nil && len(list) > 0 {
		return Page{Restaurants: list, Filter: f}, nil
	}
	if err != nil {
		s.logger.Warn("filtered candidate query failed", zap.Error(err))
	}

	list, err = s.primary.Candidates(ctx, Filter{}, s.fallbackSize)
	if err == nil && len(list) > 0 {
		return Page{Restaurants: list, Fallback: true, Filter: f}, nil
	}
	if err != nil {
		s.logger.Warn("unfiltered candidate query failed", zap.Error(err))
	}

	if len(s.defaults) == 0 {
		return Page{}, ErrNoCandidates
	}
	s.logger.Info("serving default candidates")
	return Page{
		Restaurants: Filter{}.Apply(s.defaults, s.fallbackSize),
		Fallback:    true,
		Filter:      f,
	}, nil
}
