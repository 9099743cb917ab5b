// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package candidates

import (
	"slices"
	"sort"
	"strings"

	"github.com/danielhkuo/quickly-dine/models"
)

// Profile is the part of a participant's preferences the filter reads.
type Profile struct {
	UserID             string
	Allergies          []string
	DietaryPreferences []string
	DislikedCuisines   []string
}

// ProfileFromPreferences adapts a stored preference record.
func ProfileFromPreferences(userID string, p models.Preferences) Profile {
	return Profile{
		UserID:             userID,
		Allergies:          p.Allergies,
		DietaryPreferences: p.DietaryPreferences,
		DislikedCuisines:   p.DislikedCuisines,
	}
}

// Filter is a structured restaurant query. All sets are lower-cased and
// sorted. Tags are matched against a restaurant's dietary options.
type Filter struct {
	ExcludedTags     []string `json:"excluded_tags"`
	RequiredTags     []string `json:"required_tags"`
	ExcludedCuisines []string `json:"excluded_cuisines"`
	ExcludedIDs      []string `json:"excluded_ids"`
}

// Build derives the group filter:
//
//	excluded tags     = union of allergies
//	required tags     = intersection of dietary preferences
//	excluded cuisines = union of disliked cuisines
//	excluded ids      = restaurants the caller already swiped
func Build(profiles []Profile, swiped []string) Filter {
	excluded := set{}
	cuisines := set{}
	var required set

	for i, p := range profiles {
		excluded.addAll(p.Allergies)
		cuisines.addAll(p.DislikedCuisines)

		prefs := set{}
		prefs.addAll(p.DietaryPreferences)
		if i == 0 {
			required = prefs
			continue
		}
		required = required.intersect(prefs)
	}

	ids := make([]string, 0, len(swiped))
	for _, id := range swiped {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	return Filter{
		ExcludedTags:     excluded.sorted(),
		RequiredTags:     required.sorted(),
		ExcludedCuisines: cuisines.sorted(),
		ExcludedIDs:      slices.Compact(ids),
	}
}

// Matches reports whether r satisfies f.
func (f Filter) Matches(r models.Restaurant) bool {
	if slices.Contains(f.ExcludedIDs, r.ID) {
		return false
	}
	if slices.Contains(f.ExcludedCuisines, normalize(r.Cuisine)) {
		return false
	}

	options := set{}
	options.addAll(r.DietaryOptions)
	for _, tag := range f.ExcludedTags {
		if options[tag] {
			return false
		}
	}
	for _, tag := range f.RequiredTags {
		if !options[tag] {
			return false
		}
	}
	return true
}

// IsZero reports whether f places no constraint at all.
func (f Filter) IsZero() bool {
	return len(f.ExcludedTags) == 0 && len(f.RequiredTags) == 0 &&
		len(f.ExcludedCuisines) == 0 && len(f.ExcludedIDs) == 0
}

// Apply returns at most limit restaurants from list that match f, in list
// order. A limit of zero or less means no limit.
func (f Filter) Apply(list []models.Restaurant, limit int) []models.Restaurant {
	out := []models.Restaurant{}
	for _, r := range list {
		if limit > 0 && len(out) >= limit {
			break
		}
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type set map[string]bool

func (s set) addAll(values []string) {
	for _, v := range values {
		if v = normalize(v); v != "" {
			s[v] = true
		}
	}
}

func (s set) intersect(o set) set {
	out := set{}
	for v := range s {
		if o[v] {
			out[v] = true
		}
	}
	return out
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
