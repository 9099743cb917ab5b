// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and shared domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - GuestRequest: display_name
  - RegisterRequest: username, password, display_name
  - LoginRequest: username, password
  - UpdatePreferencesRequest: spice_level, budget, allergies, dietary_preferences, disliked_cuisines
  - CreateSessionRequest: name
  - JoinSessionRequest: code, display_name
  - SwipeRequest: restaurant_id, direction
  - VoteRequest: restaurant_id, vote

# Response Types

Types for JSON responses:

  - AuthResponse: token, expires_at, user
  - CreateSessionResponse: session_id, code
  - JoinSessionResponse: session_id
  - SessionView: participants, phase, consensus_restaurant_ids
  - CandidatesResponse: restaurants, fallback
  - SwipeResponse: consensus_reached, consensus_restaurant_ids
  - VoteResponse, VoteStatusResponse, ResultsResponse
  - ErrorResponse: error, message

# Domain Types

  - Restaurant: catalog entry with dietary options and tags
  - Preferences: a user's dietary profile
  - User: registered or guest identity
  - Snapshot: live update frame

# Constants

Spice levels:

	SpiceNone, SpiceLow, SpiceMedium, SpiceHigh

Budgets:

	BudgetLow, BudgetMedium, BudgetHigh, BudgetAny

Restaurant sources:

	SourceManual, SourceGoogle, SourceYelp
*/
package models
