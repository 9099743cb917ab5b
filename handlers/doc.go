// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Dine API.

# Handler Types

Each handler is a struct over the lobby service (or the user store) and a
zap logger:

  - UserHandler: guest identities, registration, login, profile, preferences
  - SessionHandler: create, join, view, start matching
  - VotingHandler: candidates, swipes, votes
  - ResultsHandler: vote status and final results
  - RestaurantHandler: catalog lookups
  - LiveHandler: websocket snapshot stream

Handlers are created via constructor functions:

	sessionHandler := handlers.NewSessionHandler(svc, logger)

# Identity

Handlers read the caller from the request context (middleware.UserID). An
anonymous caller reaching a session operation gets 401.

# Session Lifecycle

Sessions progress through waiting → matching → voting → completed:

	POST /sessions                     → CreateSession (returns code)
	POST /sessions/join                → JoinSession (waiting only)
	POST /sessions/{id}/start-matching → StartMatching (host, 2+ participants)
	POST /sessions/{id}/swipes         → Swipe (first consensus starts voting)
	POST /sessions/{id}/votes          → Vote (last complete ballot may finish)
	GET  /sessions/{id}/results        → Results

# Error Mapping

Session errors are mapped by kind:

	not_authenticated           → 401
	not_a_participant, not_host → 403
	wrong_phase                 → 409
	not_found                   → 404
	invalid_input, insufficient_participants → 400

A session update that keeps losing its version race returns 409. Every
other error is logged and reported as 500.
*/
package handlers
