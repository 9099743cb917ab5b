// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Dine API.

# Route Registration

NewRouter creates a configured chi.Mux with all endpoints:

	mux := router.NewRouter(router.Deps{Config: cfg, Service: svc, ...})

Every request passes through request-id, panic recovery, zap logging,
CORS and token resolution, in that order.

# Endpoints

Operational:

	GET /health  - Liveness
	GET /metrics - Prometheus metrics
	GET /        - Banner

Identity (public):

	POST /auth/guest    - Passwordless identity
	POST /auth/register - Username and password account
	POST /auth/login    - Exchange credentials for a token

Profile (authenticated):

	GET /me              - Current user
	PUT /me/preferences  - Update dietary profile

Sessions (authenticated):

	POST /sessions                     - Create session
	POST /sessions/join                - Join by code
	GET  /sessions/{id}                - Session view
	POST /sessions/{id}/start-matching - Host starts matching
	GET  /sessions/{id}/candidates     - Next swipe cards
	POST /sessions/{id}/swipes         - Record swipe
	POST /sessions/{id}/votes          - Record vote
	GET  /sessions/{id}/votes          - Vote status
	GET  /sessions/{id}/results        - Ranked results
	GET  /sessions/{id}/live           - Websocket snapshots

Catalog (public):

	GET /restaurants/{id} - Restaurant detail
*/
package router
