// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Dine API server.

Quickly Dine helps a group decide where to eat. A host opens a session and
shares a six digit code. Everyone swipes on restaurants filtered by the
group's dietary profile until at least one restaurant is liked by all. The
group then votes yes or no on the agreed restaurants and the best score
wins.

# Starting the Server

	JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret "..."

A .env file in the working directory is loaded first; real environment
variables and flags take precedence.

# Configuration

Required settings:

  - JWT_SECRET (-jwt-secret): HS256 signing secret, at least 32 bytes

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or memory (default: sqlite)
  - DATABASE_URL (-d): DSN or sqlite path (default: quickly-dine.db)
  - SEED_CATALOG (-seed): Seed sample restaurants into an empty catalog
  - TOKEN_TTL, TOKEN_ISSUER: Token lifetime and issuer
  - CANDIDATE_PAGE_SIZE, FALLBACK_PAGE_SIZE: Swipe page sizes
  - LOG_LEVEL, LOG_FORMAT: zap level and json or console output
  - OTEL_ENDPOINT: OTLP/HTTP trace collector; empty disables tracing
  - ALLOWED_ORIGINS: Comma separated CORS and websocket origins

# Architecture

  - session: Session aggregate (phases, swipes, votes, tally)
  - candidates: Group filter and candidate selection with fallback
  - store: Memory and SQL stores with optimistic concurrency
  - lobby: Operations over the stores, with tracing and metrics
  - live: Websocket snapshot hub
  - handlers, router, middleware: HTTP surface
  - models: Request/response types
  - auth: IDs, join codes, tokens and password hashing
  - db: Drivers, migrations and the sample catalog
  - cliparse: Configuration parsing
  - telemetry: Logging, tracing and metrics

See package documentation for each component.
*/
package main
