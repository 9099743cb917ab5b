// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists sessions, users and the restaurant catalog.

# Backends

Each interface has an in-process implementation and a database/sql one:

  - MemorySessions, MemoryUsers, MemoryCatalog
  - SQLSessions, SQLUsers, SQLCatalog (sqlite via modernc, postgres via lib/pq)

SQL queries use $N placeholders, which both drivers accept.

# Sessions

A session is stored as one JSON document with a version column. Update
loads the latest copy, applies a MutateFunc, and writes back with

	UPDATE dining_session SET ... WHERE id = $5 AND version = $6

A zero row count means another writer committed first, so the mutation is
rerun against the fresher copy. After MaxUpdateAttempts misses Update
returns ErrConflict. Errors from the MutateFunc abort without writing.

Join codes are unique among sessions that have not completed. A partial
unique index enforces this in SQL; MemorySessions keeps an active code map.

# Errors

	ErrNotFound       no such row
	ErrConflict       optimistic retries exhausted
	ErrCodeTaken      join code held by an active session
	ErrUsernameTaken  duplicate username (case-insensitive)

# List Columns

Allergies, dietary options and tags are stored as JSON arrays in TEXT
columns so the schema is portable across both drivers.
*/
package store
