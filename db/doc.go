// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections, applies schema migrations, and
provides the starter restaurant catalog.

# Connections

Open supports two drivers:

	conn, err := db.Open(ctx, db.TypeSQLite, "quickly-dine.db")
	conn, err := db.Open(ctx, db.TypePostgres, "postgres://...")

SQLite paths are opened with WAL, foreign keys and a 5s busy timeout, and
the pool is limited to one connection.

# Migrations

Schema changes are embedded SQL files under migrations/ applied with
golang-migrate:

	if err := db.Migrate(db.TypeSQLite, "quickly-dine.db"); err != nil {
		log.Fatal(err)
	}

Migrate opens its own connection and is a no-op when the schema is current.
The same SQL runs on both drivers.

# Tables

  - app_user: registered and guest users with their dietary preferences
  - restaurant: the candidate catalog
  - dining_session: one versioned JSON document per group session

dining_session.version is the optimistic concurrency token. Join codes are
unique among sessions whose phase is not completed via a partial unique
index, so a code frees up once its session ends.

# Seed Data

SampleRestaurants returns ten restaurants with ids derived from their names.
Seeding the same list twice updates rows in place.
*/
package db
