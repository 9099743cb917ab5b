// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

main loads a .env file with godotenv before calling ParseFlags, so values
resolve in this order: flag, environment, .env, default.

# CLI Flags

	-p            Server port
	-d            Database URL or sqlite file path
	-t            Database type (sqlite, postgres, memory)
	-seed         Seed the restaurant catalog when empty
	-jwt-secret   Token signing secret

# Environment Variables

	PORT                 default 3318
	DATABASE_URL         default quickly-dine.db
	DATABASE_TYPE        default sqlite
	JWT_SECRET           required
	TOKEN_TTL            default 720h
	TOKEN_ISSUER         default quickly-dine
	CANDIDATE_PAGE_SIZE  default 20
	FALLBACK_PAGE_SIZE   default 10
	SEED_CATALOG         default true
	LOG_LEVEL            default info
	LOG_FORMAT           json or console
	OTEL_ENDPOINT        OTLP/HTTP collector; tracing is off when empty
	ALLOWED_ORIGINS      comma separated CORS origins

# Validation

ParseFlags returns an error if JWT_SECRET is missing, the port is out of
range, the database type is unknown, or a sqlite/postgres type has no URL.
*/
package cliparse
