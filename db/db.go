// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeMemory   = "memory"
)

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, dbType, url string) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch dbType {
	case TypeSQLite:
		conn, err = sql.Open("sqlite", SQLiteDSN(url))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// sqlite allows one writer at a time
		conn.SetMaxOpenConns(1)
	case TypePostgres:
		conn, err = sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dbType, err)
	}
	return conn, nil
}

// SQLiteDSN turns a file path into a modernc sqlite DSN with WAL, foreign
// keys and a busy timeout. Values that already carry a query are used as is.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
}

// migrationURL converts a configured database URL into the URL form the
// migration drivers expect.
func migrationURL(dbType, url string) (string, error) {
	switch dbType {
	case TypePostgres:
		return url, nil
	case TypeSQLite:
		path := url
		if i := strings.Index(path, "?"); i >= 0 {
			path = path[:i]
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", err
		}
		return "sqlite://" + filepath.ToSlash(abs), nil
	}
	return "", fmt.Errorf("unsupported database type %q", dbType)
}
