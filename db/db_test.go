// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, Migrate(TypeSQLite, path))
	require.NoError(t, Migrate(TypeSQLite, path), "second run must be a no-op")

	conn, err := Open(context.Background(), TypeSQLite, path)
	require.NoError(t, err)
	defer conn.Close()

	for _, table := range []string{"app_user", "restaurant", "dining_session"} {
		var n int
		err := conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s should exist", table)
	}
}

func TestMigrate_ActiveCodeIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	require.NoError(t, Migrate(TypeSQLite, path))

	conn, err := Open(context.Background(), TypeSQLite, path)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(`INSERT INTO app_user (id, display_name, created_at) VALUES ('u1', 'Host', CURRENT_TIMESTAMP)`)
	require.NoError(t, err)

	insert := `INSERT INTO dining_session (id, code, phase, host_id, version, document, created_at, updated_at)
		VALUES ($1, '123456', $2, 'u1', 1, '{}', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err = conn.Exec(insert, "a", "completed")
	require.NoError(t, err)
	_, err = conn.Exec(insert, "b", "waiting")
	require.NoError(t, err, "completed sessions must not hold their code")
	_, err = conn.Exec(insert, "c", "matching")
	assert.Error(t, err, "two active sessions cannot share a code")
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := Open(context.Background(), "mongo", "x")
	assert.Error(t, err)

	assert.Error(t, Migrate(TypeMemory, "x"))
}

func TestSQLiteDSN(t *testing.T) {
	dsn := SQLiteDSN("data.db")
	assert.True(t, strings.HasPrefix(dsn, "data.db?"))
	assert.Contains(t, dsn, "foreign_keys(1)")
	assert.Contains(t, dsn, "journal_mode(WAL)")

	custom := "data.db?_pragma=foreign_keys(0)"
	assert.Equal(t, custom, SQLiteDSN(custom))
}

func TestMigrationURL(t *testing.T) {
	url, err := migrationURL(TypePostgres, "postgres://u@h/db")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u@h/db", url)

	url, err = migrationURL(TypeSQLite, "data.db?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "sqlite://"))
	assert.True(t, strings.HasSuffix(url, "/data.db"))
}

func TestSampleRestaurants(t *testing.T) {
	list := SampleRestaurants()
	require.NotEmpty(t, list)

	seen := map[string]bool{}
	for _, r := range list {
		assert.NotEmpty(t, r.ID)
		assert.False(t, seen[r.ID], "duplicate id for %s", r.Name)
		seen[r.ID] = true
		assert.Equal(t, RestaurantID(r.Name), r.ID, "ids must be stable across calls")
		assert.NotNil(t, r.DietaryOptions)
	}

	again := SampleRestaurants()
	assert.Equal(t, list, again)
}
