// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-dine/auth"
	"github.com/danielhkuo/quickly-dine/cliparse"
	"github.com/danielhkuo/quickly-dine/db"
	"github.com/danielhkuo/quickly-dine/models"
	"github.com/danielhkuo/quickly-dine/store"
)

// TestSecret signs every token minted in tests.
const TestSecret = "test-secret-test-secret-test-secret!"

// SetupTestDB creates a migrated sqlite database in a temp dir. It is
// closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, db.Migrate(db.TypeSQLite, path), "Failed to migrate test database")

	conn, err := db.Open(context.Background(), db.TypeSQLite, path)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3318,
		DatabaseURL:       "memory",
		DatabaseType:      db.TypeMemory,
		JWTSecret:         TestSecret,
		TokenTTL:          time.Hour,
		TokenIssuer:       "quickly-dine-test",
		CandidatePageSize: 20,
		FallbackPageSize:  10,
		LogLevel:          "debug",
		LogFormat:         "console",
	}
}

// NewTestIssuer returns a token issuer matching GetTestConfig.
func NewTestIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()

	cfg := GetTestConfig()
	issuer, err := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenIssuer, cfg.TokenTTL)
	require.NoError(t, err)
	return issuer
}

// CreateTestUser stores a guest user and returns it.
func CreateTestUser(t *testing.T, users store.Users, displayName string) models.User {
	t.Helper()

	id, err := auth.GenerateID(16)
	require.NoError(t, err)

	u := models.User{
		ID:          id,
		DisplayName: displayName,
		Guest:       true,
		Preferences: models.DefaultPreferences(),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, users.CreateUser(context.Background(), u, ""), "Failed to create test user")
	return u
}

// TokenFor mints a bearer token for a user.
func TokenFor(t *testing.T, issuer *auth.TokenIssuer, u models.User) string {
	t.Helper()

	token, _, err := issuer.Issue(u.ID, u.Guest)
	require.NoError(t, err)
	return token
}

// AuthHeader returns the header map for an authenticated request.
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest builds a test request, JSON encoding body when it is non-nil.
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var rdr io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// AssertStatus fails the test unless w carries the expected status. The
// body is included in the failure message.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, w.Code, "body: %s", w.Body.String())
}

// AssertJSON decodes the response body into v.
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v), "decode response body")
}
