// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-dine/models"
)

// SQLUsers stores users in app_user.
type SQLUsers struct {
	db *sql.DB
}

func NewSQLUsers(db *sql.DB) *SQLUsers {
	return &SQLUsers{db: db}
}

const userColumns = `id, username, display_name, guest, spice_level, budget,
	allergies, dietary_preferences, disliked_cuisines, created_at`

func (s *SQLUsers) CreateUser(ctx context.Context, u models.User, passwordHash string) error {
	allergies, dietary, disliked, err := encodePreferences(u.Preferences)
	if err != nil {
		return err
	}

	var username, hash sql.NullString
	if u.Username != "" {
		username = sql.NullString{String: strings.ToLower(u.Username), Valid: true}
	}
	if passwordHash != "" {
		hash = sql.NullString{String: passwordHash, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_user (id, username, display_name, password_hash, guest, spice_level, budget,
			allergies, dietary_preferences, disliked_cuisines, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, u.ID, username, u.DisplayName, hash, u.Guest, u.Preferences.SpiceLevel, u.Preferences.Budget,
		allergies, dietary, disliked, u.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLUsers) FindUser(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = $1`, id)
	u, _, err := scanUser(row, false)
	return u, err
}

func (s *SQLUsers) FindCredentials(ctx context.Context, username string) (models.User, string, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`, password_hash FROM app_user WHERE username = $1
	`, strings.ToLower(username))
	return scanUser(row, true)
}

func (s *SQLUsers) UpdatePreferences(ctx context.Context, id string, prefs models.Preferences) (models.User, error) {
	allergies, dietary, disliked, err := encodePreferences(prefs)
	if err != nil {
		return models.User{}, err
	}

	var u models.User
	err = withTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE app_user
			SET spice_level = $1, budget = $2, allergies = $3, dietary_preferences = $4, disliked_cuisines = $5
			WHERE id = $6
		`, prefs.SpiceLevel, prefs.Budget, allergies, dietary, disliked, id)
		if err != nil {
			return fmt.Errorf("update preferences: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotFound
		}

		row := tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = $1`, id)
		u, _, err = scanUser(row, false)
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *SQLUsers) Preferences(ctx context.Context, ids []string) (map[string]models.Preferences, error) {
	out := make(map[string]models.Preferences, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, spice_level, budget, allergies, dietary_preferences, disliked_cuisines
		FROM app_user WHERE id IN (`+placeholders(1, len(ids))+`)
	`, toArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                          string
			p                           models.Preferences
			allergies, dietary, disliked string
		)
		if err := rows.Scan(&id, &p.SpiceLevel, &p.Budget, &allergies, &dietary, &disliked); err != nil {
			return nil, fmt.Errorf("scan preferences: %w", err)
		}
		if err := decodePreferences(&p, allergies, dietary, disliked); err != nil {
			return nil, err
		}
		out[id] = p
	}
	return out, rows.Err()
}

func scanUser(row *sql.Row, withHash bool) (models.User, string, error) {
	var (
		u                            models.User
		username, hash               sql.NullString
		allergies, dietary, disliked string
		createdAt                    time.Time
	)
	dest := []any{&u.ID, &username, &u.DisplayName, &u.Guest, &u.Preferences.SpiceLevel, &u.Preferences.Budget,
		&allergies, &dietary, &disliked, &createdAt}
	if withHash {
		dest = append(dest, &hash)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, "", ErrNotFound
		}
		return models.User{}, "", fmt.Errorf("query user: %w", err)
	}
	if err := decodePreferences(&u.Preferences, allergies, dietary, disliked); err != nil {
		return models.User{}, "", err
	}
	u.Username = username.String
	u.CreatedAt = createdAt.UTC()
	return u, hash.String, nil
}

func encodePreferences(p models.Preferences) (allergies, dietary, disliked string, err error) {
	if allergies, err = encodeList(p.Allergies); err != nil {
		return
	}
	if dietary, err = encodeList(p.DietaryPreferences); err != nil {
		return
	}
	disliked, err = encodeList(p.DislikedCuisines)
	return
}

func decodePreferences(p *models.Preferences, allergies, dietary, disliked string) (err error) {
	if p.Allergies, err = decodeList(allergies); err != nil {
		return err
	}
	if p.DietaryPreferences, err = decodeList(dietary); err != nil {
		return err
	}
	p.DislikedCuisines, err = decodeList(disliked)
	return err
}
