// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"

	"github.com/danielhkuo/quickly-dine/candidates"
	"github.com/danielhkuo/quickly-dine/models"
	"github.com/danielhkuo/quickly-dine/session"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("concurrent modification, retries exhausted")
	ErrCodeTaken     = errors.New("join code already in use")
	ErrUsernameTaken = errors.New("username already taken")
)

// MaxUpdateAttempts bounds the optimistic retry loop in Sessions.Update.
const MaxUpdateAttempts = 16

// MutateFunc changes a private copy of a session. Returning an error
// aborts the update without writing anything.
type MutateFunc func(s *session.Session) error

// Sessions persists session aggregates.
type Sessions interface {
	// Create stores a new session at version 1. It returns ErrCodeTaken
	// when another active session holds the same code.
	Create(ctx context.Context, s *session.Session) error
	FindByID(ctx context.Context, id string) (*session.Session, error)
	// FindByCode prefers the active session holding code and otherwise
	// returns the most recent completed one.
	FindByCode(ctx context.Context, code string) (*session.Session, error)
	// Update runs fn against the latest committed state and writes the
	// result only if no other write landed in between, retrying up to
	// MaxUpdateAttempts times. It returns the committed session.
	Update(ctx context.Context, id string, fn MutateFunc) (*session.Session, error)
}

// Users persists identities and their preference profiles.
type Users interface {
	// CreateUser returns ErrUsernameTaken on a duplicate username.
	CreateUser(ctx context.Context, u models.User, passwordHash string) error
	FindUser(ctx context.Context, id string) (models.User, error)
	// FindCredentials returns the user and password hash for a username.
	FindCredentials(ctx context.Context, username string) (models.User, string, error)
	UpdatePreferences(ctx context.Context, id string, prefs models.Preferences) (models.User, error)
	// Preferences returns the stored profile for each known id. Unknown
	// ids are omitted.
	Preferences(ctx context.Context, ids []string) (map[string]models.Preferences, error)
}

// Catalog is the restaurant catalog. It is the candidate source for the
// matching phase.
type Catalog interface {
	candidates.Source
	FindRestaurant(ctx context.Context, id string) (models.Restaurant, error)
	FindRestaurants(ctx context.Context, ids []string) (map[string]models.Restaurant, error)
	UpsertRestaurants(ctx context.Context, list []models.Restaurant) error
	CountRestaurants(ctx context.Context) (int, error)
}

// nextVersion prepares a mutated copy for writing.
func nextVersion(s *session.Session) {
	s.Version++
}
