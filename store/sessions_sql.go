// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-dine/session"
)

// SQLSessions stores each session as a JSON document next to the columns
// that need indexing. version is the compare-and-swap token.
type SQLSessions struct {
	db *sql.DB
}

func NewSQLSessions(db *sql.DB) *SQLSessions {
	return &SQLSessions{db: db}
}

func (s *SQLSessions) Create(ctx context.Context, sess *session.Session) error {
	if sess.Version == 0 {
		sess.Version = 1
	}
	doc, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO dining_session (id, code, phase, host_id, version, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sess.ID, sess.Code, string(sess.Phase), sess.HostID, sess.Version, string(doc), sess.CreatedAt.UTC(), sess.UpdatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCodeTaken
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLSessions) FindByID(ctx context.Context, id string) (*session.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT version, document FROM dining_session WHERE id = $1
	`, id)
	return scanSession(row)
}

func (s *SQLSessions) FindByCode(ctx context.Context, code string) (*session.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT version, document FROM dining_session
		WHERE code = $1
		ORDER BY CASE WHEN phase = 'completed' THEN 1 ELSE 0 END, created_at DESC
		LIMIT 1
	`, code)
	return scanSession(row)
}

func (s *SQLSessions) Update(ctx context.Context, id string, fn MutateFunc) (*session.Session, error) {
	for attempt := 0; attempt < MaxUpdateAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		loaded, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		loadedVersion := loaded.Version
		if err := fn(loaded); err != nil {
			return nil, err
		}

		ok, err := s.compareAndSwap(ctx, loaded, loadedVersion)
		if err != nil {
			return nil, err
		}
		if ok {
			return loaded, nil
		}
	}
	return nil, ErrConflict
}

// compareAndSwap writes next only if the row is still at version expected.
func (s *SQLSessions) compareAndSwap(ctx context.Context, next *session.Session, expected int64) (bool, error) {
	next.Version = expected
	nextVersion(next)
	doc, err := json.Marshal(next)
	if err != nil {
		return false, fmt.Errorf("encode session: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE dining_session
		SET phase = $1, version = $2, document = $3, updated_at = $4
		WHERE id = $5 AND version = $6
	`, string(next.Phase), next.Version, string(doc), next.UpdatedAt.UTC(), next.ID, expected)
	if err != nil {
		return false, fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update session: %w", err)
	}
	return n == 1, nil
}

func scanSession(row *sql.Row) (*session.Session, error) {
	var (
		version int64
		doc     string
	)
	if err := row.Scan(&version, &doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.Version = version
	return &s, nil
}
