// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// TxOption adjusts the options of a transaction started by withTx.
type TxOption func(*sql.TxOptions)

// WithIsolationLevel sets the transaction isolation level.
func WithIsolationLevel(level sql.IsolationLevel) TxOption {
	return func(opts *sql.TxOptions) {
		opts.Isolation = level
	}
}

// withTx runs fn in a transaction, committing on success and rolling back
// on error or panic.
func withTx(ctx context.Context, db *sql.DB, fn func(context.Context, *sql.Tx) error, opts ...TxOption) (err error) {
	options := sql.TxOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	tx, err := db.BeginTx(ctx, &options)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = pkgerrors.Wrapf(rollbackErr, "transaction panicked with: %v", r)
				return
			}
			err = fmt.Errorf("transaction panicked with: %v", r)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return pkgerrors.Wrap(err, rollbackErr.Error())
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return pkgerrors.Wrap(err, "commit transaction")
	}
	return nil
}

// isUniqueViolation reports whether err is a unique constraint failure on
// either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Set-valued columns are stored as JSON arrays in TEXT columns so the same
// schema works on both drivers.

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode list column: %w", err)
	}
	return out, nil
}

// placeholders returns "$start, $start+1, ..." for n values.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
