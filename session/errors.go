// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "errors"

// Kind classifies a failed session operation.
type Kind string

const (
	KindNotAuthenticated         Kind = "not_authenticated"
	KindNotAParticipant          Kind = "not_a_participant"
	KindNotHost                  Kind = "not_host"
	KindWrongPhase               Kind = "wrong_phase"
	KindNotFound                 Kind = "not_found"
	KindInvalidInput             Kind = "invalid_input"
	KindInsufficientParticipants Kind = "insufficient_participants"
)

// Error is returned by every rejected session operation. A rejected
// operation never mutates the session.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is checks. Match by kind only.
var (
	ErrNotAuthenticated         = &Error{Kind: KindNotAuthenticated}
	ErrNotAParticipant          = &Error{Kind: KindNotAParticipant}
	ErrNotHost                  = &Error{Kind: KindNotHost}
	ErrWrongPhase               = &Error{Kind: KindWrongPhase}
	ErrNotFound                 = &Error{Kind: KindNotFound}
	ErrInvalidInput             = &Error{Kind: KindInvalidInput}
	ErrInsufficientParticipants = &Error{Kind: KindInsufficientParticipants}
)

// NewError creates an error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates an error of the given kind that wraps cause.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of err, or "" when err is not a session error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

func notAParticipant(action string) *Error {
	return NewError(KindNotAParticipant, "You must be a participant to "+action)
}

func wrongPhase(want Phase) *Error {
	return NewError(KindWrongPhase, "Session is not in "+string(want)+" phase")
}

func invalidInput(message string) *Error {
	return NewError(KindInvalidInput, message)
}
