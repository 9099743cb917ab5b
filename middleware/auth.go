// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-dine/auth"
)

type contextKey int

const (
	identityKey contextKey = iota
	requestIDKey
)

// TokenValidator resolves a bearer token. *auth.TokenIssuer satisfies it.
type TokenValidator interface {
	Validate(token string) (auth.Identity, error)
}

// Authenticate resolves the caller from "Authorization: Bearer <token>" or,
// for websocket clients that cannot set headers, a "token" query
// parameter. Requests without a token pass through anonymously; a token
// that fails validation is rejected.
func Authenticate(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := v.Validate(token)
			if err != nil {
				ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuth rejects requests that Authenticate left anonymous.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserID(r.Context()) == "" {
			ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// WithIdentity stores the caller identity in ctx.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the caller identity, if any.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok && id.UserID != ""
}

// UserID returns the caller's user id or "" for anonymous requests.
func UserID(ctx context.Context) string {
	id, _ := IdentityFrom(ctx)
	return id.UserID
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
