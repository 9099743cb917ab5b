// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request IDs and Logging

Every request gets an id, echoed in the X-Request-ID header:

	r.Use(middleware.RequestID)
	r.Use(middleware.WithLogging(logger, metrics))

WithLogging writes one zap entry per request (method, path, status,
duration_ms, remote, request_id) and records latency under the chi route
pattern, so /api/sessions/{id} is one series regardless of the id.

# Authentication

Authenticate reads a bearer token from the Authorization header or the
"token" query parameter and stores the identity in the request context.
RequireAuth rejects anonymous requests:

	r.Use(middleware.Authenticate(issuer))
	r.With(middleware.RequireAuth).Post("/api/sessions", h.CreateSession)

Handlers read the caller with UserID or IdentityFrom.

# CORS Middleware

	r.Use(middleware.CORS(cfg.AllowedOrigins))

With an empty allow list the request origin is reflected. Allows methods
GET, POST, PUT, DELETE, OPTIONS with headers Content-Type, Authorization,
X-Request-ID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.SwipeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
