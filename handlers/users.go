// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/auth"
	"github.com/danielhkuo/quickly-dine/middleware"
	"github.com/danielhkuo/quickly-dine/models"
	"github.com/danielhkuo/quickly-dine/store"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
)

type UserHandler struct {
	users  store.Users
	issuer *auth.TokenIssuer
	hasher *auth.Hasher
	logger *zap.Logger
}

func NewUserHandler(users store.Users, issuer *auth.TokenIssuer, hasher *auth.Hasher, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, issuer: issuer, hasher: hasher, logger: logger}
}

// Guest handles POST /auth/guest
// Creates a passwordless identity for someone joining without an account
func (h *UserHandler) Guest(w http.ResponseWriter, r *http.Request) {
	var req models.GuestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := auth.CleanDisplayName(req.DisplayName, "")
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name is required")
		return
	}

	user := models.User{
		ID:          uuid.NewString(),
		DisplayName: name,
		Guest:       true,
		Preferences: models.DefaultPreferences(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.users.CreateUser(r.Context(), user, ""); err != nil {
		h.logger.Error("failed to create guest", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create guest")
		return
	}

	h.logger.Info("guest created", zap.String("user_id", user.ID))
	h.respondWithToken(w, http.StatusCreated, user)
}

// Register handles POST /auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username must be 3-32 characters")
		return
	}
	if strings.ContainsAny(username, " \t\n") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username must not contain whitespace")
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	user := models.User{
		ID:          uuid.NewString(),
		Username:    username,
		DisplayName: auth.CleanDisplayName(req.DisplayName, username),
		Preferences: models.DefaultPreferences(),
		CreatedAt:   time.Now().UTC(),
	}
	err = h.users.CreateUser(r.Context(), user, hash)
	if errors.Is(err, store.ErrUsernameTaken) {
		middleware.ErrorResponse(w, http.StatusConflict, "Username already taken")
		return
	}
	if err != nil {
		h.logger.Error("failed to create user", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	h.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", username))
	h.respondWithToken(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, hash, err := h.users.FindCredentials(r.Context(), strings.TrimSpace(req.Username))
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		h.logger.Error("failed to load credentials", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err := h.hasher.Compare(hash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

// Me handles GET /me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindUser(r.Context(), middleware.UserID(r.Context()))
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unknown user")
		return
	}
	if err != nil {
		h.logger.Error("failed to load user", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}

// UpdatePreferences handles PUT /me/preferences
// Omitted fields keep their stored value
func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePreferencesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	userID := middleware.UserID(r.Context())
	user, err := h.users.FindUser(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unknown user")
		return
	}
	if err != nil {
		h.logger.Error("failed to load user", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	prefs, msg := mergePreferences(user.Preferences, req)
	if msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	user, err = h.users.UpdatePreferences(r.Context(), userID, prefs)
	if err != nil {
		h.logger.Error("failed to update preferences", zap.String("user_id", userID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	h.logger.Info("preferences updated", zap.String("user_id", userID))
	middleware.JSONResponse(w, http.StatusOK, user)
}

func (h *UserHandler) respondWithToken(w http.ResponseWriter, status int, user models.User) {
	token, expiresAt, err := h.issuer.Issue(user.ID, user.Guest)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	middleware.JSONResponse(w, status, models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// mergePreferences applies req on top of cur. It returns a client-facing
// message when a value is invalid.
func mergePreferences(cur models.Preferences, req models.UpdatePreferencesRequest) (models.Preferences, string) {
	out := cur
	if req.SpiceLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*req.SpiceLevel))
		if !isValidSpiceLevel(level) {
			return cur, "spice_level must be one of: none, low, medium, high"
		}
		out.SpiceLevel = level
	}
	if req.Budget != nil {
		budget := strings.ToLower(strings.TrimSpace(*req.Budget))
		if !isValidBudget(budget) {
			return cur, "budget must be one of: low, medium, high, any"
		}
		out.Budget = budget
	}
	if req.Allergies != nil {
		out.Allergies = cleanList(req.Allergies)
	}
	if req.DietaryPreferences != nil {
		out.DietaryPreferences = cleanList(req.DietaryPreferences)
	}
	if req.DislikedCuisines != nil {
		out.DislikedCuisines = cleanList(req.DislikedCuisines)
	}
	return out, ""
}

func isValidSpiceLevel(level string) bool {
	switch level {
	case models.SpiceNone, models.SpiceLow, models.SpiceMedium, models.SpiceHigh:
		return true
	}
	return false
}

func isValidBudget(budget string) bool {
	switch budget {
	case models.BudgetLow, models.BudgetMedium, models.BudgetHigh, models.BudgetAny:
		return true
	}
	return false
}

// cleanList trims, lower-cases and de-duplicates values, keeping first
// occurrence order.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
