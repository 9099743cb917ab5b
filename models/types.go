// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Spice level constants
const (
	SpiceNone   = "none"
	SpiceLow    = "low"
	SpiceMedium = "medium"
	SpiceHigh   = "high"
)

// Budget constants
const (
	BudgetLow    = "low"
	BudgetMedium = "medium"
	BudgetHigh   = "high"
	BudgetAny    = "any"
)

// Restaurant source constants
const (
	SourceManual = "manual"
	SourceGoogle = "google"
	SourceYelp   = "yelp"
)

// Request types

type GuestRequest struct {
	DisplayName string `json:"display_name"`
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdatePreferencesRequest struct {
	SpiceLevel         *string  `json:"spice_level"`
	Budget             *string  `json:"budget"`
	Allergies          []string `json:"allergies"`
	DietaryPreferences []string `json:"dietary_preferences"`
	DislikedCuisines   []string `json:"disliked_cuisines"`
}

type CreateSessionRequest struct {
	Name string `json:"name"`
}

type JoinSessionRequest struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

type SwipeRequest struct {
	RestaurantID string `json:"restaurant_id"`
	Direction    string `json:"direction"`
}

type VoteRequest struct {
	RestaurantID string `json:"restaurant_id"`
	Vote         string `json:"vote"`
}

// Response types

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
}

type JoinSessionResponse struct {
	SessionID string `json:"session_id"`
}

type StartMatchingResponse struct {
	OK    bool   `json:"ok"`
	Phase string `json:"phase"`
}

type CandidatesResponse struct {
	Restaurants []Restaurant `json:"restaurants"`
	Fallback    bool         `json:"fallback"`
}

type SwipeResponse struct {
	ConsensusReached       bool     `json:"consensus_reached"`
	ConsensusRestaurantIDs []string `json:"consensus_restaurant_ids"`
}

type VoteResponse struct {
	OK    bool   `json:"ok"`
	Phase string `json:"phase"`
}

type VoteCount struct {
	Yes      int  `json:"yes"`
	No       int  `json:"no"`
	Total    int  `json:"total"`
	AllVoted bool `json:"all_voted"`
}

type VoteStatusResponse struct {
	VoteCounts       map[string]VoteCount `json:"vote_counts"`
	UserVotes        map[string]string    `json:"user_votes"`
	Restaurants      []Restaurant         `json:"restaurants"`
	ParticipantCount int                  `json:"participant_count"`
	AllVoted         bool                 `json:"all_voted"`
}

type RestaurantResult struct {
	RestaurantID string      `json:"restaurant_id"`
	Restaurant   *Restaurant `json:"restaurant,omitempty"`
	Yes          int         `json:"yes"`
	No           int         `json:"no"`
	Total        int         `json:"total"`
	AllVoted     bool        `json:"all_voted"`
	Score        int         `json:"score"`
}

type Winner struct {
	RestaurantID string      `json:"restaurant_id"`
	Restaurant   *Restaurant `json:"restaurant,omitempty"`
	Yes          int         `json:"yes"`
	No           int         `json:"no"`
	Score        int         `json:"score"`
}

type ResultsResponse struct {
	Results          []RestaurantResult `json:"results"`
	Winner           *Winner            `json:"winner"`
	AllVoted         bool               `json:"all_voted"`
	ParticipantCount int                `json:"participant_count"`
	Phase            string             `json:"phase"`
}

// ParticipantView is a participant as seen by other members.
type ParticipantView struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	IsHost      bool      `json:"is_host"`
	IsReady     bool      `json:"is_ready"`
	JoinedAt    time.Time `json:"joined_at"`
}

// SessionView is the public projection of a session. Ledgers are not
// exposed.
type SessionView struct {
	ID                     string            `json:"id"`
	Code                   string            `json:"code"`
	Name                   string            `json:"name"`
	HostID                 string            `json:"host_id"`
	Phase                  string            `json:"phase"`
	Participants           []ParticipantView `json:"participants"`
	ConsensusRestaurantIDs []string          `json:"consensus_restaurant_ids"`
	Version                int64             `json:"version"`
	CreatedAt              time.Time         `json:"created_at"`
	CreatedAgo             string            `json:"created_ago"`
	CompletedAt            *time.Time        `json:"completed_at,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Domain types

type Location struct {
	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	Zip       string  `json:"zip,omitempty"`
	Latitude  float64 `json:"lat,omitempty"`
	Longitude float64 `json:"lng,omitempty"`
}

type Restaurant struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Cuisine        string   `json:"cuisine"`
	Description    string   `json:"description"`
	Image          string   `json:"image"`
	PriceRange     string   `json:"price_range"`
	Location       Location `json:"location"`
	Rating         float64  `json:"rating"`
	DietaryOptions []string `json:"dietary_options"`
	SpiceLevel     string   `json:"spice_level"`
	Tags           []string `json:"tags"`
	Source         string   `json:"source"`
	ExternalID     string   `json:"external_id,omitempty"`
}

type Preferences struct {
	SpiceLevel         string   `json:"spice_level"`
	Budget             string   `json:"budget"`
	Allergies          []string `json:"allergies"`
	DietaryPreferences []string `json:"dietary_preferences"`
	DislikedCuisines   []string `json:"disliked_cuisines"`
}

// DefaultPreferences returns the profile assigned to new users.
func DefaultPreferences() Preferences {
	return Preferences{
		SpiceLevel:         SpiceMedium,
		Budget:             BudgetAny,
		Allergies:          []string{},
		DietaryPreferences: []string{},
		DislikedCuisines:   []string{},
	}
}

type User struct {
	ID          string      `json:"id"`
	Username    string      `json:"username,omitempty"`
	DisplayName string      `json:"display_name"`
	Guest       bool        `json:"guest"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Snapshot is pushed to live subscribers after every committed change.
type Snapshot struct {
	Type    string      `json:"type"`
	Version int64       `json:"version"`
	Session SessionView `json:"session"`
}
