// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/auth"
	"github.com/danielhkuo/quickly-dine/cliparse"
	"github.com/danielhkuo/quickly-dine/handlers"
	"github.com/danielhkuo/quickly-dine/live"
	"github.com/danielhkuo/quickly-dine/lobby"
	"github.com/danielhkuo/quickly-dine/middleware"
	"github.com/danielhkuo/quickly-dine/store"
	"github.com/danielhkuo/quickly-dine/telemetry"
)

// Deps are the collaborators the routes are served from.
type Deps struct {
	Config  cliparse.Config
	Service *lobby.Service
	Users   store.Users
	Issuer  *auth.TokenIssuer
	Hasher  *auth.Hasher
	Hub     *live.Hub
	Metrics *telemetry.Metrics
	Logger  *zap.Logger
}

func NewRouter(d Deps) *chi.Mux {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithLogging(logger, d.Metrics))
	r.Use(middleware.CORS(d.Config.AllowedOrigins))
	r.Use(middleware.Authenticate(d.Issuer))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(d.Users, d.Issuer, d.Hasher, logger)
	sessionHandler := handlers.NewSessionHandler(d.Service, logger)
	votingHandler := handlers.NewVotingHandler(d.Service, logger)
	resultsHandler := handlers.NewResultsHandler(d.Service, logger)
	restaurantHandler := handlers.NewRestaurantHandler(d.Service, logger)
	liveHandler := handlers.NewLiveHandler(d.Service, d.Hub, d.Config.AllowedOrigins, logger)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	// Identity (public)
	r.Post("/auth/guest", userHandler.Guest)
	r.Post("/auth/register", userHandler.Register)
	r.Post("/auth/login", userHandler.Login)

	// Catalog (public)
	r.Get("/restaurants/{id}", restaurantHandler.GetRestaurant)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/me", userHandler.Me)
		r.Put("/me/preferences", userHandler.UpdatePreferences)

		// Session lifecycle
		r.Post("/sessions", sessionHandler.CreateSession)
		r.Post("/sessions/join", sessionHandler.JoinSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Post("/start-matching", sessionHandler.StartMatching)

			// Matching and voting
			r.Get("/candidates", votingHandler.Candidates)
			r.Post("/swipes", votingHandler.Swipe)
			r.Post("/votes", votingHandler.Vote)
			r.Get("/votes", resultsHandler.VoteStatus)
			r.Get("/results", resultsHandler.Results)

			// Live snapshots
			r.Get("/live", liveHandler.Stream)
		})
	})

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-dine API v1"))
	})

	return r
}
