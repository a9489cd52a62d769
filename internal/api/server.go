// Package api provides the HTTP server for Stride.
// It exposes the progress, leaderboard, social and catalog endpoints consumed
// by the app clients.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stride-fitness/stride/internal/app/progress"
	"github.com/stride-fitness/stride/internal/app/ranking"
	"github.com/stride-fitness/stride/internal/app/social"
	"github.com/stride-fitness/stride/internal/domain"
)

// Version is the API version reported by /api/version.
const Version = "0.1.0"

// Server is the Stride HTTP API server.
type Server struct {
	profiles       domain.ProfileStore
	catalog        domain.CatalogStore
	progress       *progress.Service
	social         *social.Service
	ranking        *ranking.Engine
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(profiles domain.ProfileStore, catalog domain.CatalogStore, prog *progress.Service, soc *social.Service, rank *ranking.Engine) *Server {
	return &Server{
		profiles: profiles,
		catalog:  catalog,
		progress: prog,
		social:   soc,
		ranking:  rank,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleRegister)
		r.Get("/catalog", s.handleCatalog)
		r.Get("/estimate", s.handleEstimate)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", s.handleGetUser)
			r.Put("/location", s.handleUpdateLocation)
			r.Get("/overview", s.handleOverview)

			r.Post("/progress", s.handleLogProgress)
			r.Delete("/progress/{workout}", s.handleRemoveRecord)

			r.Get("/leaderboard", s.handleLeaderboard)

			r.Get("/social", s.handleSocial)
			r.Post("/follow/{targetID}", s.handleFollow)
			r.Delete("/follow/{targetID}", s.handleUnfollow)
		})
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err),
		errors.Is(err, domain.ErrSelfFollow),
		errors.Is(err, domain.ErrUnknownDimension),
		errors.Is(err, domain.ErrUnknownWindow):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrWorkoutNotFound),
		errors.Is(err, domain.ErrNoUsersFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUserExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrLocationUnavailable):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for the app clients.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
