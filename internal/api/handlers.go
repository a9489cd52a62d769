package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stride-fitness/stride/internal/app/energy"
	"github.com/stride-fitness/stride/internal/app/progress"
	"github.com/stride-fitness/stride/internal/app/ranking"
	"github.com/stride-fitness/stride/internal/domain"
)

// ─── Users ──────────────────────────────────────────────────────────────────

type registerRequest struct {
	UserID   string  `json:"user_id,omitempty"`
	Username string  `json:"username"`
	Theme    string  `json:"theme,omitempty"`
	WeightKg float64 `json:"weight_kg,omitempty"`
}

// handleRegister creates a new profile. A client-supplied id is honored;
// otherwise one is generated.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	if req.UserID == "" {
		req.UserID = uuid.NewString()
	}

	p := domain.Profile{
		UserID:   req.UserID,
		Username: req.Username,
		Theme:    req.Theme,
		WeightKg: req.WeightKg,
		Aggregate: domain.AggregateXP{
			Daily: make(map[domain.Date]int64),
		},
		Social: domain.SocialState{
			Followers: []string{},
			Following: []string{},
		},
	}
	if err := s.profiles.CreateProfile(r.Context(), p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type userResponse struct {
	Profile domain.Profile   `json:"profile"`
	Level   domain.LevelInfo `json:"level"`
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.GetProfile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{
		Profile: *p,
		Level:   domain.LevelOf(p.Aggregate.TotalXP),
	})
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	var loc domain.Location
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	userID := chi.URLParam(r, "userID")
	if err := s.profiles.SaveLocation(r.Context(), userID, loc); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ─── Progress ───────────────────────────────────────────────────────────────

type logProgressRequest struct {
	WorkoutName  string      `json:"workout_name"`
	Date         domain.Date `json:"date,omitempty"`
	Value        float64     `json:"value"`
	Unit         string      `json:"unit,omitempty"`
	Intensity    string      `json:"intensity,omitempty"`
	IsAdditional bool        `json:"is_additional,omitempty"`
	TargetValue  float64     `json:"target_value,omitempty"`
}

func (s *Server) handleLogProgress(w http.ResponseWriter, r *http.Request) {
	var req logProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	res, err := s.progress.LogProgress(r.Context(), progress.LogInput{
		UserID:       chi.URLParam(r, "userID"),
		WorkoutName:  req.WorkoutName,
		Date:         req.Date,
		Value:        req.Value,
		Unit:         req.Unit,
		Intensity:    req.Intensity,
		IsAdditional: req.IsAdditional,
		TargetValue:  req.TargetValue,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRemoveRecord(w http.ResponseWriter, r *http.Request) {
	date := domain.Date(r.URL.Query().Get("date"))
	if !date.Valid() {
		writeError(w, http.StatusBadRequest, "date query parameter must be YYYY-MM-DD")
		return
	}
	agg, err := s.progress.RemoveRecord(r.Context(),
		chi.URLParam(r, "userID"), chi.URLParam(r, "workout"), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"aggregate": agg,
		"level":     domain.LevelOf(agg.TotalXP),
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.progress.GetOverview(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

// ─── Leaderboard ────────────────────────────────────────────────────────────

// handleLeaderboard builds a leaderboard view for the requesting user.
// Query parameters: dimension, window, place.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	dim, err := ranking.ParseDimension(r.URL.Query().Get("dimension"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	win, err := ranking.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	userID := chi.URLParam(r, "userID")
	p, err := s.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	lb, err := s.ranking.Build(r.Context(), ranking.Request{
		UserID:    userID,
		Dimension: dim,
		Window:    win,
		Place:     r.URL.Query().Get("place"),
		Location:  p.Location,
		Following: p.Social,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// ─── Social ─────────────────────────────────────────────────────────────────

func (s *Server) handleSocial(w http.ResponseWriter, r *http.Request) {
	state, err := s.social.State(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	err := s.social.Follow(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "targetID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "following"})
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	err := s.social.Unfollow(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "targetID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "not_following"})
}

// ─── Catalog & Estimation ───────────────────────────────────────────────────

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	defs, err := s.catalog.ListCatalog(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"workouts": defs})
}

// handleEstimate returns the advisory calorie figure for a prospective log.
// Query parameters: workout, value, unit, intensity, weight_kg.
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	workout := q.Get("workout")
	if workout == "" {
		writeError(w, http.StatusBadRequest, "workout query parameter is required")
		return
	}
	value, err := strconv.ParseFloat(q.Get("value"), 64)
	if err != nil || value < 0 {
		writeError(w, http.StatusBadRequest, "value must be a non-negative number")
		return
	}
	weight, _ := strconv.ParseFloat(q.Get("weight_kg"), 64)

	calories := energy.EstimateCalories(workout, value, q.Get("unit"), q.Get("intensity"), weight)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workout":  workout,
		"calories": calories,
	})
}
