package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stride-fitness/stride/internal/app/progress"
	"github.com/stride-fitness/stride/internal/app/ranking"
	"github.com/stride-fitness/stride/internal/app/social"
	"github.com/stride-fitness/stride/internal/app/xp"
	"github.com/stride-fitness/stride/internal/domain"
	"github.com/stride-fitness/stride/internal/infra/sqlite"
)

func newTestHandler(t *testing.T) (http.Handler, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.SeedCatalog(context.Background(), sqlite.DefaultCatalog); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	aggregator := xp.New()
	srv := NewServer(db, db,
		progress.New(db, db, db, db, aggregator),
		social.New(db),
		ranking.New(db, ranking.DefaultConfig()))
	return srv.Handler(), db
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func registerUser(t *testing.T, h http.Handler, id, username string) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/users", registerRequest{UserID: id, Username: username})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d: %s", id, rec.Code, rec.Body.String())
	}
}

func TestHealthAndVersion(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health = %d, want 200", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/version", nil)
	var v map[string]string
	decode(t, rec, &v)
	if v["version"] != Version {
		t.Errorf("version = %q, want %q", v["version"], Version)
	}
}

func TestRegister(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/users", registerRequest{Username: "alice"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var p domain.Profile
	decode(t, rec, &p)
	if p.UserID == "" {
		t.Error("server should generate a user id")
	}
	if p.Username != "alice" {
		t.Errorf("username = %q", p.Username)
	}

	// Same id again conflicts.
	rec = doJSON(t, h, http.MethodPost, "/api/users", registerRequest{UserID: p.UserID, Username: "alice"})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register = %d, want 409", rec.Code)
	}

	// Username is required.
	rec = doJSON(t, h, http.MethodPost, "/api/users", registerRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty register = %d, want 400", rec.Code)
	}
}

func TestGetUserNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/api/users/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestLogProgressEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	registerUser(t, h, "u1", "alice")

	rec := doJSON(t, h, http.MethodPost, "/api/users/u1/progress", logProgressRequest{
		WorkoutName: "Push-ups",
		Date:        "2026-08-29",
		Value:       30,
		Unit:        "reps",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res progress.LogResult
	decode(t, rec, &res)
	if !res.Record.Completed {
		t.Error("record should be completed")
	}
	if res.Aggregate.TotalXP != 3 {
		t.Errorf("total XP = %d, want 3", res.Aggregate.TotalXP)
	}

	// Invalid value is a 400 before any write.
	rec = doJSON(t, h, http.MethodPost, "/api/users/u1/progress", logProgressRequest{
		WorkoutName: "Push-ups",
		Value:       -1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative value = %d, want 400", rec.Code)
	}
}

func TestRemoveRecordEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	registerUser(t, h, "u1", "alice")

	rec := doJSON(t, h, http.MethodPost, "/api/users/u1/progress", logProgressRequest{
		WorkoutName: "Running", Date: "2026-08-29", Value: 5, Unit: "km",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("log: %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/users/u1/progress/Running?date=2026-08-29", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/users/u1/progress/Running?date=2026-08-29", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/users/u1/progress/Running?date=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date = %d, want 400", rec.Code)
	}
}

func TestOverviewEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	registerUser(t, h, "u1", "alice")

	rec := doJSON(t, h, http.MethodPost, "/api/users/u1/progress", logProgressRequest{
		WorkoutName: "Running", Date: "2026-08-29", Value: 5, Unit: "km",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("log: %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/users/u1/overview", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("overview = %d: %s", rec.Code, rec.Body.String())
	}
	var ov progress.Overview
	decode(t, rec, &ov)
	if ov.Aggregate.TotalXP != 50 {
		t.Errorf("total XP = %d, want 50", ov.Aggregate.TotalXP)
	}
	if ov.Level.Level != 1 {
		t.Errorf("level = %d, want 1", ov.Level.Level)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	for i, name := range []string{"alice", "bob", "carol"} {
		id := fmt.Sprintf("u%d", i+1)
		registerUser(t, h, id, name)
		rec := doJSON(t, h, http.MethodPost, "/api/users/"+id+"/progress", logProgressRequest{
			WorkoutName: "Running",
			Date:        "2026-08-29",
			Value:       float64(i + 1),
			Unit:        "km",
			TargetValue: float64(i + 1),
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("log %s: %d: %s", id, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/api/users/u1/leaderboard?dimension=global&window=overall", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard = %d: %s", rec.Code, rec.Body.String())
	}
	var lb ranking.Leaderboard
	decode(t, rec, &lb)
	if len(lb.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(lb.Entries))
	}
	if lb.Entries[0].UserID != "u3" || lb.Entries[0].XP != 30 {
		t.Errorf("top entry = %+v, want u3 with 30 XP", lb.Entries[0])
	}
	if !lb.Entries[2].IsSelf {
		t.Error("requester's own row should be marked")
	}

	rec = doJSON(t, h, http.MethodGet, "/api/users/u1/leaderboard?dimension=galactic", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown dimension = %d, want 400", rec.Code)
	}

	// No follows yet: the followers board is empty, not an error class.
	rec = doJSON(t, h, http.MethodGet, "/api/users/u1/leaderboard?dimension=followers", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("empty followers board = %d, want 404", rec.Code)
	}

	// Regional without a coordinate fix.
	rec = doJSON(t, h, http.MethodGet, "/api/users/u1/leaderboard?dimension=regional", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("regional without fix = %d, want 422", rec.Code)
	}
}

func TestFollowEndpoints(t *testing.T) {
	h, _ := newTestHandler(t)
	registerUser(t, h, "u1", "alice")
	registerUser(t, h, "u2", "bob")

	rec := doJSON(t, h, http.MethodPost, "/api/users/u1/follow/u2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("follow = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/users/u1/social", nil)
	var state domain.SocialState
	decode(t, rec, &state)
	if !state.IsFollowing("u2") {
		t.Error("u1 should follow u2")
	}

	rec = doJSON(t, h, http.MethodPost, "/api/users/u1/follow/u1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("self follow = %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/users/u1/follow/u2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unfollow = %d", rec.Code)
	}
}

func TestLocationUpdateAndRegionalBoard(t *testing.T) {
	h, _ := newTestHandler(t)
	registerUser(t, h, "u1", "alice")
	registerUser(t, h, "u2", "bob")

	london := domain.Location{Country: "United Kingdom", Continent: "Europe",
		Lat: ptr(51.5072), Long: ptr(-0.1276)}
	oxford := domain.Location{Country: "United Kingdom", Continent: "Europe",
		Lat: ptr(51.7520), Long: ptr(-1.2577)}

	for id, loc := range map[string]domain.Location{"u1": london, "u2": oxford} {
		rec := doJSON(t, h, http.MethodPut, "/api/users/"+id+"/location", loc)
		if rec.Code != http.StatusOK {
			t.Fatalf("location %s = %d: %s", id, rec.Code, rec.Body.String())
		}
		// A recompute refreshes the snapshot with the new location.
		rec = doJSON(t, h, http.MethodPost, "/api/users/"+id+"/progress", logProgressRequest{
			WorkoutName: "Running", Date: "2026-08-29", Value: 5, Unit: "km",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("log %s = %d: %s", id, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/api/users/u1/leaderboard?dimension=regional", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("regional = %d: %s", rec.Code, rec.Body.String())
	}
	var lb ranking.Leaderboard
	decode(t, rec, &lb)
	// Oxford is within 100 km of London; both users qualify.
	if len(lb.Entries) != 2 {
		t.Errorf("regional entries = %d, want 2", len(lb.Entries))
	}
}

func TestCatalogEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/api/catalog", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("catalog = %d", rec.Code)
	}
	var body struct {
		Workouts []domain.WorkoutDefinition `json:"workouts"`
	}
	decode(t, rec, &body)
	if len(body.Workouts) != len(sqlite.DefaultCatalog) {
		t.Errorf("catalog size = %d, want %d", len(body.Workouts), len(sqlite.DefaultCatalog))
	}
}

func TestEstimateEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/api/estimate?workout=Running&value=30&unit=minutes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("estimate = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Calories int `json:"calories"`
	}
	decode(t, rec, &body)
	if body.Calories != 333 {
		t.Errorf("calories = %d, want 333", body.Calories)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/estimate?value=30", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing workout = %d, want 400", rec.Code)
	}
}

func ptr(f float64) *float64 { return &f }
