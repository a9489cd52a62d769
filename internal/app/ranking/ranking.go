// Package ranking builds multi-dimensional leaderboard views from
// denormalized ranking snapshots.
//
// A build is read-only and eventually consistent: it reflects whichever
// snapshots were most recently persisted, with no staleness bound. Candidates
// are always ordered by total XP regardless of the requested time window; the
// windowed field only selects the displayed value. That asymmetry is observed
// product behavior and is preserved deliberately.
package ranking

import (
	"context"
	"fmt"
	"strings"

	"github.com/stride-fitness/stride/internal/domain"
	"github.com/stride-fitness/stride/internal/infra/dsa"
	"github.com/stride-fitness/stride/internal/infra/geo"
	"github.com/stride-fitness/stride/internal/infra/observability"
)

// ─── Dimensions & Windows ───────────────────────────────────────────────────

// Dimension is the population scope of a leaderboard.
type Dimension string

const (
	DimensionGlobal      Dimension = "global"
	DimensionContinental Dimension = "continental"
	DimensionCountry     Dimension = "country"
	DimensionRegional    Dimension = "regional"
	DimensionFollowers   Dimension = "followers"
)

// ParseDimension resolves a dimension name, case-insensitively.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(strings.ToLower(strings.TrimSpace(s))) {
	case DimensionGlobal, "":
		return DimensionGlobal, nil
	case DimensionContinental:
		return DimensionContinental, nil
	case DimensionCountry:
		return DimensionCountry, nil
	case DimensionRegional:
		return DimensionRegional, nil
	case DimensionFollowers:
		return DimensionFollowers, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownDimension, s)
}

// Window selects the XP field a leaderboard displays.
type Window string

const (
	WindowOverall Window = "overall"
	WindowMonthly Window = "monthly"
	WindowWeekly  Window = "weekly"
	WindowDaily   Window = "daily"
)

// ParseWindow resolves a window name, case-insensitively.
func ParseWindow(s string) (Window, error) {
	switch Window(strings.ToLower(strings.TrimSpace(s))) {
	case WindowOverall, "":
		return WindowOverall, nil
	case WindowMonthly:
		return WindowMonthly, nil
	case WindowWeekly:
		return WindowWeekly, nil
	case WindowDaily:
		return WindowDaily, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownWindow, s)
}

// displayXP picks the windowed field off a snapshot.
func displayXP(s domain.RankingSnapshot, w Window) int64 {
	switch w {
	case WindowMonthly:
		return s.MonthlyXP
	case WindowWeekly:
		return s.WeeklyXP
	case WindowDaily:
		return s.DailyXP
	default:
		return s.TotalXP
	}
}

// ─── Engine ─────────────────────────────────────────────────────────────────

// Config controls leaderboard construction.
type Config struct {
	CandidateLimit   int     // Max candidates kept before post-filtering (default 100)
	RegionalRadiusKm float64 // Haversine cutoff for the regional dimension (default 100)
}

// DefaultConfig returns the production leaderboard policy.
func DefaultConfig() Config {
	return Config{
		CandidateLimit:   100,
		RegionalRadiusKm: 100,
	}
}

// Engine builds leaderboard views from the snapshot store.
type Engine struct {
	snapshots domain.SnapshotStore
	config    Config
}

// New creates a ranking engine.
func New(snapshots domain.SnapshotStore, cfg Config) *Engine {
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = DefaultConfig().CandidateLimit
	}
	if cfg.RegionalRadiusKm <= 0 {
		cfg.RegionalRadiusKm = DefaultConfig().RegionalRadiusKm
	}
	return &Engine{snapshots: snapshots, config: cfg}
}

// Request describes one leaderboard build.
type Request struct {
	UserID    string
	Dimension Dimension
	Window    Window

	// Place overrides the requester's own continent/country for the
	// continental and country dimensions. Empty falls back to the
	// requester's resolved location.
	Place string

	Location  domain.Location    // Requester's location (regional, continental, country)
	Following domain.SocialState // Requester's follow graph (followers dimension)
}

// Entry is one ranked row in a leaderboard view.
type Entry struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Theme      string `json:"theme,omitempty"`
	XP         int64  `json:"xp"`
	IsFollowed bool   `json:"is_followed"`
	IsSelf     bool   `json:"is_self"`
}

// Leaderboard is a complete build result.
type Leaderboard struct {
	Dimension Dimension `json:"dimension"`
	Window    Window    `json:"window"`
	Entries   []Entry   `json:"entries"`
}

// Build constructs a leaderboard view.
//
// Candidate selection filters by dimension, the best CandidateLimit
// candidates are kept ordered by total XP descending (ties broken by
// ascending user id), the regional dimension then drops candidates beyond
// the haversine radius, and dense ranks are assigned to whatever survives.
func (e *Engine) Build(ctx context.Context, req Request) (*Leaderboard, error) {
	observability.LeaderboardBuilds.WithLabelValues(string(req.Dimension)).Inc()

	candidates, err := e.selectCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	// Keep the top candidates by the fixed sort key. The cap applies before
	// the regional distance filter: filtering re-ranks only the survivors.
	sel := dsa.NewTopN(e.config.CandidateLimit, betterCandidate)
	for _, snap := range candidates {
		sel.Push(snap)
	}
	ranked := sel.Sorted()

	if req.Dimension == DimensionRegional {
		ranked = e.filterByDistance(ranked, req.Location)
	}

	if len(ranked) == 0 {
		observability.LeaderboardEmpty.WithLabelValues(string(req.Dimension)).Inc()
		return nil, domain.ErrNoUsersFound
	}

	following := req.Following.FollowingSet()
	entries := make([]Entry, 0, len(ranked))
	for i, snap := range ranked {
		entries = append(entries, Entry{
			Rank:       i + 1,
			UserID:     snap.UserID,
			Username:   snap.Username,
			Theme:      snap.Theme,
			XP:         displayXP(snap, req.Window),
			IsFollowed: following[snap.UserID],
			IsSelf:     snap.UserID == req.UserID,
		})
	}

	return &Leaderboard{
		Dimension: req.Dimension,
		Window:    req.Window,
		Entries:   entries,
	}, nil
}

// betterCandidate is the fixed leaderboard ordering: total XP descending,
// ties by ascending user id for determinism.
func betterCandidate(a, b domain.RankingSnapshot) bool {
	if a.TotalXP != b.TotalXP {
		return a.TotalXP > b.TotalXP
	}
	return a.UserID < b.UserID
}

// selectCandidates applies the dimension's population filter.
func (e *Engine) selectCandidates(ctx context.Context, req Request) ([]domain.RankingSnapshot, error) {
	switch req.Dimension {
	case DimensionFollowers:
		// Checked before the store read: an empty following set is a
		// NoUsersFound outcome, never a failure.
		if len(req.Following.Following) == 0 {
			observability.LeaderboardEmpty.WithLabelValues(string(req.Dimension)).Inc()
			return nil, domain.ErrNoUsersFound
		}
	case DimensionRegional:
		if !req.Location.HasFix() {
			return nil, domain.ErrLocationUnavailable
		}
	case DimensionContinental, DimensionCountry:
		if place := e.placeFor(req); place == "" || place == domain.UnknownPlace {
			return nil, domain.ErrLocationUnavailable
		}
	}

	snaps, err := e.snapshots.ListSnapshots(ctx)
	if err != nil {
		observability.StoreFailures.WithLabelValues("snapshot", "list").Inc()
		return nil, fmt.Errorf("list ranking snapshots: %w", err)
	}

	var out []domain.RankingSnapshot
	switch req.Dimension {
	case DimensionGlobal:
		out = snaps

	case DimensionContinental:
		place := e.placeFor(req)
		for _, s := range snaps {
			if s.Continent == place {
				out = append(out, s)
			}
		}

	case DimensionCountry:
		place := e.placeFor(req)
		for _, s := range snaps {
			if s.Country == place {
				out = append(out, s)
			}
		}

	case DimensionRegional:
		for _, s := range snaps {
			if s.HasFix() {
				out = append(out, s)
			}
		}

	case DimensionFollowers:
		following := req.Following.FollowingSet()
		for _, s := range snaps {
			if following[s.UserID] {
				out = append(out, s)
			}
		}

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDimension, req.Dimension)
	}

	return out, nil
}

// placeFor resolves the continent/country filter value for a request.
func (e *Engine) placeFor(req Request) string {
	if req.Place != "" {
		return req.Place
	}
	if req.Dimension == DimensionContinental {
		return req.Location.Continent
	}
	return req.Location.Country
}

// filterByDistance keeps candidates within the regional radius of the
// requester's fix.
func (e *Engine) filterByDistance(snaps []domain.RankingSnapshot, loc domain.Location) []domain.RankingSnapshot {
	var out []domain.RankingSnapshot
	for _, s := range snaps {
		d := geo.Haversine(*loc.Lat, *loc.Long, *s.Lat, *s.Long)
		if d <= e.config.RegionalRadiusKm {
			out = append(out, s)
		}
	}
	return out
}
