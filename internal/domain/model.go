// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the engine — it depends on nothing.
package domain

import (
	"fmt"
	"math"
	"time"
)

// ─── Calendar Dates ─────────────────────────────────────────────────────────
// Ledger entries are keyed by calendar date, not instant. Dates are carried
// as ISO strings ("2006-01-02") so they sort lexicographically and serialize
// without timezone ambiguity.

// Date is a calendar date in ISO form (YYYY-MM-DD).
type Date string

// DateLayout is the wire format for Date values.
const DateLayout = "2006-01-02"

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Today returns the current calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// Time parses the date back to midnight local time. Invalid dates return the
// zero time.
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Valid reports whether the date parses as YYYY-MM-DD.
func (d Date) Valid() bool {
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

// Before reports whether d is strictly earlier than other.
// ISO dates compare correctly as strings.
func (d Date) Before(other Date) bool { return d < other }

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// StartOfWeek returns the Sunday that begins d's calendar week.
func (d Date) StartOfWeek() Date {
	t := d.Time()
	return DateOf(t.AddDate(0, 0, -int(t.Weekday())))
}

// EndOfWeek returns the Saturday that ends d's calendar week.
func (d Date) EndOfWeek() Date {
	return d.StartOfWeek().AddDays(6)
}

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date {
	t := d.Time()
	return DateOf(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()))
}

// EndOfMonth returns the last day of d's month.
func (d Date) EndOfMonth() Date {
	t := d.Time()
	return DateOf(time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()))
}

// ─── Workout Catalog ────────────────────────────────────────────────────────

// WorkoutDefinition is an immutable catalog template for a daily workout.
type WorkoutDefinition struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Icon        string  `json:"icon"`
	MetricLabel string  `json:"metric_label"`
	Unit        string  `json:"unit"`
	Target      float64 `json:"target,omitempty"` // Default target value (0 = none)
}

// ─── Progress Records ───────────────────────────────────────────────────────

// ProgressRecord is one logged workout entry for a (workout name, date) key.
//
// Invariants:
//   - catalog record:    Value <= target, Completed == (Value >= target)
//   - additional record: Completed always true, Value > 0 at creation
type ProgressRecord struct {
	WorkoutName  string    `json:"workout_name"`
	Date         Date      `json:"date"`
	Value        float64   `json:"value"`
	Completed    bool      `json:"completed"`
	Timestamp    time.Time `json:"timestamp"`
	Unit         string    `json:"unit"`
	Intensity    string    `json:"intensity,omitempty"`
	Calories     int       `json:"calories,omitempty"`
	IsAdditional bool      `json:"is_additional"`
}

// Ledger is a user's full set of progress records, workout name → date → record.
type Ledger map[string]map[Date]ProgressRecord

// LedgerEntry is one (workoutName, date, record) triple from a ledger.
type LedgerEntry struct {
	WorkoutName string
	Date        Date
	Record      ProgressRecord
}

// Entries flattens the ledger into an ordered slice of triples
// (workout name ascending, then date ascending). Iteration over the nested
// maps is never done directly — the ordering keeps recomputes deterministic.
func (l Ledger) Entries() []LedgerEntry {
	var entries []LedgerEntry
	for name, dates := range l {
		for date, rec := range dates {
			entries = append(entries, LedgerEntry{WorkoutName: name, Date: date, Record: rec})
		}
	}
	sortEntries(entries)
	return entries
}

// sortEntries orders by workout name, then date.
func sortEntries(entries []LedgerEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && lessEntry(entries[j], entries[j-1]); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

func lessEntry(a, b LedgerEntry) bool {
	if a.WorkoutName != b.WorkoutName {
		return a.WorkoutName < b.WorkoutName
	}
	return a.Date < b.Date
}

// ─── XP Aggregate ───────────────────────────────────────────────────────────

// AggregateXP is the derived XP state for one user. It is recomputed from the
// full ledger on every mutation, never incrementally patched.
//
// Invariant: TotalXP == sum(Daily values), and every daily value is in
// [0, DailyXPCap].
type AggregateXP struct {
	TotalXP int64          `json:"total_xp"`
	Daily   map[Date]int64 `json:"daily_xp"`
}

// DailyXPCap is the maximum XP creditable to a single calendar date.
const DailyXPCap int64 = 100

// NewAggregateXP returns an empty aggregate.
func NewAggregateXP() AggregateXP {
	return AggregateXP{Daily: make(map[Date]int64)}
}

// Equal reports whether two aggregates carry identical state. Callers use it
// to skip redundant persistence writes after an unchanged recompute.
func (a AggregateXP) Equal(b AggregateXP) bool {
	if a.TotalXP != b.TotalXP || len(a.Daily) != len(b.Daily) {
		return false
	}
	for d, xp := range a.Daily {
		if b.Daily[d] != xp {
			return false
		}
	}
	return true
}

// XPOn returns the capped XP earned on a single date.
func (a AggregateXP) XPOn(d Date) int64 { return a.Daily[d] }

// WindowXP sums already-capped daily values inside [from, to] inclusive.
// Windows are views over the daily map — never separately capped.
func (a AggregateXP) WindowXP(from, to Date) int64 {
	var sum int64
	for d, xp := range a.Daily {
		if d >= from && d <= to {
			sum += xp
		}
	}
	return sum
}

// ─── User Profile & Location ────────────────────────────────────────────────

// Location is a user's resolved geographic position. Country/continent may be
// "Unknown" when reverse geocoding failed; coordinates may be absent.
type Location struct {
	Country   string   `json:"country"`
	Continent string   `json:"continent"`
	Lat       *float64 `json:"lat,omitempty"`
	Long      *float64 `json:"long,omitempty"`
}

// UnknownPlace marks an unresolvable country or continent filter.
const UnknownPlace = "Unknown"

// HasFix reports whether both coordinates are present.
func (l Location) HasFix() bool { return l.Lat != nil && l.Long != nil }

// Profile is the per-user document held by the profile store.
type Profile struct {
	UserID    string      `json:"user_id"`
	Username  string      `json:"username"`
	Theme     string      `json:"theme"`
	WeightKg  float64     `json:"weight_kg,omitempty"`
	Aggregate AggregateXP `json:"aggregate"`
	Social    SocialState `json:"social"`
	Location  Location    `json:"location"`
	CreatedAt time.Time   `json:"created_at"`
}

// ─── Ranking Snapshot ───────────────────────────────────────────────────────

// RankingSnapshot is the denormalized per-user projection consumed by the
// ranking engine. It is refreshed after every recompute so leaderboard builds
// never join against the progress store.
type RankingSnapshot struct {
	UserID    string   `json:"user_id"`
	Username  string   `json:"username"`
	Theme     string   `json:"theme"`
	TotalXP   int64    `json:"total_xp"`
	DailyXP   int64    `json:"daily_xp"`
	WeeklyXP  int64    `json:"weekly_xp"`
	MonthlyXP int64    `json:"monthly_xp"`
	Country   string   `json:"country"`
	Continent string   `json:"continent"`
	Lat       *float64 `json:"lat,omitempty"`
	Long      *float64 `json:"long,omitempty"`
}

// HasFix reports whether the snapshot carries both coordinates.
func (s RankingSnapshot) HasFix() bool { return s.Lat != nil && s.Long != nil }

// BuildSnapshot projects a profile and its aggregate into a ranking snapshot
// as of the given date.
func BuildSnapshot(p Profile, asOf Date) RankingSnapshot {
	return RankingSnapshot{
		UserID:    p.UserID,
		Username:  p.Username,
		Theme:     p.Theme,
		TotalXP:   p.Aggregate.TotalXP,
		DailyXP:   p.Aggregate.XPOn(asOf),
		WeeklyXP:  p.Aggregate.WindowXP(asOf.StartOfWeek(), asOf.EndOfWeek()),
		MonthlyXP: p.Aggregate.WindowXP(asOf.StartOfMonth(), asOf.EndOfMonth()),
		Country:   p.Location.Country,
		Continent: p.Location.Continent,
		Lat:       p.Location.Lat,
		Long:      p.Location.Long,
	}
}

// ─── Utilities ──────────────────────────────────────────────────────────────

// FloorXP converts a fractional earned amount to whole XP.
func FloorXP(v float64) int64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Floor(v))
}

// FormatXP renders an XP amount for CLI display.
func FormatXP(xp int64) string {
	if xp >= 1000 {
		return fmt.Sprintf("%.1fk XP", float64(xp)/1000)
	}
	return fmt.Sprintf("%d XP", xp)
}
