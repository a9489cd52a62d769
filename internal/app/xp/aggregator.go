// Package xp implements the XP aggregation engine.
//
// The aggregator is the authoritative source of a user's XP state. It always
// recomputes from the full ledger snapshot — never an incremental increment —
// because records can be edited or deleted after the fact; incremental
// accumulation would drift from the ledger's true state. The recompute is a
// pure function: same ledger in, identical aggregate out, no partial writes,
// no observable intermediate state.
package xp

import (
	"strings"

	"github.com/stride-fitness/stride/internal/domain"
)

// DefaultRate is the fallback XP per unit for unrecognized (workout, unit)
// pairs.
const DefaultRate = 0.1

// RateTable maps lowercase workout name → unit → XP per unit.
type RateTable map[string]map[string]float64

// DefaultRates is the static rate table. Rates are tuned so a typical
// completed daily routine lands well under the daily cap, while a heavy
// endurance day can reach it.
var DefaultRates = RateTable{
	"push-ups":  {"reps": 0.1},
	"pull-ups":  {"reps": 0.2},
	"squats":    {"reps": 0.1},
	"lunges":    {"reps": 0.1},
	"burpees":   {"reps": 0.2},
	"sit-ups":   {"reps": 0.1},
	"plank":     {"seconds": 0.05},
	"running":   {"km": 10, "minutes": 1},
	"cycling":   {"km": 4, "minutes": 0.8},
	"walking":   {"km": 5, "minutes": 0.5},
	"swimming":  {"km": 20, "meters": 0.02, "minutes": 1.2},
	"yoga":      {"minutes": 0.8},
	"stretching": {"minutes": 0.5},
}

// Aggregator recomputes XP aggregates from ledger snapshots.
type Aggregator struct {
	rates RateTable
	cap   int64
}

// New creates an aggregator with the default rate table and daily cap.
func New() *Aggregator {
	return NewWithConfig(DefaultRates, domain.DailyXPCap)
}

// NewWithConfig creates an aggregator with explicit rates and cap.
func NewWithConfig(rates RateTable, dailyCap int64) *Aggregator {
	if dailyCap <= 0 {
		dailyCap = domain.DailyXPCap
	}
	return &Aggregator{rates: rates, cap: dailyCap}
}

// DailyCap returns the per-date XP ceiling.
func (a *Aggregator) DailyCap() int64 { return a.cap }

// RatePerUnit resolves the XP rate for a (workout, unit) pair.
// Unrecognized pairs fall back to DefaultRate.
func (a *Aggregator) RatePerUnit(workoutName, unit string) float64 {
	units, ok := a.rates[strings.ToLower(strings.TrimSpace(workoutName))]
	if !ok {
		return DefaultRate
	}
	rate, ok := units[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return DefaultRate
	}
	return rate
}

// RecomputeAll derives the full XP aggregate from a ledger snapshot.
//
// Only records with Completed exactly true contribute. Per-record XP is
// floor(value × rate), accumulated per date, then each date is clamped to
// [0, cap]. TotalXP is the sum of the clamped daily values, so the
// totalXP == sum(daily) invariant holds by construction.
func (a *Aggregator) RecomputeAll(ledger domain.Ledger) domain.AggregateXP {
	agg := domain.NewAggregateXP()

	for _, entry := range ledger.Entries() {
		if !entry.Record.Completed {
			continue
		}
		rate := a.RatePerUnit(entry.WorkoutName, entry.Record.Unit)
		agg.Daily[entry.Date] += domain.FloorXP(entry.Record.Value * rate)
	}

	for date, earned := range agg.Daily {
		if earned > a.cap {
			agg.Daily[date] = a.cap
		} else if earned < 0 {
			agg.Daily[date] = 0
		}
	}

	for _, earned := range agg.Daily {
		agg.TotalXP += earned
	}
	return agg
}

// CapReached reports whether a date already sits at the daily cap.
func (a *Aggregator) CapReached(agg domain.AggregateXP, date domain.Date) bool {
	return agg.Daily[date] >= a.cap
}
