// Package observability exposes Prometheus metrics for the progress engine.
//
// Counters cover the write path (recomputes, skipped writes, cap hits,
// store failures) and the read path (leaderboard builds by dimension).
// Everything is registered via promauto on the default registry and served
// from the API's /metrics endpoint when enabled.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Recompute Metrics ──────────────────────────────────────────────────────

// Recomputes tracks total XP aggregate recomputes.
var Recomputes = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stride",
	Subsystem: "xp",
	Name:      "recomputes_total",
	Help:      "Total full XP aggregate recomputes.",
})

// RecomputeDuration tracks recompute latency.
var RecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "stride",
	Subsystem: "xp",
	Name:      "recompute_duration_seconds",
	Help:      "Wall time of a full XP recompute.",
	Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
})

// SkippedWrites tracks recomputes whose result matched the stored aggregate.
var SkippedWrites = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stride",
	Subsystem: "xp",
	Name:      "skipped_writes_total",
	Help:      "Recomputes that matched the stored aggregate and skipped the write.",
})

// CapHits tracks dates observed at the daily XP cap after a recompute.
var CapHits = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stride",
	Subsystem: "xp",
	Name:      "daily_cap_hits_total",
	Help:      "Times a logged workout landed on a date already at the daily cap.",
})

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// RecordsLogged tracks progress record writes by kind.
var RecordsLogged = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stride",
	Subsystem: "ledger",
	Name:      "records_logged_total",
	Help:      "Progress records written, by kind (catalog or additional).",
}, []string{"kind"})

// RecordsPurged tracks records removed by the stale-cleanup sweep.
var RecordsPurged = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stride",
	Subsystem: "ledger",
	Name:      "records_purged_total",
	Help:      "Stale zero-value records removed by the session-start sweep.",
})

// ValidationRejections tracks mutations rejected before any write.
var ValidationRejections = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stride",
	Subsystem: "ledger",
	Name:      "validation_rejections_total",
	Help:      "Progress mutations rejected by validation.",
})

// ─── Ranking Metrics ────────────────────────────────────────────────────────

// LeaderboardBuilds tracks leaderboard constructions by dimension.
var LeaderboardBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stride",
	Subsystem: "ranking",
	Name:      "leaderboard_builds_total",
	Help:      "Leaderboard builds by ranking dimension.",
}, []string{"dimension"})

// LeaderboardEmpty tracks builds whose filters matched no candidates.
var LeaderboardEmpty = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stride",
	Subsystem: "ranking",
	Name:      "leaderboard_empty_total",
	Help:      "Leaderboard builds that yielded zero candidates.",
}, []string{"dimension"})

// ─── Store Metrics ──────────────────────────────────────────────────────────

// StoreFailures tracks persistence failures by store and operation.
// Failures are logged and non-fatal; the next recompute reconciles.
var StoreFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stride",
	Subsystem: "store",
	Name:      "failures_total",
	Help:      "Keyed-store read/write failures by store and operation.",
}, []string{"store", "op"})
