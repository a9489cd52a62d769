// Package progress implements the progress ledger and the write path of the
// engine: validate → ledger write → full recompute → aggregate write-back →
// ranking snapshot refresh.
//
// The engine assumes a single logical writer per user (enforced by the
// calling UI, not here). Recomputes are pure, so concurrent readers are safe.
// There is no optimistic locking and no retry: a failed persistence write is
// logged and abandoned, and the next recompute derives correct state from the
// ledger alone.
package progress

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/stride-fitness/stride/internal/app/energy"
	"github.com/stride-fitness/stride/internal/app/xp"
	"github.com/stride-fitness/stride/internal/domain"
	"github.com/stride-fitness/stride/internal/infra/observability"
)

// Service orchestrates ledger mutations and the recompute pipeline.
type Service struct {
	profiles   domain.ProfileStore
	progress   domain.ProgressStore
	snapshots  domain.SnapshotStore
	catalog    domain.CatalogStore
	aggregator *xp.Aggregator
	now        func() time.Time // injectable clock for testing
}

// New creates a progress service.
func New(profiles domain.ProfileStore, progress domain.ProgressStore, snapshots domain.SnapshotStore, catalog domain.CatalogStore, aggregator *xp.Aggregator) *Service {
	return &Service{
		profiles:   profiles,
		progress:   progress,
		snapshots:  snapshots,
		catalog:    catalog,
		aggregator: aggregator,
		now:        time.Now,
	}
}

// ─── Logging Progress ───────────────────────────────────────────────────────

// LogInput describes one workout log or edit.
type LogInput struct {
	UserID      string
	WorkoutName string
	Date        domain.Date // Empty = today
	Value       float64
	Unit        string
	Intensity   string
	// IsAdditional marks a free-form logged activity rather than a
	// catalog-driven daily workout.
	IsAdditional bool
	// TargetValue overrides the catalog target for catalog entries.
	// Zero falls back to the catalog definition.
	TargetValue float64
}

// LogResult is the outcome of a ledger mutation plus the fresh aggregate.
type LogResult struct {
	Record     domain.ProgressRecord `json:"record"`
	Aggregate  domain.AggregateXP    `json:"aggregate"`
	Level      domain.LevelInfo      `json:"level"`
	CapReached bool                  `json:"cap_reached"`
}

// LogProgress validates, writes one progress record (last-write-wins on the
// (workout, date) key), and runs the recompute pipeline.
func (s *Service) LogProgress(ctx context.Context, in LogInput) (*LogResult, error) {
	rec, err := s.buildRecord(ctx, in)
	if err != nil {
		observability.ValidationRejections.Inc()
		return nil, err
	}

	if err := s.progress.UpsertRecord(ctx, in.UserID, *rec); err != nil {
		observability.StoreFailures.WithLabelValues("progress", "upsert").Inc()
		return nil, fmt.Errorf("write progress record: %w", err)
	}
	kind := "catalog"
	if rec.IsAdditional {
		kind = "additional"
	}
	observability.RecordsLogged.WithLabelValues(kind).Inc()

	agg, err := s.Recompute(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	capReached := s.aggregator.CapReached(*agg, rec.Date)
	if capReached {
		observability.CapHits.Inc()
	}

	return &LogResult{
		Record:     *rec,
		Aggregate:  *agg,
		Level:      domain.LevelOf(agg.TotalXP),
		CapReached: capReached,
	}, nil
}

// buildRecord validates input and produces the record to store. Validation
// failures happen before any write — no partial state.
func (s *Service) buildRecord(ctx context.Context, in LogInput) (*domain.ProgressRecord, error) {
	if in.UserID == "" {
		return nil, domain.Validationf("user_id", "required")
	}
	if in.WorkoutName == "" {
		return nil, domain.Validationf("workout_name", "required")
	}
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
		return nil, domain.Validationf("value", "must be a finite number")
	}

	date := in.Date
	if date == "" {
		date = domain.DateOf(s.now())
	}
	if !date.Valid() {
		return nil, domain.Validationf("date", "must be YYYY-MM-DD, got %q", in.Date)
	}

	rec := domain.ProgressRecord{
		WorkoutName:  in.WorkoutName,
		Date:         date,
		Unit:         in.Unit,
		Intensity:    in.Intensity,
		IsAdditional: in.IsAdditional,
		Timestamp:    s.now(),
	}

	if in.IsAdditional {
		// Free-form activities are complete by definition and must carry
		// a positive value.
		if in.Value <= 0 {
			return nil, domain.Validationf("value", "must be > 0 for a logged activity")
		}
		rec.Value = in.Value
		rec.Completed = true
	} else {
		if in.Value < 0 {
			return nil, domain.Validationf("value", "must be >= 0")
		}
		target, err := s.resolveTarget(ctx, in)
		if err != nil {
			return nil, err
		}
		// Clamp to the target; completion falls out of the comparison.
		rec.Value = math.Min(in.Value, target)
		rec.Completed = rec.Value >= target
	}

	rec.Calories = s.estimateCalories(ctx, in, rec)
	return &rec, nil
}

// resolveTarget picks the explicit target or falls back to the catalog.
func (s *Service) resolveTarget(ctx context.Context, in LogInput) (float64, error) {
	if in.TargetValue > 0 {
		return in.TargetValue, nil
	}
	def, err := s.catalog.GetWorkout(ctx, in.WorkoutName)
	if err != nil {
		return 0, domain.Validationf("target_value", "required for unknown workout %q", in.WorkoutName)
	}
	if def.Target <= 0 {
		return 0, domain.Validationf("target_value", "workout %q has no default target", in.WorkoutName)
	}
	return def.Target, nil
}

// estimateCalories attaches the advisory calorie figure. Profile weight is
// best-effort: a missing profile just means the default weight.
func (s *Service) estimateCalories(ctx context.Context, in LogInput, rec domain.ProgressRecord) int {
	var weight float64
	if p, err := s.profiles.GetProfile(ctx, in.UserID); err == nil {
		weight = p.WeightKg
	}
	return energy.EstimateCalories(rec.WorkoutName, rec.Value, rec.Unit, rec.Intensity, weight)
}

// ─── Removing Records ───────────────────────────────────────────────────────

// RemoveRecord deletes one (workout, date) entry and recomputes. The store
// drops the workout key itself once its last date entry is gone.
func (s *Service) RemoveRecord(ctx context.Context, userID, workoutName string, date domain.Date) (*domain.AggregateXP, error) {
	if err := s.progress.DeleteRecord(ctx, userID, workoutName, date); err != nil {
		observability.StoreFailures.WithLabelValues("progress", "delete").Inc()
		return nil, fmt.Errorf("delete progress record: %w", err)
	}
	return s.Recompute(ctx, userID)
}

// ─── Stale Cleanup ──────────────────────────────────────────────────────────

// CleanupStale purges empty records older than asOf-1 day: anything with
// value == 0 and not completed. Records with real progress are retained
// permanently. Runs once per session start; idempotent.
func (s *Service) CleanupStale(ctx context.Context, userID string, asOf domain.Date) (int, error) {
	ledger, err := s.progress.GetLedger(ctx, userID)
	if err != nil {
		observability.StoreFailures.WithLabelValues("progress", "ledger").Inc()
		return 0, fmt.Errorf("read ledger: %w", err)
	}

	cutoff := asOf.AddDays(-1)
	purged := 0
	for _, entry := range ledger.Entries() {
		if !entry.Date.Before(cutoff) {
			continue
		}
		if entry.Record.Value > 0 || entry.Record.Completed {
			continue
		}
		if err := s.progress.DeleteRecord(ctx, userID, entry.WorkoutName, entry.Date); err != nil {
			observability.StoreFailures.WithLabelValues("progress", "delete").Inc()
			return purged, fmt.Errorf("purge stale record: %w", err)
		}
		purged++
	}

	if purged > 0 {
		observability.RecordsPurged.Add(float64(purged))
		if _, err := s.Recompute(ctx, userID); err != nil {
			return purged, err
		}
	}
	return purged, nil
}

// SweepAll runs the stale cleanup for every known user. Called once at
// session (server) start; failures are logged per user and do not stop the
// sweep.
func (s *Service) SweepAll(ctx context.Context, asOf domain.Date) {
	ids, err := s.profiles.ListUserIDs(ctx)
	if err != nil {
		observability.StoreFailures.WithLabelValues("profile", "list").Inc()
		log.Printf("cleanup sweep: list users: %v", err)
		return
	}
	for _, id := range ids {
		if n, err := s.CleanupStale(ctx, id, asOf); err != nil {
			log.Printf("cleanup sweep: user %s: %v", id, err)
		} else if n > 0 {
			log.Printf("cleanup sweep: user %s: purged %d stale records", id, n)
		}
	}
}

// ─── Recompute Pipeline ─────────────────────────────────────────────────────

// Recompute derives the aggregate from the full ledger, writes it back when
// changed, and refreshes the ranking snapshot. The computation always runs;
// only the aggregate write is skipped on an unchanged result.
func (s *Service) Recompute(ctx context.Context, userID string) (*domain.AggregateXP, error) {
	start := s.now()
	observability.Recomputes.Inc()

	ledger, err := s.progress.GetLedger(ctx, userID)
	if err != nil {
		observability.StoreFailures.WithLabelValues("progress", "ledger").Inc()
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	agg := s.aggregator.RecomputeAll(ledger)
	observability.RecomputeDuration.Observe(time.Since(start).Seconds())

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		observability.StoreFailures.WithLabelValues("profile", "get").Inc()
		return nil, fmt.Errorf("read profile: %w", err)
	}

	if profile.Aggregate.Equal(agg) {
		observability.SkippedWrites.Inc()
	} else if err := s.profiles.SaveAggregate(ctx, userID, agg); err != nil {
		// Abandoned, not retried: the next recompute reconciles.
		observability.StoreFailures.WithLabelValues("profile", "save_aggregate").Inc()
		log.Printf("aggregate write for %s failed (will reconcile on next recompute): %v", userID, err)
	}

	profile.Aggregate = agg
	snap := domain.BuildSnapshot(*profile, domain.DateOf(s.now()))
	if err := s.snapshots.UpsertSnapshot(ctx, snap); err != nil {
		observability.StoreFailures.WithLabelValues("snapshot", "upsert").Inc()
		log.Printf("snapshot refresh for %s failed (will reconcile on next recompute): %v", userID, err)
	}

	return &agg, nil
}

// ─── Read Views ─────────────────────────────────────────────────────────────

// Overview is the progress dashboard for one user.
type Overview struct {
	Aggregate domain.AggregateXP `json:"aggregate"`
	Level     domain.LevelInfo   `json:"level"`
	TodayXP   int64              `json:"today_xp"`
	WeeklyXP  int64              `json:"weekly_xp"`
	MonthlyXP int64              `json:"monthly_xp"`
	Entries   []domain.LedgerEntry `json:"entries"`
}

// GetOverview reads the ledger and derives the display aggregate. The stored
// aggregate is not trusted for display — the recompute is cheap and always
// correct.
func (s *Service) GetOverview(ctx context.Context, userID string) (*Overview, error) {
	ledger, err := s.progress.GetLedger(ctx, userID)
	if err != nil {
		observability.StoreFailures.WithLabelValues("progress", "ledger").Inc()
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	agg := s.aggregator.RecomputeAll(ledger)
	today := domain.DateOf(s.now())

	return &Overview{
		Aggregate: agg,
		Level:     domain.LevelOf(agg.TotalXP),
		TodayXP:   agg.XPOn(today),
		WeeklyXP:  agg.WindowXP(today.StartOfWeek(), today.EndOfWeek()),
		MonthlyXP: agg.WindowXP(today.StartOfMonth(), today.EndOfMonth()),
		Entries:   ledger.Entries(),
	}, nil
}

// LoggedToday reports whether a catalog workout already has a record for the
// date. Additional (free-form) records never count toward this check.
func (s *Service) LoggedToday(ctx context.Context, userID, workoutName string, date domain.Date) (bool, error) {
	ledger, err := s.progress.GetLedger(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("read ledger: %w", err)
	}
	rec, ok := ledger[workoutName][date]
	return ok && !rec.IsAdditional, nil
}
