package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stride-fitness/stride/internal/domain"
)

// ─── Workout Catalog ────────────────────────────────────────────────────────

// DefaultCatalog is the built-in workout set seeded on first open.
var DefaultCatalog = []domain.WorkoutDefinition{
	{Name: "Push-ups", Category: "strength", Icon: "💪", MetricLabel: "Reps", Unit: "reps", Target: 30},
	{Name: "Pull-ups", Category: "strength", Icon: "🏋️", MetricLabel: "Reps", Unit: "reps", Target: 10},
	{Name: "Squats", Category: "strength", Icon: "🦵", MetricLabel: "Reps", Unit: "reps", Target: 40},
	{Name: "Lunges", Category: "strength", Icon: "🦿", MetricLabel: "Reps", Unit: "reps", Target: 30},
	{Name: "Burpees", Category: "strength", Icon: "🔥", MetricLabel: "Reps", Unit: "reps", Target: 15},
	{Name: "Sit-ups", Category: "strength", Icon: "🧍", MetricLabel: "Reps", Unit: "reps", Target: 40},
	{Name: "Plank", Category: "strength", Icon: "🪵", MetricLabel: "Duration", Unit: "seconds", Target: 120},
	{Name: "Running", Category: "cardio", Icon: "🏃", MetricLabel: "Distance", Unit: "km", Target: 5},
	{Name: "Cycling", Category: "cardio", Icon: "🚴", MetricLabel: "Distance", Unit: "km", Target: 10},
	{Name: "Walking", Category: "cardio", Icon: "🚶", MetricLabel: "Distance", Unit: "km", Target: 6},
	{Name: "Swimming", Category: "cardio", Icon: "🏊", MetricLabel: "Distance", Unit: "m", Target: 500},
	{Name: "Yoga", Category: "flexibility", Icon: "🧘", MetricLabel: "Duration", Unit: "minutes", Target: 30},
	{Name: "Stretching", Category: "flexibility", Icon: "🤸", MetricLabel: "Duration", Unit: "minutes", Target: 15},
}

// SeedCatalog inserts catalog rows that are not already present. Existing
// rows are left alone so a local edit survives restarts.
func (db *DB) SeedCatalog(ctx context.Context, defs []domain.WorkoutDefinition) error {
	for _, def := range defs {
		_, err := db.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO workout_catalog (name, category, icon, metric_label, unit, target)
			VALUES (?, ?, ?, ?, ?, ?)
		`, def.Name, def.Category, def.Icon, def.MetricLabel, def.Unit, def.Target)
		if err != nil {
			return fmt.Errorf("seed catalog %s: %w", def.Name, err)
		}
	}
	return nil
}

// ListCatalog returns every workout definition, name-ordered.
func (db *DB) ListCatalog(ctx context.Context) ([]domain.WorkoutDefinition, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT name, category, icon, metric_label, unit, target
		FROM workout_catalog ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var defs []domain.WorkoutDefinition
	for rows.Next() {
		var def domain.WorkoutDefinition
		if err := rows.Scan(&def.Name, &def.Category, &def.Icon, &def.MetricLabel, &def.Unit, &def.Target); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// GetWorkout looks up one definition by its exact name.
func (db *DB) GetWorkout(ctx context.Context, name string) (*domain.WorkoutDefinition, error) {
	var def domain.WorkoutDefinition
	err := db.db.QueryRowContext(ctx, `
		SELECT name, category, icon, metric_label, unit, target
		FROM workout_catalog WHERE name = ?
	`, name).Scan(&def.Name, &def.Category, &def.Icon, &def.MetricLabel, &def.Unit, &def.Target)
	if err == sql.ErrNoRows {
		return nil, domain.ErrWorkoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read workout: %w", err)
	}
	return &def, nil
}
