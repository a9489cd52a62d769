package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/stride-fitness/stride/internal/domain"
)

// ─── Progress Store ─────────────────────────────────────────────────────────
// One row per (user, workout, date). The nested ledger shape the domain
// works with is rebuilt on read; deleting the last date row for a workout
// removes the workout key with it.

// UpsertRecord writes one progress record, last-write-wins on the
// (workout, date) key.
func (db *DB) UpsertRecord(ctx context.Context, userID string, rec domain.ProgressRecord) error {
	completed := 0
	if rec.Completed {
		completed = 1
	}
	additional := 0
	if rec.IsAdditional {
		additional = 1
	}
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := db.db.ExecContext(ctx, `
		INSERT INTO progress_records (user_id, workout_name, date, value, completed,
			unit, intensity, calories, is_additional, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, workout_name, date) DO UPDATE SET
			value         = excluded.value,
			completed     = excluded.completed,
			unit          = excluded.unit,
			intensity     = excluded.intensity,
			calories      = excluded.calories,
			is_additional = excluded.is_additional,
			updated_at    = excluded.updated_at
	`, userID, rec.WorkoutName, string(rec.Date), rec.Value, completed,
		rec.Unit, rec.Intensity, rec.Calories, additional, ts.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// DeleteRecord removes the single (workout, date) entry.
func (db *DB) DeleteRecord(ctx context.Context, userID, workoutName string, date domain.Date) error {
	res, err := db.db.ExecContext(ctx, `
		DELETE FROM progress_records WHERE user_id = ? AND workout_name = ? AND date = ?
	`, userID, workoutName, string(date))
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return requireRow(res, domain.ErrRecordNotFound)
}

// DeleteWorkout removes every date entry for a workout name.
func (db *DB) DeleteWorkout(ctx context.Context, userID, workoutName string) error {
	_, err := db.db.ExecContext(ctx, `
		DELETE FROM progress_records WHERE user_id = ? AND workout_name = ?
	`, userID, workoutName)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	return nil
}

// GetLedger reads a user's whole ledger for a full recompute.
func (db *DB) GetLedger(ctx context.Context, userID string) (domain.Ledger, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT workout_name, date, value, completed, unit, intensity, calories, is_additional, updated_at
		FROM progress_records WHERE user_id = ?
		ORDER BY workout_name, date
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	defer rows.Close()

	ledger := make(domain.Ledger)
	for rows.Next() {
		var (
			rec        domain.ProgressRecord
			dateStr    string
			completed  int
			additional int
			updatedStr string
		)
		if err := rows.Scan(&rec.WorkoutName, &dateStr, &rec.Value, &completed,
			&rec.Unit, &rec.Intensity, &rec.Calories, &additional, &updatedStr); err != nil {
			return nil, err
		}
		rec.Date = domain.Date(dateStr)
		rec.Completed = completed == 1
		rec.IsAdditional = additional == 1
		rec.Timestamp, _ = time.Parse(time.RFC3339, updatedStr)

		if ledger[rec.WorkoutName] == nil {
			ledger[rec.WorkoutName] = make(map[domain.Date]domain.ProgressRecord)
		}
		ledger[rec.WorkoutName][rec.Date] = rec
	}
	return ledger, rows.Err()
}
