package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stride-fitness/stride/internal/domain"
)

// ─── Ranking Snapshot Store ─────────────────────────────────────────────────

// UpsertSnapshot refreshes a user's denormalized ranking snapshot.
func (db *DB) UpsertSnapshot(ctx context.Context, snap domain.RankingSnapshot) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO ranking_snapshots (user_id, username, theme, total_xp, daily_xp,
			weekly_xp, monthly_xp, country, continent, lat, long, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(user_id) DO UPDATE SET
			username   = excluded.username,
			theme      = excluded.theme,
			total_xp   = excluded.total_xp,
			daily_xp   = excluded.daily_xp,
			weekly_xp  = excluded.weekly_xp,
			monthly_xp = excluded.monthly_xp,
			country    = excluded.country,
			continent  = excluded.continent,
			lat        = excluded.lat,
			long       = excluded.long,
			updated_at = datetime('now')
	`, snap.UserID, snap.Username, snap.Theme, snap.TotalXP, snap.DailyXP,
		snap.WeeklyXP, snap.MonthlyXP, placeOrUnknown(snap.Country),
		placeOrUnknown(snap.Continent), snap.Lat, snap.Long)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// GetSnapshot reads one user's snapshot.
func (db *DB) GetSnapshot(ctx context.Context, userID string) (*domain.RankingSnapshot, error) {
	row := db.db.QueryRowContext(ctx, `
		SELECT user_id, username, theme, total_xp, daily_xp, weekly_xp, monthly_xp,
			country, continent, lat, long
		FROM ranking_snapshots WHERE user_id = ?
	`, userID)

	snap, err := scanSnapshot(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns every snapshot, strongest first. The ranking engine
// applies its own candidate cap; the ordering here just keeps large reads
// index-friendly.
func (db *DB) ListSnapshots(ctx context.Context) ([]domain.RankingSnapshot, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT user_id, username, theme, total_xp, daily_xp, weekly_xp, monthly_xp,
			country, continent, lat, long
		FROM ranking_snapshots ORDER BY total_xp DESC, user_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.RankingSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}
	return snaps, rows.Err()
}

func scanSnapshot(scan func(...any) error) (*domain.RankingSnapshot, error) {
	var (
		snap      domain.RankingSnapshot
		lat, long sql.NullFloat64
	)
	err := scan(&snap.UserID, &snap.Username, &snap.Theme, &snap.TotalXP,
		&snap.DailyXP, &snap.WeeklyXP, &snap.MonthlyXP,
		&snap.Country, &snap.Continent, &lat, &long)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		snap.Lat = &lat.Float64
	}
	if long.Valid {
		snap.Long = &long.Float64
	}
	return &snap, nil
}
