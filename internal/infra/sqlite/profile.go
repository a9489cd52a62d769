package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stride-fitness/stride/internal/domain"
)

// ─── Profile Store ──────────────────────────────────────────────────────────

// CreateProfile inserts a new profile document.
func (db *DB) CreateProfile(ctx context.Context, p domain.Profile) error {
	var exists int
	err := db.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE user_id = ?`, p.UserID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check profile: %w", err)
	}
	if exists > 0 {
		return domain.ErrUserExists
	}

	daily, err := json.Marshal(p.Aggregate.Daily)
	if err != nil {
		return fmt.Errorf("encode daily xp: %w", err)
	}
	followers, following, err := encodeSocial(p.Social)
	if err != nil {
		return err
	}

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = db.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, username, theme, weight_kg, total_xp, daily_xp,
			followers, following, country, continent, lat, long, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.UserID, p.Username, p.Theme, p.WeightKg, p.Aggregate.TotalXP, string(daily),
		string(followers), string(following),
		placeOrUnknown(p.Location.Country), placeOrUnknown(p.Location.Continent),
		p.Location.Lat, p.Location.Long, createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetProfile reads the whole profile document.
func (db *DB) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var (
		p          domain.Profile
		dailyJSON  string
		followers  string
		following  string
		lat, long  sql.NullFloat64
		createdStr string
	)
	err := db.db.QueryRowContext(ctx, `
		SELECT user_id, username, theme, weight_kg, total_xp, daily_xp,
			followers, following, country, continent, lat, long, created_at
		FROM profiles WHERE user_id = ?
	`, userID).Scan(&p.UserID, &p.Username, &p.Theme, &p.WeightKg,
		&p.Aggregate.TotalXP, &dailyJSON, &followers, &following,
		&p.Location.Country, &p.Location.Continent, &lat, &long, &createdStr)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	if err := json.Unmarshal([]byte(dailyJSON), &p.Aggregate.Daily); err != nil {
		return nil, fmt.Errorf("decode daily xp: %w", err)
	}
	if p.Aggregate.Daily == nil {
		p.Aggregate.Daily = make(map[domain.Date]int64)
	}
	if err := json.Unmarshal([]byte(followers), &p.Social.Followers); err != nil {
		return nil, fmt.Errorf("decode followers: %w", err)
	}
	if err := json.Unmarshal([]byte(following), &p.Social.Following); err != nil {
		return nil, fmt.Errorf("decode following: %w", err)
	}
	if lat.Valid {
		p.Location.Lat = &lat.Float64
	}
	if long.Valid {
		p.Location.Long = &long.Float64
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return &p, nil
}

// SaveAggregate writes back {totalXP, dailyXP} after a recompute.
func (db *DB) SaveAggregate(ctx context.Context, userID string, agg domain.AggregateXP) error {
	daily, err := json.Marshal(agg.Daily)
	if err != nil {
		return fmt.Errorf("encode daily xp: %w", err)
	}
	res, err := db.db.ExecContext(ctx, `
		UPDATE profiles SET total_xp = ?, daily_xp = ?, updated_at = datetime('now')
		WHERE user_id = ?
	`, agg.TotalXP, string(daily), userID)
	if err != nil {
		return fmt.Errorf("save aggregate: %w", err)
	}
	return requireRow(res, domain.ErrUserNotFound)
}

// SaveSocial writes back the follow graph lists.
func (db *DB) SaveSocial(ctx context.Context, userID string, social domain.SocialState) error {
	followers, following, err := encodeSocial(social)
	if err != nil {
		return err
	}
	res, err := db.db.ExecContext(ctx, `
		UPDATE profiles SET followers = ?, following = ?, updated_at = datetime('now')
		WHERE user_id = ?
	`, string(followers), string(following), userID)
	if err != nil {
		return fmt.Errorf("save social: %w", err)
	}
	return requireRow(res, domain.ErrUserNotFound)
}

// SaveLocation writes back the resolved location.
func (db *DB) SaveLocation(ctx context.Context, userID string, loc domain.Location) error {
	res, err := db.db.ExecContext(ctx, `
		UPDATE profiles SET country = ?, continent = ?, lat = ?, long = ?, updated_at = datetime('now')
		WHERE user_id = ?
	`, placeOrUnknown(loc.Country), placeOrUnknown(loc.Continent), loc.Lat, loc.Long, userID)
	if err != nil {
		return fmt.Errorf("save location: %w", err)
	}
	return requireRow(res, domain.ErrUserNotFound)
}

// ListUserIDs enumerates every known user.
func (db *DB) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := db.db.QueryContext(ctx, `SELECT user_id FROM profiles ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func encodeSocial(s domain.SocialState) (followers, following []byte, err error) {
	followers, err = json.Marshal(emptyIfNil(s.Followers))
	if err != nil {
		return nil, nil, fmt.Errorf("encode followers: %w", err)
	}
	following, err = json.Marshal(emptyIfNil(s.Following))
	if err != nil {
		return nil, nil, fmt.Errorf("encode following: %w", err)
	}
	return followers, following, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func placeOrUnknown(s string) string {
	if s == "" {
		return domain.UnknownPlace
	}
	return s
}

// requireRow maps a zero-row UPDATE to a not-found error.
func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
