package domain

import "context"

// ─── Store Interfaces ───────────────────────────────────────────────────────
// The engine depends on three externally-owned keyed stores. These interfaces
// define the boundary; infrastructure implements them, the application layer
// depends on them. Store failures are wrapped and surfaced as-is — the engine
// never retries, because the next full recompute reconciles any partial write.

// ProfileStore holds the per-user profile document.
type ProfileStore interface {
	CreateProfile(ctx context.Context, p Profile) error
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	// SaveAggregate writes back {totalXP, dailyXP} after a recompute.
	SaveAggregate(ctx context.Context, userID string, agg AggregateXP) error
	SaveSocial(ctx context.Context, userID string, social SocialState) error
	SaveLocation(ctx context.Context, userID string, loc Location) error
	// ListUserIDs enumerates every known user, for the session-start sweep.
	ListUserIDs(ctx context.Context) ([]string, error)
}

// ProgressStore holds the nested progress ledger, workout name → date → record.
type ProgressStore interface {
	UpsertRecord(ctx context.Context, userID string, rec ProgressRecord) error
	DeleteRecord(ctx context.Context, userID, workoutName string, date Date) error
	DeleteWorkout(ctx context.Context, userID, workoutName string) error
	// GetLedger reads the whole ledger for a full recompute.
	GetLedger(ctx context.Context, userID string) (Ledger, error)
}

// SnapshotStore holds the denormalized ranking snapshots.
type SnapshotStore interface {
	UpsertSnapshot(ctx context.Context, snap RankingSnapshot) error
	GetSnapshot(ctx context.Context, userID string) (*RankingSnapshot, error)
	ListSnapshots(ctx context.Context) ([]RankingSnapshot, error)
}

// CatalogStore holds the immutable workout catalog reference data.
type CatalogStore interface {
	SeedCatalog(ctx context.Context, defs []WorkoutDefinition) error
	ListCatalog(ctx context.Context) ([]WorkoutDefinition, error)
	GetWorkout(ctx context.Context, name string) (*WorkoutDefinition, error)
}
