package domain

// ─── Level Model ────────────────────────────────────────────────────────────
// Cumulative XP maps to a level through a strictly increasing threshold
// table. Level k (1-indexed) occupies [thresholds[k-1], thresholds[k]).
// The table is pure reference data; changing it re-levels everyone on the
// next read, with no stored state to migrate.

// LevelThresholds is the cumulative XP boundary for each level.
// LevelThresholds[0] is always 0 (everyone starts at level 1).
var LevelThresholds = []int64{
	0, 100, 250, 450, 700,
	1000, 1400, 1900, 2500, 3200,
	4000, 5000, 6200, 7600, 9200,
	11000, 13000, 15500, 18500, 22000,
}

// LevelInfo is the result of resolving cumulative XP against the table.
type LevelInfo struct {
	Level          int   `json:"level"`
	CurrentLevelXP int64 `json:"current_level_xp"`
	XPForNextLevel int64 `json:"xp_for_next_level"`
}

// MaxLevel is the highest reachable level.
func MaxLevel() int { return len(LevelThresholds) }

// LevelOf resolves total XP to a level. Never fails: negative input clamps
// to zero, and the max level clamps progress to 0/0 (no further leveling).
func LevelOf(totalXP int64) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}

	// Greatest k with totalXP >= thresholds[k-1].
	k := 1
	for k < len(LevelThresholds) && totalXP >= LevelThresholds[k] {
		k++
	}

	if k == len(LevelThresholds) {
		return LevelInfo{Level: k}
	}
	return LevelInfo{
		Level:          k,
		CurrentLevelXP: totalXP - LevelThresholds[k-1],
		XPForNextLevel: LevelThresholds[k] - LevelThresholds[k-1],
	}
}

// ProgressPct returns level progress as a percentage in [0, 100].
func (l LevelInfo) ProgressPct() float64 {
	if l.XPForNextLevel == 0 {
		return 100
	}
	return float64(l.CurrentLevelXP) / float64(l.XPForNextLevel) * 100
}
