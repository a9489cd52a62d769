// Package energy implements MET-based calorie estimation for logged workouts.
//
// Estimates are advisory display data only — they never feed XP computation.
// The factor tables are heuristic domain configuration, preserved as product
// constants rather than sourced physiology.
package energy

import (
	"math"
	"strings"
)

// DefaultWeightKg is assumed when the caller supplies no usable body weight.
const DefaultWeightKg = 70.0

// ─── Intensity Multipliers ──────────────────────────────────────────────────

var lowMarkers = []string{"low", "slow", "light", "gentle", "beginner"}
var highMarkers = []string{"high", "fast", "intense", "power", "advanced"}

// intensityMultiplier maps an intensity label to a scaling factor by
// substring match: 0.8 for low-effort markers, 1.2 for high-effort, else 1.0.
func intensityMultiplier(intensity string) float64 {
	s := strings.ToLower(intensity)
	for _, m := range lowMarkers {
		if strings.Contains(s, m) {
			return 0.8
		}
	}
	for _, m := range highMarkers {
		if strings.Contains(s, m) {
			return 1.2
		}
	}
	return 1.0
}

// ─── MET Table (minutes-based workouts) ─────────────────────────────────────

type metRange struct {
	marker string
	base   float64 // Moderate-intensity MET
	spread float64 // Added at high intensity, subtracted (halved) at low
}

// metTable is matched by substring against the lowercase workout name, first
// match wins. Order puts more specific markers ahead of generic ones.
var metTable = []metRange{
	{"run", 9.5, 2.5},    // Running ≈ 7–12
	{"jog", 7.0, 1.0},
	{"cycl", 7.0, 3.0},   // Cycling ≈ 4–10
	{"bike", 7.0, 3.0},
	{"swim", 6.5, 1.5},   // Swimming ≈ 5–8
	{"walk", 3.2, 0.8},   // Walking ≈ 2.5–4
	{"yoga", 2.5, 0},
	{"pilates", 2.5, 0},
	{"hiit", 6.0, 0},
	{"circuit", 6.0, 0},
	{"strength", 3.5, 0},
	{"weight", 3.5, 0},
}

const defaultMET = 3.0

// metFor resolves the MET value for a workout at a given intensity.
func metFor(workoutType, intensity string) float64 {
	name := strings.ToLower(workoutType)
	mult := intensityMultiplier(intensity)
	for _, row := range metTable {
		if strings.Contains(name, row.marker) {
			switch mult {
			case 1.2:
				return row.base + row.spread
			case 0.8:
				return row.base - row.spread/2
			default:
				return row.base
			}
		}
	}
	return defaultMET
}

// ─── Distance / Rep Factors ─────────────────────────────────────────────────

var perKmTable = []struct {
	marker string
	factor float64
}{
	{"run", 1.0},
	{"cycl", 0.5},
	{"bike", 0.5},
	{"walk", 0.6},
	{"swim", 2.0},
}

const defaultPerKm = 0.8

func perKmFactor(workoutType string) float64 {
	name := strings.ToLower(workoutType)
	for _, row := range perKmTable {
		if strings.Contains(name, row.marker) {
			return row.factor
		}
	}
	return defaultPerKm
}

var perRepTable = []struct {
	marker string
	factor float64
}{
	{"push", 0.1},
	{"pull", 0.15},
	{"squat", 0.15},
	{"burpee", 0.3},
	{"lunge", 0.1},
}

const defaultPerRep = 0.12

func perRepFactor(workoutType string) float64 {
	name := strings.ToLower(workoutType)
	for _, row := range perRepTable {
		if strings.Contains(name, row.marker) {
			return row.factor
		}
	}
	return defaultPerRep
}

// ─── Estimator ──────────────────────────────────────────────────────────────

// EstimateCalories returns the estimated energy expenditure, rounded to the
// nearest integer, for a workout of the given value/unit. weightKg falls back
// to DefaultWeightKg when absent or non-positive.
func EstimateCalories(workoutType string, value float64, unit, intensity string, weightKg float64) int {
	if weightKg <= 0 || math.IsNaN(weightKg) {
		weightKg = DefaultWeightKg
	}
	if value <= 0 || math.IsNaN(value) {
		return 0
	}

	mult := intensityMultiplier(intensity)

	var calories float64
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "minutes", "min":
		calories = metFor(workoutType, intensity) * weightKg * (value / 60) * mult
	case "km":
		calories = weightKg * perKmFactor(workoutType) * value * mult
	case "reps":
		calories = perRepFactor(workoutType) * (1 + weightKg/100) * value * mult
	case "meters", "m":
		calories = 0.06 * (1 + weightKg/100) * value * mult
	case "seconds", "sec":
		calories = (weightKg / 70) * 0.05 * value * mult
	default:
		// Unrecognized units read as generic minutes of moderate effort.
		calories = defaultMET * weightKg * (value / 60) * mult
	}

	return int(math.Round(calories))
}
