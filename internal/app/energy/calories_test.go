package energy

import (
	"math"
	"testing"
)

func TestIntensityMultiplier(t *testing.T) {
	tests := []struct {
		intensity string
		want      float64
	}{
		{"", 1.0},
		{"Moderate", 1.0},
		{"Low impact", 0.8},
		{"slow pace", 0.8},
		{"Beginner friendly", 0.8},
		{"High intensity", 1.2},
		{"fast", 1.2},
		{"Power session", 1.2},
		{"Advanced", 1.2},
	}
	for _, tt := range tests {
		t.Run(tt.intensity, func(t *testing.T) {
			if got := intensityMultiplier(tt.intensity); got != tt.want {
				t.Errorf("intensityMultiplier(%q) = %v, want %v", tt.intensity, got, tt.want)
			}
		})
	}
}

func TestEstimateCalories_Minutes(t *testing.T) {
	// Running, moderate: MET 9.5 × 70 kg × (30/60) × 1.0 = 332.5 → 333.
	got := EstimateCalories("Running", 30, "minutes", "", 70)
	if got != 333 {
		t.Errorf("running 30min = %d, want 333", got)
	}

	// Yoga, moderate: 2.5 × 70 × 1 = 175.
	if got := EstimateCalories("Yoga", 60, "minutes", "", 70); got != 175 {
		t.Errorf("yoga 60min = %d, want 175", got)
	}
}

func TestEstimateCalories_Km(t *testing.T) {
	// Running: 70 × 1.0 × 5 × 1.0 = 350.
	if got := EstimateCalories("Running", 5, "km", "", 70); got != 350 {
		t.Errorf("running 5km = %d, want 350", got)
	}
	// Cycling: 70 × 0.5 × 10 = 350.
	if got := EstimateCalories("Cycling", 10, "km", "", 70); got != 350 {
		t.Errorf("cycling 10km = %d, want 350", got)
	}
	// Unknown type uses default 0.8 factor: 70 × 0.8 × 5 = 280.
	if got := EstimateCalories("Skipping", 5, "km", "", 70); got != 280 {
		t.Errorf("unknown 5km = %d, want 280", got)
	}
}

func TestEstimateCalories_Reps(t *testing.T) {
	// Push-ups: 0.1 × (1 + 70/100) × 30 = 5.1 → 5.
	if got := EstimateCalories("Push-ups", 30, "reps", "", 70); got != 5 {
		t.Errorf("push-ups 30 reps = %d, want 5", got)
	}
	// Burpees: 0.3 × 1.7 × 20 = 10.2 → 10.
	if got := EstimateCalories("Burpees", 20, "reps", "", 70); got != 10 {
		t.Errorf("burpees 20 reps = %d, want 10", got)
	}
}

func TestEstimateCalories_MetersAndSeconds(t *testing.T) {
	// Meters: 0.06 × 1.7 × 500 = 51.
	if got := EstimateCalories("Swimming", 500, "meters", "", 70); got != 51 {
		t.Errorf("500 meters = %d, want 51", got)
	}
	// Seconds: (70/70) × 0.05 × 120 = 6.
	if got := EstimateCalories("Plank", 120, "seconds", "", 70); got != 6 {
		t.Errorf("plank 120s = %d, want 6", got)
	}
}

func TestEstimateCalories_WeightDefault(t *testing.T) {
	withDefault := EstimateCalories("Running", 5, "km", "", 0)
	explicit := EstimateCalories("Running", 5, "km", "", DefaultWeightKg)
	if withDefault != explicit {
		t.Errorf("invalid weight should fall back to %v kg: %d vs %d",
			DefaultWeightKg, withDefault, explicit)
	}
	if got := EstimateCalories("Running", 5, "km", "", math.NaN()); got != explicit {
		t.Errorf("NaN weight = %d, want %d", got, explicit)
	}
}

func TestEstimateCalories_IntensityScales(t *testing.T) {
	low := EstimateCalories("Cycling", 10, "km", "light", 70)
	mid := EstimateCalories("Cycling", 10, "km", "", 70)
	high := EstimateCalories("Cycling", 10, "km", "intense", 70)
	if !(low < mid && mid < high) {
		t.Errorf("intensity should order estimates: low=%d mid=%d high=%d", low, mid, high)
	}
}

func TestEstimateCalories_NonPositiveValue(t *testing.T) {
	if got := EstimateCalories("Running", 0, "km", "", 70); got != 0 {
		t.Errorf("zero value = %d, want 0", got)
	}
	if got := EstimateCalories("Running", -3, "km", "", 70); got != 0 {
		t.Errorf("negative value = %d, want 0", got)
	}
}
