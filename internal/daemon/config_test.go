package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8570 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8570)
	}
	if cfg.Engine.DailyXPCap != 100 {
		t.Errorf("Engine.DailyXPCap = %d, want 100", cfg.Engine.DailyXPCap)
	}
	if cfg.Engine.CandidateLimit != 100 {
		t.Errorf("Engine.CandidateLimit = %d, want 100", cfg.Engine.CandidateLimit)
	}
	if cfg.Engine.RegionalRadiusKm != 100 {
		t.Errorf("Engine.RegionalRadiusKm = %v, want 100", cfg.Engine.RegionalRadiusKm)
	}
	if !cfg.Engine.CleanupOnStart {
		t.Error("Engine.CleanupOnStart should be true by default")
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be false by default (opt-in)")
	}
}

func TestAPIConfigAddr(t *testing.T) {
	cfg := APIConfig{Host: "0.0.0.0", Port: 9000}
	if got := cfg.Addr(); got != "0.0.0.0:9000" {
		t.Errorf("Addr() = %q, want %q", got, "0.0.0.0:9000")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Port != DefaultConfig().API.Port {
		t.Errorf("missing file should yield defaults, got port %d", cfg.API.Port)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[api]
port = 9999

[engine]
regional_radius_km = 50.0

[metrics]
enabled = true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Port != 9999 {
		t.Errorf("API.Port = %d, want 9999", cfg.API.Port)
	}
	// Untouched keys keep their defaults.
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want default", cfg.API.Host)
	}
	if cfg.Engine.RegionalRadiusKm != 50 {
		t.Errorf("RegionalRadiusKm = %v, want 50", cfg.Engine.RegionalRadiusKm)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be true")
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("api = {"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed TOML should fail to load")
	}
}
