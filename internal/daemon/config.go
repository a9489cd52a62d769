// Package daemon holds the long-running server process: configuration,
// wiring and lifecycle.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the daemon configuration, loaded from ~/.stride/config.toml.
type Config struct {
	API     APIConfig     `toml:"api"`
	Store   StoreConfig   `toml:"store"`
	Engine  EngineConfig  `toml:"engine"`
	Metrics MetricsConfig `toml:"metrics"`
}

// APIConfig controls the HTTP listener.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig controls persistence.
type StoreConfig struct {
	// Dir is the data directory holding the SQLite database. Empty means
	// ~/.stride.
	Dir string `toml:"dir"`
}

// EngineConfig controls XP aggregation and leaderboard construction.
type EngineConfig struct {
	DailyXPCap       int64   `toml:"daily_xp_cap"`
	CandidateLimit   int     `toml:"candidate_limit"`
	RegionalRadiusKm float64 `toml:"regional_radius_km"`
	// CleanupOnStart runs the stale-record sweep when the daemon boots.
	CleanupOnStart bool `toml:"cleanup_on_start"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the default daemon configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8570,
		},
		Store: StoreConfig{
			Dir: "",
		},
		Engine: EngineConfig{
			DailyXPCap:       100,
			CandidateLimit:   100,
			RegionalRadiusKm: 100,
			CleanupOnStart:   true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// DataDir resolves the configured data directory, defaulting to ~/.stride.
func (c Config) DataDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".stride"), nil
}

// Load reads a config file, overlaying defaults. A missing file is not an
// error: defaults apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfigPath is the conventional config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".stride", "config.toml"), nil
}
