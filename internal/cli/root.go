// Package cli implements the stride command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/stride-fitness/stride/internal/daemon"
)

var cfgPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file (default ~/.stride/config.toml)")
}

var rootCmd = &cobra.Command{
	Use:   "stride",
	Short: "Fitness progress tracking, XP aggregation and leaderboards",
	Long: `Stride tracks daily workout progress, converts it into capped XP,
and builds global, continental, country, regional and follower
leaderboards from the results. All data lives in a local SQLite
database; the daemon exposes the same engine over HTTP.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the config file path and loads it.
func loadConfig() (daemon.Config, error) {
	path := cfgPath
	if path == "" {
		p, err := daemon.DefaultConfigPath()
		if err != nil {
			return daemon.Config{}, err
		}
		path = p
	}
	return daemon.Load(path)
}

// openServices wires the full service graph for a direct (daemon-less)
// command.
func openServices() (*daemon.Services, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return daemon.OpenServices(cfg)
}
