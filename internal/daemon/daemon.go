package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stride-fitness/stride/internal/api"
	"github.com/stride-fitness/stride/internal/app/progress"
	"github.com/stride-fitness/stride/internal/app/ranking"
	"github.com/stride-fitness/stride/internal/app/social"
	"github.com/stride-fitness/stride/internal/app/xp"
	"github.com/stride-fitness/stride/internal/domain"
	"github.com/stride-fitness/stride/internal/infra/sqlite"
)

// Services bundles the wired application services on top of one store.
type Services struct {
	DB       *sqlite.DB
	Progress *progress.Service
	Social   *social.Service
	Ranking  *ranking.Engine
}

// OpenServices opens the store and wires the service graph from config.
func OpenServices(cfg Config) (*Services, error) {
	dir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sqlite.Open(dir)
	if err != nil {
		return nil, err
	}
	if err := db.SeedCatalog(context.Background(), sqlite.DefaultCatalog); err != nil {
		db.Close()
		return nil, err
	}

	aggregator := xp.NewWithConfig(xp.DefaultRates, cfg.Engine.DailyXPCap)
	return &Services{
		DB:       db,
		Progress: progress.New(db, db, db, db, aggregator),
		Social:   social.New(db),
		Ranking: ranking.New(db, ranking.Config{
			CandidateLimit:   cfg.Engine.CandidateLimit,
			RegionalRadiusKm: cfg.Engine.RegionalRadiusKm,
		}),
	}, nil
}

// Close releases the store.
func (s *Services) Close() error { return s.DB.Close() }

// Run starts the HTTP server and blocks until the context is cancelled or a
// shutdown signal arrives.
func Run(ctx context.Context, cfg Config) error {
	svcs, err := OpenServices(cfg)
	if err != nil {
		return err
	}
	defer svcs.Close()

	if cfg.Engine.CleanupOnStart {
		svcs.Progress.SweepAll(ctx, domain.Today())
	}

	server := api.NewServer(svcs.DB, svcs.DB, svcs.Progress, svcs.Social, svcs.Ranking)
	if cfg.Metrics.Enabled {
		server.EnableMetrics()
	}

	httpServer := &http.Server{
		Addr:    cfg.API.Addr(),
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("stride daemon listening on %s", cfg.API.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	case sig := <-sigCh:
		log.Printf("received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
