package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/config"
	"github.com/solspace/solspace-backend/internal/leaderboard"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/store"
	"github.com/solspace/solspace-backend/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSweeperConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "sweeper",
		},
		File: logger.FileConfig{
			Path:       cfg.LogFile.Path,
			MaxSizeMB:  cfg.LogFile.MaxSizeMB,
			MaxBackups: cfg.LogFile.MaxBackups,
			MaxAgeDays: cfg.LogFile.MaxAgeDays,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Sweeper")

	// Connect to database
	db, err := store.OpenDB(cfg.Database, cfg.Debug)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
	}
	defer func() {
		if err := store.Close(db); err != nil {
			logger.Error(err)
		}
	}()
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	dataStore := store.NewPGStore(db)
	clock := adapter.NewClock()

	sweepers := []sweeper.Sweeper{
		sweeper.NewEventLogSweeper(sweeper.EventLogSweeperConfig{
			Interval:  cfg.EventLogSweeper.Interval,
			BatchSize: cfg.EventLogSweeper.BatchSize,
			Retention: cfg.Game.Retention,
		}, dataStore, clock),
		sweeper.NewSeasonFinalizer(sweeper.SeasonFinalizerConfig{
			Interval: cfg.SeasonFinalizer.Interval,
		}, dataStore, leaderboard.NewService(dataStore, clock), clock),
	}

	logger.InfoCtx(ctx, "Initialized sweepers",
		zap.Duration("retention", cfg.Game.Retention),
		zap.Duration("event_log_interval", cfg.EventLogSweeper.Interval),
		zap.Duration("season_finalizer_interval", cfg.SeasonFinalizer.Interval),
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range sweepers {
		g.Go(func() error {
			if err := s.Start(gctx); err != nil {
				return fmt.Errorf("%s: %w", s.Name(), err)
			}
			return nil
		})
	}

	<-gctx.Done()

	// Give the sweepers time to finish the current batch
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	for _, s := range sweepers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error(err, zap.String("sweeper", s.Name()))
		}
	}

	if err := g.Wait(); err != nil {
		logger.Error(err)
	}

	logger.Info("Sweeper stopped")
}
