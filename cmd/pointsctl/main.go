package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/api/shared/executor"
	"github.com/solspace/solspace-backend/internal/config"
	"github.com/solspace/solspace-backend/internal/leaderboard"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/store"
)

var (
	configFile string
	envPath    string
	outputJSON bool
)

// app holds the dependencies shared by every subcommand
type app struct {
	cfg   *config.CLIConfig
	db    *gorm.DB
	store store.Store
	clock adapter.Clock
	exec  executor.Executor
}

var current *app

var rootCmd = &cobra.Command{
	Use:           "pointsctl",
	Short:         "Operate the Solspace points ledger",
	Long:          `pointsctl inspects balances and leaderboards, reconciles deposits and freezes closed seasons against the service database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.ChdirRepoRoot()
		cfg, err := config.LoadCLIConfig(configFile, envPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := logger.Initialize(logger.Config{
			Debug:           cfg.Debug,
			SentryDSN:       cfg.SentryDSN,
			BreadcrumbLevel: zapcore.InfoLevel,
			Tags: map[string]string{
				"service": "pointsctl",
			},
		}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		db, err := store.OpenDB(cfg.Database, cfg.Debug)
		if err != nil {
			return err
		}

		st := store.NewPGStore(db)
		clock := adapter.NewClock()
		current = &app{
			cfg:   cfg,
			db:    db,
			store: st,
			clock: clock,
			// Deposits need the Solana settings and are wired by the reconcile command
			exec: executor.NewExecutor(st, nil, nil, leaderboard.NewService(st, clock), clock),
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		logger.Flush(2 * time.Second)
		if current == nil {
			return nil
		}
		return store.Close(current.db)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", "config/", "Path to environment files")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Print results as JSON")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
