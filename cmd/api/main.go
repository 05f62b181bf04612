package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/api/middleware"
	"github.com/solspace/solspace-backend/internal/api/server"
	"github.com/solspace/solspace-backend/internal/api/shared/executor"
	"github.com/solspace/solspace-backend/internal/config"
	"github.com/solspace/solspace-backend/internal/gameplay"
	"github.com/solspace/solspace-backend/internal/leaderboard"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/messaging"
	"github.com/solspace/solspace-backend/internal/providers/jetstream"
	"github.com/solspace/solspace-backend/internal/providers/solana"
	"github.com/solspace/solspace-backend/internal/ratelimit"
	"github.com/solspace/solspace-backend/internal/reconciler"
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
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
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
			"service": "api-server",
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
	logger.InfoCtx(ctx, "Starting Solspace API")

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
		zap.String("driver", cfg.Database.Driver),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
	)
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	fs := adapter.NewFileSystem()

	// Solana RPC client with a short-lived signature cache
	rpcClient := solana.NewClient(solana.Config{
		RPCURL:     cfg.Solana.RPCURL,
		Commitment: cfg.Solana.Commitment,
	}, adapter.NewHTTPClient(cfg.Solana.HTTPTimeout, adapter.DefaultRetryPolicy), jsonAdapter)
	solanaClient := solana.NewCachedClient(rpcClient, solana.CacheConfig{
		TTL:         cfg.Solana.SignatureCacheTTL,
		StaleWindow: cfg.Solana.SignatureCacheStaleWindow,
	}, clock)

	// Points event publisher
	var publisher messaging.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		logger.InfoCtx(ctx, "Connected to NATS JetStream", zap.String("stream", cfg.NATS.StreamName))
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, points events will not be published")
		publisher = messaging.NewNoopPublisher()
	}
	defer publisher.Close()

	// Rate state: memory always, Redis in front of it when configured
	policy := ratelimit.Policy{
		MinInterval: cfg.Game.MinInterval,
		Window:      cfg.Game.RateWindow,
		Cap:         cfg.Game.RateCap,
	}
	throttleConfig := ratelimit.ThrottleConfig{
		RequestsPerSecond: cfg.Server.Throttle.RequestsPerSecond,
		Burst:             cfg.Server.Throttle.Burst,
	}
	memoryLimiter := ratelimit.NewMemoryLimiter(policy)
	localThrottle := ratelimit.NewLocalThrottle(throttleConfig, clock)

	var limiter ratelimit.Limiter = memoryLimiter
	var throttle ratelimit.Throttle = localThrottle
	if cfg.Redis.Addr != "" {
		redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() {
			_ = redisClient.Close()
		}()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.WarnCtx(ctx, "Redis unreachable at startup, continuing with fallback to memory", zap.Error(err))
		}

		limiter = ratelimit.NewRedisLimiter(policy, redisClient, cfg.Redis.KeyPrefix, memoryLimiter)
		throttle = ratelimit.NewRedisThrottle(throttleConfig, redisClient.NewRateLimiter(), cfg.Redis.KeyPrefix, localThrottle)
		logger.InfoCtx(ctx, "Using Redis for rate state", zap.String("addr", cfg.Redis.Addr))
	}

	// Load identity blocklist
	blocklist, err := gameplay.LoadBlocklist(fs, jsonAdapter, cfg.Game.BlocklistPath)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load blocklist", zap.Error(err), zap.String("path", cfg.Game.BlocklistPath))
	}
	logger.InfoCtx(ctx, "Loaded blocklist", zap.Int("identities", blocklist.Len()))

	// Domain services
	rec, err := reconciler.NewReconciler(reconciler.Config{
		CollectionAddress: cfg.Solana.CollectionAddress,
		SignatureLimit:    cfg.Deposit.SignatureLimit,
		MinAmountSOL:      cfg.Deposit.MinAmountSOL,
		PointsPerSOL:      cfg.Deposit.PointsPerSOL,
		FetchConcurrency:  cfg.Deposit.FetchConcurrency,
	}, solanaClient, dataStore, publisher, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create reconciler", zap.Error(err))
	}
	defer rec.Close()

	validator := gameplay.NewValidator(gameplay.Config{
		MaxMultiplier:          cfg.Game.MaxMultiplier,
		RequireWalletSignature: cfg.Game.RequireWalletSignature,
	}, dataStore, limiter, blocklist, gameplay.NewSignatureVerifier(), publisher, clock)

	board := leaderboard.NewService(dataStore, clock)
	exec := executor.NewExecutor(dataStore, rec, validator, board, clock)

	// HTTP server
	srv := server.New(server.Config{
		Debug:              cfg.Debug,
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		ReadTimeout:        time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:       time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:        time.Duration(cfg.Server.IdleTimeout) * time.Second,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}, exec, throttle)

	// In-process eviction of idle rate state
	rateSweeper := sweeper.NewRateStateSweeper(sweeper.RateStateSweeperConfig{
		Interval:  cfg.RateStateSweeper.Interval,
		IdleAfter: cfg.RateStateSweeper.IdleAfter,
	}, clock, memoryLimiter, localThrottle)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		return rateSweeper.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		// Fresh context, gctx is already done
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rateSweeper.Stop(shutdownCtx); err != nil {
			logger.Error(err, zap.String("component", sweeper.RATE_STATE_SWEEPER))
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(err, zap.String("component", "api"))
	}

	logger.Info("API server stopped")
}
