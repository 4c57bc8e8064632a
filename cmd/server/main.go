package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/goremit/internal/adapter/http"
	"github.com/iho/goremit/internal/adapter/http/handler"
	"github.com/iho/goremit/internal/adapter/http/middleware"
	"github.com/iho/goremit/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/goremit/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/goremit/internal/adapter/repository/redis"
	"github.com/iho/goremit/internal/infrastructure/cachesweeper"
	"github.com/iho/goremit/internal/infrastructure/config"
	"github.com/iho/goremit/internal/infrastructure/eventpublisher"
	"github.com/iho/goremit/internal/infrastructure/logger"
	"github.com/iho/goremit/internal/infrastructure/metrics"
	"github.com/iho/goremit/internal/infrastructure/postgres"
	"github.com/iho/goremit/internal/infrastructure/redis"
	"github.com/iho/goremit/internal/usecase"
)

const (
	eventStreamMaxLen     = 100000
	limiterCleanupEvery   = 10 * time.Minute
	limiterIdleExpiration = 30 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}

	appLogger.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	settings, err := settingsFromConfig(cfg)
	if err != nil {
		return err
	}

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	logger.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	logger.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	aggregateRepo := postgresRepo.NewDailyAggregateRepository(pool)
	remittanceRepo := postgresRepo.NewRemittanceRepository(pool)
	quoteRepo := postgresRepo.NewQuoteRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	retrier := postgresRepo.NewRetrier(
		postgresRepo.WithRetrierLogger(logger),
		postgresRepo.WithRetrierMetrics(m),
	)
	idGen := postgresRepo.NewULIDGenerator()

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	locker := newLocker(cfg, redisClient)

	// Initialize use cases
	quoteUC := usecase.NewQuoteUseCase(quoteRepo, quoteRepo, cache, settings, logger, m)
	remittanceUC := usecase.NewRemittanceUseCase(usecase.RemittanceDeps{
		TxManager:      txManager,
		AccountRepo:    accountRepo,
		WalletRepo:     walletRepo,
		AggregateRepo:  aggregateRepo,
		RemittanceRepo: remittanceRepo,
		OutboxRepo:     outboxRepo,
		Locker:         locker,
		Quotes:         quoteUC,
		Cache:          cache,
		Retrier:        retrier,
		IDGen:          idGen,
	}, settings, logger, m)
	historyUC := usecase.NewHistoryUseCase(accountRepo, remittanceRepo, cache, settings, logger, m)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, walletRepo, aggregateRepo, outboxRepo, cache, idGen, settings, logger, m)
	reconcileUC := usecase.NewReconciliationUseCase(accountRepo, aggregateRepo, remittanceRepo, settings, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		RemittanceHandler: handler.NewRemittanceHandler(remittanceUC, historyUC),
		AccountHandler:    handler.NewAccountHandler(accountUC, reconcileUC),
		QuoteHandler:      handler.NewQuoteHandler(quoteUC),
		HealthHandler: handler.NewHealthHandler(
			handler.PingerFunc(pool.Ping),
			handler.PingerFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Logger:           logger,
		Metrics:          m,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  newEventSink(cfg, redisClient, logger),
		Logger:     logger,
		Metrics:    m,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})
	sweeper := cachesweeper.New(cache, cfg.CacheSweepInterval, logger, m)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error { return ignoreCanceled(publisher.Start(gctx)) })
	g.Go(func() error { return ignoreCanceled(sweeper.Start(gctx)) })
	g.Go(func() error {
		rateLimiter.Run(gctx, limiterCleanupEvery, limiterIdleExpiration)
		return nil
	})

	return g.Wait()
}

// settingsFromConfig derives the remittance rules from cfg.
func settingsFromConfig(cfg *config.Config) (usecase.Settings, error) {
	loc, err := cfg.Location()
	if err != nil {
		return usecase.Settings{}, err
	}

	return usecase.Settings{
		Policies:          cfg.Policies(),
		Currencies:        cfg.Currencies(),
		Location:          loc,
		Clock:             usecase.SystemClock{},
		DefaultQuote:      cfg.QuoteDefaultRate,
		QuoteTimeout:      cfg.QuoteTimeout,
		QuoteCacheTTL:     cfg.QuoteCacheTTL,
		HistoryCacheTTL:   cfg.HistoryCacheTTL,
		AggregateCacheTTL: cfg.AggregateCacheTTL,
		MaxPeriodDays:     cfg.HistoryMaxPeriodDays,
		MaxPageSize:       cfg.HistoryMaxPageSize,
	}, nil
}

// newLocker picks the account guard backend.
func newLocker(cfg *config.Config, client *goredis.Client) usecase.Locker {
	if cfg.LockBackend == config.LockBackendLocal || client == nil {
		return memory.NewLocker(cfg.LockWaitTimeout)
	}

	return redisRepo.NewLeaseLocker(client, redisRepo.LockOptions{
		TTL:  cfg.LockTTL,
		Wait: cfg.LockWaitTimeout,
	})
}

// newEventSink appends events to the Redis stream, or only logs them when
// no stream is configured.
func newEventSink(cfg *config.Config, client *goredis.Client, logger zerolog.Logger) eventpublisher.Publisher {
	if cfg.EventStream == "" || client == nil {
		return eventpublisher.NewLogPublisher(logger)
	}
	return eventpublisher.NewStreamPublisher(client, cfg.EventStream, eventStreamMaxLen)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
