package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/mma_currency/internal/adapters/connectivity"
	"github.com/SscSPs/mma_currency/internal/adapters/database/pgsql"
	"github.com/SscSPs/mma_currency/internal/adapters/kvstore"
	"github.com/SscSPs/mma_currency/internal/adapters/ratesource"
	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
	"github.com/SscSPs/mma_currency/internal/core/services"
	"github.com/SscSPs/mma_currency/internal/handlers"
	"github.com/SscSPs/mma_currency/internal/middleware"
	"github.com/SscSPs/mma_currency/internal/platform/config"
	"github.com/SscSPs/mma_currency/internal/utils"
	"github.com/SscSPs/mma_currency/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		skipMigrations, _ := cmd.Flags().GetBool("skip-migrations")
		return serve(skipMigrations)
	},
}

func init() {
	serveCmd.Flags().Bool("skip-migrations", false, "do not apply pending migrations on startup")
}

func serve(skipMigrations bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		return err
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if !skipMigrations {
		if err := runMigrations(); err != nil {
			return err
		}
	}

	kv, redisClient, err := newKVStore(ctx)
	if err != nil {
		logger.Error("Failed to initialize key/value store", slog.String("backend", cfg.KVBackend), slog.String("error", err.Error()))
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	repos := pgsql.NewRepositoryProvider(dbPool, kv)

	httpClient := ratesource.NewHTTPClient(cfg.HTTPClientTimeout)
	source := ratesource.NewChain(
		ratesource.NewExchangeRateAPI(httpClient, cfg.ExchangeRateAPIURL, cfg.ExchangeRateAPIKey, cfg.BulkConversionURL),
		ratesource.NewOpenRatesAPI(httpClient, cfg.ExchangeRateFallbackURL),
		pgsql.NewRateSource(repos.ExchangeRateRepo, repos.CurrencyRepo),
	)

	monitor := connectivity.NewMonitor(false)
	prober := connectivity.NewProber(monitor, httpClient, cfg.ConnectivityProbeURL, cfg.ConnectivityProbeInterval, logger)
	prober.Probe(ctx) // seed state before queues resume; Run waits one interval
	go prober.Run(ctx)

	container, rt := services.NewServiceContainer(cfg, repos, source, monitor, logger)
	if restored, err := rt.RateCache.Warm(ctx); err != nil {
		logger.Warn("Failed to restore rate cache snapshot", slog.String("error", err.Error()))
	} else if restored > 0 {
		logger.Info("Rate cache restored from snapshot", slog.Int("rates", restored))
	}
	resumed, err := rt.Registry.Resume(ctx)
	if err != nil {
		logger.Warn("Failed to resume conversion queues", slog.String("error", err.Error()))
	}
	logger.Info("Conversion queues resumed", slog.Int("users", resumed), slog.Bool("connected", monitor.IsConnected()))
	defer rt.Registry.Close()

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	rateLimiter, err := newRateLimiter(redisClient)
	if err != nil {
		logger.Error("Failed to initialize rate limiter", slog.String("error", err.Error()))
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig()))
	r.Use(middleware.RateLimit(rateLimiter), middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		return err
	}

	handlers.RegisterRoutes(r, cfg, container)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shut down failed", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Server shut down successfully")
	return nil
}

// newKVStore returns nil for the postgres backend; the repository provider then
// uses the kv_store table.
func newKVStore(ctx context.Context) (portsrepo.KeyValueStore, redis.UniversalClient, error) {
	switch cfg.KVBackend {
	case config.KVBackendRedis:
		client, err := kvstore.NewRedisClient(cfg.RedisAddrs, cfg.RedisPassword, cfg.RedisCluster)
		if err != nil {
			return nil, nil, err
		}
		store := kvstore.NewRedisStore(client, kvstore.DefaultNamespace)
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		logger.Info("Using redis key/value store", slog.Any("addrs", cfg.RedisAddrs))
		return store, client, nil
	case config.KVBackendMemory:
		logger.Warn("Using in-memory key/value store; conversion queues will not survive a restart")
		return kvstore.NewMemoryStore(), nil, nil
	}
	return nil, nil, nil
}

// newRateLimiter shares counters through redis when it is configured.
func newRateLimiter(client redis.UniversalClient) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}
	store := memory.NewStore()
	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: kvstore.DefaultNamespace + "_limiter"})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
		}
	}
	return limiter.New(store, rate), nil
}

func corsConfig() cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}
