package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/restaurant-cart/internal/cart"
	"github.com/fairyhunter13/restaurant-cart/internal/config"
	"github.com/fairyhunter13/restaurant-cart/internal/handler"
	"github.com/fairyhunter13/restaurant-cart/internal/repository"
	"github.com/fairyhunter13/restaurant-cart/internal/service"
	"github.com/fairyhunter13/restaurant-cart/internal/storage"
	"github.com/fairyhunter13/restaurant-cart/internal/validator"
	"github.com/fairyhunter13/restaurant-cart/pkg/cache"
	"github.com/fairyhunter13/restaurant-cart/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	ctx := context.Background()

	// Catalog database (coupons, side rules)
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Cart snapshot storage
	var (
		snapshots cart.SnapshotStore
		cachePing handler.Pinger
		rdb       *redis.Client
	)
	switch cfg.Cart.Storage {
	case config.StorageRedis:
		rdb, err = cache.NewClient(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		redisStore := storage.NewRedisSnapshotStore(rdb, cfg.Cart.TTL())
		snapshots = redisStore
		cachePing = redisStore
	default:
		log.Warn().Msg("cart snapshots kept in memory, carts will not survive a restart")
		snapshots = storage.NewMemorySnapshotStore()
	}

	app := fiber.New(fiber.Config{
		AppName:      "Restaurant Cart",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	validate := validator.New()

	couponRepo := repository.NewCouponRepository(pool)
	sideRuleRepo := repository.NewSideRuleRepository(pool)
	cartService := service.NewCartService(snapshots, couponRepo, sideRuleRepo, cfg.Cart.KeyPrefix)
	cartHandler := handler.NewCartHandler(cartService, validate)

	healthHandler := handler.NewHealthHandler(pool, cachePing)
	app.Get("/health", healthHandler.Check)

	cartHandler.Register(app)

	evictCtx, stopEviction := context.WithCancel(ctx)
	defer stopEviction()
	go cartService.RunEviction(evictCtx, cfg.Cart.IdleTimeout())

	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("cart_storage", cfg.Cart.Storage).
			Dur("session_idle", cfg.Cart.IdleTimeout()).
			Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	stopEviction()
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close backends AFTER server shutdown so in-flight saves can finish
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis client")
		}
	}
	pool.Close()
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
