package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/models"
	"shareit/internal/repository"
	"shareit/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var openBackoff = database.OpenBackoff{
	Attempts: 6,
	Base:     time.Second,
	Cap:      15 * time.Second,
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenWithRetry(ctx, cfg.Database, openBackoff, &logger)
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.Database.Driver).Msg("init database")
		return err
	}
	defer db.Close()

	bus := events.NewEventBus(&logger)
	events.RegisterAuditLog(bus, &logger)

	users := service.NewUserService(db, &logger)
	items := service.NewItemService(db, bus, cfg.Booking.CommentGrace, &logger)
	svc := api.Services{
		Users:    users,
		Items:    items,
		Bookings: service.NewBookingService(db, bus, &logger),
		Requests: service.NewRequestService(db, bus, &logger),
	}

	if err := seedData(ctx, users, items, &logger); err != nil {
		return err
	}

	memoryLimiter := repository.NewMemoryRateLimiter()
	go memoryLimiter.RunSweeper(ctx, time.Minute)

	var userLimiter domain.RateLimiter = memoryLimiter
	redisClient := initRedis(ctx, cfg, &logger)
	if redisClient != nil {
		defer (func() { _ = repository.Close(redisClient) })()
		userLimiter = repository.NewFailoverRateLimiter(repository.NewRedisRateLimiter(redisClient), memoryLimiter, &logger)
	}

	backup := database.NewBackupService(db, cfg.Backup, &logger)
	go backup.Start(ctx)

	startMetrics(ctx, cfg, db, &logger)

	httpServer := api.NewHTTPServer(cfg.API, svc, db, userLimiter, &logger)
	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// seedData loads SEED_PATH when set. Users whose email already exists are skipped with their items.
func seedData(ctx context.Context, users *service.UserService, items *service.ItemService, logger *zerolog.Logger) error {
	seedPath := os.Getenv("SEED_PATH")
	if seedPath == "" {
		return nil
	}

	seed, err := config.LoadSeed(seedPath)
	if err != nil {
		logger.Error().Err(err).Str("seed_path", seedPath).Msg("load seed")
		return err
	}

	created := 0
	for _, su := range seed.Users {
		user, err := users.CreateUser(ctx, &models.User{Name: su.Name, Email: su.Email})
		if domain.KindOf(err) == domain.KindConflict {
			logger.Info().Str("email", su.Email).Msg("seed user exists, skipping")
			continue
		}
		if err != nil {
			return fmt.Errorf("seed user %s: %w", su.Email, err)
		}

		for _, si := range su.Items {
			item := &models.Item{Name: si.Name, Description: si.Description, Available: si.IsAvailable()}
			if _, err := items.CreateItem(ctx, user.ID, item); err != nil {
				return fmt.Errorf("seed item %s: %w", si.Name, err)
			}
			created++
		}
	}

	logger.Info().Int("users", len(seed.Users)).Int("items", created).Msg("seed data loaded")
	return nil
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := repository.Ping(pingCtx, redisClient); err != nil {
		// The failover limiter keeps retrying, so a down Redis at startup is not fatal.
		logger.Warn().Err(err).Msg("redis connection failed, starting on memory limiter")
	} else {
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}
	return redisClient
}

func startMetrics(ctx context.Context, cfg *config.Config, db *database.DB, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	if err := metrics.RegisterUserCache(db.CachedUsers); err != nil {
		logger.Warn().Err(err).Msg("register user cache gauge")
	}
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Str("http_addr", httpServer.Addr()).Str("driver", cfg.Database.Driver).Msg("API server started")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			return err
		}
		return errors.New("http server exited unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
