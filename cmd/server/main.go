package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maale/internal/api"
	"maale/internal/config"
	"maale/internal/database"
	"maale/internal/domain"
	"maale/internal/events"
	"maale/internal/export"
	"maale/internal/logging"
	"maale/internal/metrics"
	"maale/internal/models"
	"maale/internal/service"
	"maale/internal/session"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

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
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("database init failed")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.SeedDefaultAdmin(ctx); err != nil {
		return err
	}

	adminLogService := service.NewAdminLogService(db, &logger)
	// Retention runs once per process start.
	if err := adminLogService.Retain(ctx, time.Now()); err != nil {
		logger.Error().Err(err).Msg("admin log retention failed")
	}

	redisClient, sessions := initSessionStore(ctx, cfg, &logger)
	if redisClient != nil {
		defer func() { _ = session.Close(redisClient) }()
	}

	metrics.Register()
	eventBus := events.NewEventBus()
	subscribeMetricEvents(eventBus, &logger)

	bookingService := service.NewBookingService(db, eventBus, adminLogService, cfg.Booking.ForwardWindowDays, &logger)
	announcementService := service.NewAnnouncementService(db, eventBus, adminLogService, &logger)
	authService := service.NewAuthService(db, sessions, &logger)
	exporter := export.NewExporter(cfg.Exports.Path, &logger)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	server := api.NewHTTPServer(cfg.Server, cfg.Monitoring, authService, bookingService, announcementService, adminLogService, exporter, &logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "server-main").Logger()

	return cfg, logger, closer, nil
}

// initSessionStore prefers Redis with an in-memory fallback; without Redis
// the in-memory store serves alone.
func initSessionStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, domain.SessionStore) {
	memory := session.NewMemoryStore(models.SessionTTL)
	if !cfg.Redis.Enabled {
		return nil, memory
	}

	client := session.NewRedisClient(cfg.Redis)
	if err := session.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable at startup, sessions start on the memory store")
	}

	primary := session.NewRedisStore(client, models.SessionTTL)
	return client, session.NewFailoverStore(primary, memory, logger)
}

func subscribeMetricEvents(bus *events.EventBus, logger *zerolog.Logger) {
	bus.Subscribe(events.EventBookingCreated, func(event *events.Event) error {
		metrics.IncBookingCreated()
		return nil
	})

	bus.Subscribe(events.EventBookingDeleted, func(event *events.Event) error {
		metrics.IncBookingsDeleted(1)
		return nil
	})

	bus.Subscribe(events.EventBookingsPurged, func(event *events.Event) error {
		var payload events.PurgeEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			logger.Error().Err(err).Msg("bad purge event payload")
			return err
		}
		metrics.IncBookingsDeleted(payload.Removed)
		return nil
	})

	bus.Subscribe(events.EventAnnouncementPublished, func(event *events.Event) error {
		metrics.IncAnnouncementPublished()
		return nil
	})
}
