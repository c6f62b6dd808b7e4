package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sjsage522/topicworker/config"
	"sjsage522/topicworker/helpers"
	"sjsage522/topicworker/internal"
	"sjsage522/topicworker/internal/portal"
	"sjsage522/topicworker/logger"
	"sjsage522/topicworker/services/cache"
	"sjsage522/topicworker/services/notifier"
	"sjsage522/topicworker/services/publisher"
	"sjsage522/topicworker/services/store"
	"sjsage522/topicworker/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration, check the .env file")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid schedule timezone")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Strs("schedule", cfg.ScheduleTimes).
		Str("timezone", loc.String()).
		Str("topics_file", cfg.TopicsFile).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	deps, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer deps.Cleanup()

	if !cfg.MailConfigured() {
		log.Error().Msg("Missing email credentials, notifications will not be delivered")
	}

	w := worker.NewWorker(
		deps.Portal,
		deps.Store,
		deps.Notifier,
		deps.Publisher,
		helpers.NewLogger(cfg.ErrorLogFile),
	)

	if err := deps.Portal.Login(ctx); err != nil {
		log.Fatal().Err(err).Msg("Initial login failed")
	}

	if !cfg.SendInitialEmails {
		if err := w.Seed(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to store initial topics")
		}
	}

	scheduler := worker.NewScheduler(cfg.ScheduleTimes, loc, cfg.MaxJitter, func(ctx context.Context) {
		// Errors are already logged by the worker
		w.RunCycle(ctx)
	})
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	sig := <-sigChan
	log.Info().
		Str("signal", sig.String()).
		Msg("Received shutdown signal")
	cancel()

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	scheduler.Stop()
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*internal.Dependencies, error) {
	deps := &internal.Dependencies{}

	// Rate limit guard: memcached when configured, process memory otherwise
	if cfg.MemcacheAddr != "" {
		memcacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := memcacheService.Ping(); err != nil {
			return nil, fmt.Errorf("failed to connect to memcache at %s: %w", cfg.MemcacheAddr, err)
		}
		deps.Cache = memcacheService
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	} else {
		deps.Cache = cache.NewMemoryCache()
	}

	// Optional stream of new topics
	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		if err := redisPublisher.Ping(ctx); err != nil {
			redisPublisher.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		deps.Publisher = redisPublisher
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	portalClient, err := portal.NewClient(cfg, deps.Cache)
	if err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to create portal client: %w", err)
	}
	deps.Portal = portalClient

	deps.Store = store.NewJSONFileStore(cfg.TopicsFile)

	deps.Notifier = notifier.NewTopicNotifier(notifier.NewSMTPMailer(notifier.SMTPConfig{
		Host:          cfg.SMTPHost,
		Port:          cfg.SMTPPort,
		SenderEmail:   cfg.SenderEmail,
		ReceiverEmail: cfg.ReceiverEmail,
		AppPassword:   cfg.AppPassword,
	}))

	return deps, nil
}
