package cmd

import (
	"context"
	"fmt"
	"time"

	"parlay/application"
	"parlay/bot"
	"parlay/config"
	"parlay/database"
	"parlay/domain/interfaces"
	"parlay/infrastructure"
	"parlay/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.WithField("environment", cfg.Environment).Info("Starting parlay bot...")

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics := observability.GetMetrics()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event publishing
	eventPublisher, natsClient, err := newEventPublisher(ctx, cfg, metrics)
	if err != nil {
		db.Close()
		return err
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)
	ledger := application.NewLedger(uowFactory, ledgerConfig(cfg), metrics)

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:            cfg.DiscordToken,
		GuildID:          cfg.GuildID,
		Location:         cfg.Location(),
		LeaderboardLimit: cfg.LeaderboardLimit,
	}, ledger)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	<-ctx.Done()

	log.Info("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error shutting down metrics")
	}

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}

// ConfigureLogging applies the configured level and formatter
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// newEventPublisher connects to NATS when configured. Without NATS events are dropped.
func newEventPublisher(ctx context.Context, cfg *config.Config, metrics *observability.MetricsProvider) (interfaces.EventPublisher, *infrastructure.NATSClient, error) {
	if cfg.NATSServers == "" {
		log.Info("NATS_SERVERS not set, events will not be published")
		return infrastructure.NewNoopEventPublisher(), nil, nil
	}

	log.WithField("servers", cfg.NATSServers).Info("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	publisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper(), metrics)
	if err := publisher.EnsureDomainEventStream(natsClient); err != nil {
		natsClient.Close()
		return nil, nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}

	return publisher, natsClient, nil
}

func ledgerConfig(cfg *config.Config) application.LedgerConfig {
	return application.LedgerConfig{
		StartingTokens: cfg.StartingTokens,
		MinWager:       cfg.MinWager,
		MaxWager:       cfg.MaxWager,
		MaxLegs:        cfg.MaxLegs,
		Location:       cfg.Location(),
	}
}
