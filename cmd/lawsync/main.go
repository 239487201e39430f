package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"law_mirror/internal/config"
	"law_mirror/internal/markup"
	"law_mirror/internal/publisher"
	"law_mirror/internal/resolver"
	"law_mirror/internal/scheduler"
	"law_mirror/internal/service"
	"law_mirror/internal/source/discord"
	"law_mirror/internal/storage/lawfile"
	"law_mirror/internal/storage/postgres"
	"law_mirror/internal/tally"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single sync and exit")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	// Create Discord session (REST only, no gateway)
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		logger.Error("failed to create discord session", "error", err)
		os.Exit(1)
	}

	src := discord.New(session, discord.Config{
		GuildID:      cfg.Discord.GuildID,
		MessageLimit: cfg.Discord.MessageLimit,
	}, logger)

	// Rendering pipeline: resolver feeds mention translation, the counter
	// builds transcripts and tallies votes.
	res := resolver.New(src, logger)
	counter := tally.NewCounter(markup.NewTranslator(res), res)

	store := lawfile.NewStore(cfg.Output.Path, logger)

	// Optional RabbitMQ publisher
	var pub service.Publisher
	if cfg.RabbitMQ.Enabled() {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	// Optional run-history database
	var runs service.RunStore
	if cfg.Database.Enabled() {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		logger.Info("connected to database")
		runs = postgres.NewRunHistoryStore(db)
	}

	syncService := service.NewSyncService(
		src,
		store,
		counter,
		pub,
		runs,
		logger,
		service.Config{
			Channels:       cfg.Discord.Channels,
			Kinds:          cfg.Discord.Kinds(),
			SpecialChannel: cfg.Discord.SpecialChannel,
		},
	)

	logger.Info("starting law mirror",
		"channels", cfg.Discord.Channels,
		"thread_kinds", cfg.Discord.ThreadKinds,
		"output", cfg.Output.Path,
		"interval", cfg.Sync.Interval,
	)

	if *once {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Sync.RunTimeout)
		defer cancel()

		if _, err := syncService.Sync(ctx); err != nil {
			logger.Error("sync failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sched := scheduler.NewScheduler(syncService, cfg.Sync.Interval, cfg.Sync.RunTimeout, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
