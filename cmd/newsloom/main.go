package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"newsloom/internal/cache"
	"newsloom/internal/config"
	"newsloom/internal/database"
	"newsloom/internal/hashid"
	"newsloom/internal/ingest"
	"newsloom/internal/server"
	"newsloom/internal/server/api"
	"newsloom/internal/store"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	cfg := config.DefaultConfig()

	fetchCmd := flag.NewFlagSet("fetch", flag.ExitOnError)
	fetchCmd.StringVar(&cfg.DBPath, "db", config.GetEnvString("NEWSLOOM_DB_PATH", config.DefaultDBPath),
		"Path to the SQLite database file (env: NEWSLOOM_DB_PATH)")
	fetchCmd.StringVar(&cfg.RedisURL, "redis", config.GetEnvString("NEWSLOOM_REDIS_URL", config.DefaultRedisURL),
		"Redis URL for the article cache (env: NEWSLOOM_REDIS_URL)")

	var query string
	fetchCmd.StringVar(&query, "query", "",
		"Explicit search term for all providers; empty means a random topic per provider")

	var intervalMinutes int
	fetchCmd.IntVar(&intervalMinutes, "interval", config.GetEnvInt("NEWSLOOM_INTERVAL", 0),
		"Interval in minutes between ingestion runs, 0 for one-shot mode (env: NEWSLOOM_INTERVAL)")

	var fetchLogLevelStr string
	fetchCmd.StringVar(&fetchLogLevelStr, "log-level", config.GetEnvString("NEWSLOOM_LOG_LEVEL", config.DefaultLogLevel),
		"Log level: debug, info, warn, error (env: NEWSLOOM_LOG_LEVEL)")

	serverCmd := flag.NewFlagSet("server", flag.ExitOnError)
	serverCmd.StringVar(&cfg.DBPath, "db", config.GetEnvString("NEWSLOOM_DB_PATH", config.DefaultDBPath),
		"Path to the SQLite database file (env: NEWSLOOM_DB_PATH)")
	serverCmd.StringVar(&cfg.RedisURL, "redis", config.GetEnvString("NEWSLOOM_REDIS_URL", config.DefaultRedisURL),
		"Redis URL for the article cache (env: NEWSLOOM_REDIS_URL)")
	serverCmd.StringVar(&cfg.ServerHost, "host", config.GetEnvString("NEWSLOOM_HOST", config.DefaultServerHost),
		"Host to bind the server to (env: NEWSLOOM_HOST)")
	serverCmd.IntVar(&cfg.ServerPort, "port", config.GetEnvInt("NEWSLOOM_PORT", config.DefaultServerPort),
		"Port to listen on (env: NEWSLOOM_PORT)")

	var serverLogLevelStr string
	serverCmd.StringVar(&serverLogLevelStr, "log-level", config.GetEnvString("NEWSLOOM_LOG_LEVEL", config.DefaultLogLevel),
		"Log level: debug, info, warn, error (env: NEWSLOOM_LOG_LEVEL)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "fetch":
		fetchCmd.Parse(os.Args[2:])

		if level, err := zerolog.ParseLevel(fetchLogLevelStr); err == nil {
			cfg.LogLevel = level
		}
		zerolog.SetGlobalLevel(cfg.LogLevel)

		cfg.Interval = time.Duration(intervalMinutes) * time.Minute

		if err := runFetch(cfg, query); err != nil {
			log.Error().Err(err).Msg("Ingestion failed")
			os.Exit(1)
		}

	case "server":
		serverCmd.Parse(os.Args[2:])

		if level, err := zerolog.ParseLevel(serverLogLevelStr); err == nil {
			cfg.LogLevel = level
		}
		zerolog.SetGlobalLevel(cfg.LogLevel)

		if err := runServer(cfg); err != nil {
			log.Error().Err(err).Msg("Server failed")
			os.Exit(1)
		}

	case "-h", "--help", "help":
		printUsage()
		os.Exit(0)

	default:
		log.Error().Str("command", os.Args[1]).Msg("Unknown command")
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: newsloom [command] [options]")
	fmt.Println("Commands: fetch, server")
	fmt.Println("\nFor command-specific options, use: newsloom [command] -h")
}

// newOrchestrator wires the three provider adapters against the shared
// store and cache handle.
func newOrchestrator(cfg *config.Config, db *database.DB, c *cache.Cache) *ingest.Orchestrator {
	sources := []ingest.Source{
		ingest.NewNewsAPI(cfg.Providers.NewsAPI),
		ingest.NewNewsData(cfg.Providers.NewsData),
		ingest.NewGuardian(cfg.Providers.Guardian),
	}
	return ingest.NewOrchestrator(sources, store.NewArticles(db), c, cfg.ProviderTimeout)
}

// runFetch executes the ingestion cycle either once or periodically based
// on configuration.
func runFetch(cfg *config.Config, query string) error {
	if cfg.Interval <= 0 {
		log.Info().Msg("Running in one-shot mode")
	} else {
		log.Info().Int64("interval_minutes", int64(cfg.Interval.Minutes())).Msg("Running in periodic mode")
	}

	db, err := database.NewDB(database.NewConfig(cfg.DBPath))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	c, err := cache.New(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer c.Close()

	orchestrator := newOrchestrator(cfg, db, c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-shutdown
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
	}()

	if err := runIngestionCycle(ctx, orchestrator, query); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("Ingestion cycle canceled by shutdown signal")
			return nil
		}
		return err
	}

	if cfg.Interval <= 0 {
		log.Info().Msg("One-shot ingestion completed, exiting")
		return nil
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Info().
		Dur("interval", cfg.Interval).
		Time("next_run", time.Now().Add(cfg.Interval)).
		Msg("Waiting for next ingestion cycle")

	for {
		select {
		case <-ticker.C:
			log.Info().Msg("Starting scheduled ingestion cycle")

			if err := runIngestionCycle(ctx, orchestrator, query); err != nil {
				if errors.Is(err, context.Canceled) {
					log.Info().Msg("Ingestion cycle canceled by shutdown signal")
					return nil
				}
				log.Error().Err(err).Msg("Ingestion cycle failed")
				// Continue to the next cycle rather than exiting
			}

			log.Info().
				Time("next_run", time.Now().Add(cfg.Interval)).
				Msg("Waiting for next ingestion cycle")

		case <-ctx.Done():
			log.Info().Msg("Shutting down periodic ingestion")
			return nil
		}
	}
}

// runIngestionCycle executes a single ingestion run with a bounded overall
// deadline.
func runIngestionCycle(ctx context.Context, orchestrator *ingest.Orchestrator, query string) error {
	cycleCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	report := orchestrator.Run(cycleCtx, query)
	for _, outcome := range report.Outcomes {
		if outcome.Error != "" {
			log.Warn().
				Str("provider", outcome.Provider).
				Str("error", outcome.Error).
				Msg("Provider failed during ingestion cycle")
		} else {
			log.Info().
				Str("provider", outcome.Provider).
				Int("stored", outcome.Stored).
				Msg("Provider completed ingestion cycle")
		}
	}

	return ctx.Err()
}

// runServer starts the HTTP API server with the provided configuration.
func runServer(cfg *config.Config) error {
	db, err := database.NewDB(database.NewConfig(cfg.DBPath))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	c, err := cache.New(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer c.Close()

	codec, err := hashid.New(cfg.HashSalt)
	if err != nil {
		return fmt.Errorf("failed to initialize id codec: %w", err)
	}

	handler := api.NewHandler(
		store.NewArticles(db),
		store.NewPreferences(db),
		c,
		codec,
		newOrchestrator(cfg, db, c),
	)

	return server.RunServer(handler, cfg.ListenAddr(), log.Logger, cfg.APIKey)
}
