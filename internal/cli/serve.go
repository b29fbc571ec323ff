package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mnemonic-fyi/mnemonic/internal/api/handlers"
	"github.com/mnemonic-fyi/mnemonic/internal/cache"
	"github.com/mnemonic-fyi/mnemonic/internal/jobs"
	"github.com/mnemonic-fyi/mnemonic/internal/ratelimit"
	"github.com/mnemonic-fyi/mnemonic/internal/server"
	"github.com/mnemonic-fyi/mnemonic/internal/service"
	"github.com/mnemonic-fyi/mnemonic/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the mnemonic API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	cfg := d.cfg
	if portFlag, _ := cmd.Flags().GetString("port"); portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	sharedCache := cache.New(cfg.CacheMaxEntries)
	limiter := ratelimit.New()

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	sweeper := jobs.NewWorker(limiter, cfg.RateLimitSweep)
	go sweeper.Start(sweepCtx)

	ranker := service.NewRanker(d.searchStrategy(), d.embedding, d.repo, cfg.SimilarityThreshold)
	searchSvc := service.NewSearchServiceWithCache(ranker, d.synthesizer, sharedCache, cfg.SearchCacheTTL)
	statsSvc := service.NewStatsServiceWithCache(d.repo, sharedCache, cfg.StatsCacheTTL)
	ingestSvc := d.ingestService()

	var channelLister handlers.ChannelLister
	if d.slackClient != nil {
		channelLister = d.slackClient
	} else {
		channelLister = &noOpChannelLister{}
	}

	router := server.NewRouter(server.RouterConfig{
		Limiter: limiter,
		SearchPolicy: ratelimit.Policy{
			Name:   "search",
			Limit:  cfg.SearchRateLimit,
			Window: cfg.RateLimitWindow,
		},
		IngestPolicy: ratelimit.Policy{
			Name:   "ingest",
			Limit:  cfg.IngestRateLimit,
			Window: cfg.RateLimitWindow,
		},
		SearchHandler:   handlers.NewSearchHandler(searchSvc),
		IngestHandler:   handlers.NewIngestHandler(ingestSvc),
		StatsHandler:    handlers.NewStatsHandler(statsSvc),
		ChannelsHandler: handlers.NewChannelsHandler(channelLister),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
