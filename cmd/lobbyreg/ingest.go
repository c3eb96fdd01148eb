package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lobbyreg/internal/persist"
	"lobbyreg/internal/pipeline"
	"lobbyreg/internal/pipeline/metrics"
	"lobbyreg/internal/platform/config"
	"lobbyreg/internal/platform/httpserver"
	"lobbyreg/internal/platform/logger"
	"lobbyreg/internal/platform/postgres"
	"lobbyreg/internal/refstore"
	"lobbyreg/internal/source"
)

var (
	ingestFetchWorkers   int
	ingestPersistWorkers int
	ingestInitSchema     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch and persist every register entry",
	Long: `ingest lists all register entries from the lobby register API, fetches
each entry document concurrently, normalizes it into relational rows, and
upserts everything into PostgreSQL. A rerun over unchanged documents leaves
the database untouched.

Individual documents that fail to fetch, normalize, or persist are reported
at the end without stopping the run; the process exits nonzero when any
document failed.

Examples:
  # Full run against the configured database
  ./lobbyreg ingest

  # Create the schema first, then ingest with more download workers
  ./lobbyreg ingest --init-schema --fetch-workers 8`,
	Run: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().IntVar(&ingestFetchWorkers, "fetch-workers", 0, "Concurrent API downloads (overrides LOBBYREG_FETCH_WORKERS)")
	ingestCmd.Flags().IntVar(&ingestPersistWorkers, "persist-workers", 0, "Concurrent database writers (overrides LOBBYREG_PERSIST_WORKERS)")
	ingestCmd.Flags().BoolVar(&ingestInitSchema, "init-schema", false, "Create tables and indexes before ingesting")
}

func runIngest(cmd *cobra.Command, args []string) {
	cfg := config.FromEnv()
	if ingestFetchWorkers > 0 {
		cfg.FetchWorkers = ingestFetchWorkers
	}
	if ingestPersistWorkers > 0 {
		cfg.PersistWorkers = ingestPersistWorkers
	}
	lg := logger.New()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		lg.Println("received interrupt, finishing in-flight documents...")
		cancel()
	}()

	db, err := postgres.Open(ctx, cfg.DatabaseDSN, cfg.PersistWorkers*2)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	engine := persist.NewEngine(db, refstore.New(refstore.NewPostgresStore(db)), lg)
	if ingestInitSchema {
		if err := engine.InitSchema(ctx); err != nil {
			log.Fatalf("create schema: %v", err)
		}
	}

	srv := httpserver.New(cfg.MetricsAddr, db)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Printf("metrics server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	client := source.New(cfg.APIBaseURL, cfg.APIKey, cfg.FetchTimeout, lg)
	p := pipeline.New(client, engine, pipeline.Config{
		FetchWorkers:   cfg.FetchWorkers,
		PersistWorkers: cfg.PersistWorkers,
		QueueSize:      cfg.QueueSize,
		MaxRetries:     cfg.MaxRetries,
		Backoff:        cfg.Backoff,
		BackoffMax:     cfg.BackoffMax,
		FetchTimeout:   cfg.FetchTimeout,
		PersistTimeout: cfg.PersistTimeout,
	}, lg, metrics.New())

	report, err := p.Run(ctx)
	if err != nil {
		if ctx.Err() != nil && report != nil {
			printSummary(lg, report)
			os.Exit(1)
		}
		log.Fatalf("ingestion failed: %v", err)
	}

	printSummary(lg, report)
	if report.Failed() > 0 {
		os.Exit(1)
	}
}

func printSummary(lg *log.Logger, report *pipeline.Report) {
	lg.Println("")
	lg.Println("=== Ingestion Summary ===")
	lg.Printf("Run ID:    %s", report.RunID)
	lg.Printf("Listed:    %d", report.Listed)
	lg.Printf("Succeeded: %d", report.Succeeded())
	lg.Printf("Failed:    %d", report.Failed())
	lg.Printf("Duration:  %s", report.Finished.Sub(report.Started).Round(time.Millisecond))
	for _, f := range report.Failures() {
		lg.Printf("  %s [%s]: %v", f.RegisterNumber, f.Stage, f.Err)
	}
}
