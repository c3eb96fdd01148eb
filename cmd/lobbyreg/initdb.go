package main

import (
	"log"

	"github.com/spf13/cobra"

	"lobbyreg/internal/persist"
	"lobbyreg/internal/platform/config"
	"lobbyreg/internal/platform/logger"
	"lobbyreg/internal/platform/postgres"
	"lobbyreg/internal/refstore"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the relational schema",
	Long: `initdb connects to PostgreSQL and creates every table and index the
ingester writes to. All statements are idempotent, so running it against
an existing database is safe.`,
	Run: runInitDB,
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}

func runInitDB(cmd *cobra.Command, args []string) {
	cfg := config.FromEnv()
	lg := logger.New()

	db, err := postgres.Open(cmd.Context(), cfg.DatabaseDSN, 2)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	engine := persist.NewEngine(db, refstore.New(refstore.NewPostgresStore(db)), lg)
	if err := engine.InitSchema(cmd.Context()); err != nil {
		log.Fatalf("create schema: %v", err)
	}
}
