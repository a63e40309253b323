package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/hospitality/backend/internal/infrastructure/config"
	"github.com/hospitality/backend/internal/infrastructure/logger"
	"github.com/hospitality/backend/internal/infrastructure/migration"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrationsDir string
	databaseURL   string
	logLevel      string

	log *zap.Logger
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Hospitality database migration tool",
	Long: `Apply and inspect the PostgreSQL schema of the hospitality backend.

Migrations are embedded in the binary. Pass --dir to read them from disk
instead, which is what "create" and "list" operate on.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		log, err = logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "", "read migrations from this directory instead of the embedded set")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "postgres:// URL, overrides HMS_DATABASE_* settings")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	rootCmd.AddCommand(upCmd, downCmd, stepsCmd, versionCmd, forceCmd, createCmd, listCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withMigrator opens the database and runs fn with a ready Migrator
func withMigrator(fn func(m *migration.Migrator) error) error {
	if databaseURL != "" && migrationsDir != "" {
		m, err := migration.NewFromDir(databaseURL, migrationsDir, log)
		if err != nil {
			return err
		}
		defer closeMigrator(m)
		return fn(m)
	}

	dsn := cfg.Database.DSN()
	if databaseURL != "" {
		dsn = databaseURL
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	var m *migration.Migrator
	if migrationsDir != "" {
		m, err = migration.NewFromFS(db, os.DirFS(migrationsDir), log)
	} else {
		m, err = migration.New(db, log)
	}
	if err != nil {
		_ = db.Close()
		return err
	}
	// Closing the migrator also closes db
	defer closeMigrator(m)
	return fn(m)
}

func closeMigrator(m *migration.Migrator) {
	if err := m.Close(); err != nil {
		log.Warn("Failed to close migrator", zap.Error(err))
	}
}
