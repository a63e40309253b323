package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/hospitality/backend/internal/infrastructure/logger"
	"github.com/hospitality/backend/internal/infrastructure/migration"
	"github.com/hospitality/backend/internal/infrastructure/persistence"
	"github.com/hospitality/backend/internal/infrastructure/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error { return m.Up() })
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error { return m.Down() })
	},
}

var stepsCmd = &cobra.Command{
	Use:   "steps <n>",
	Short: "Apply n migrations, negative n rolls back",
	Example: `  migrate steps 1
  migrate steps -- -1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n == 0 {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error { return m.Steps(n) })
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the applied schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migration.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				log.Info("No migrations applied")
				return nil
			}
			log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
			return nil
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Mark a version as applied without running it",
	Long:  "Clears the dirty flag after a failed migration was repaired by hand.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrator(func(m *migration.Migrator) error { return m.Force(version) })
	},
}

var createCmd = &cobra.Command{
	Use:   "create <name> [description]",
	Short: "Create the next up/down migration pair",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := ""
		if len(args) == 2 {
			description = args[1]
		}
		mf, err := migration.CreateMigration(sourceDir(), args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.Int("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List migrations on disk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := migration.ListMigrations(sourceDir())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			log.Info("No migrations found")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a seed dataset into a migrated database",
	Long: `Inserts a tenant with its users, venues, rooms, staff, leads and pages.
Without --file the bundled demo dataset is used. A tenant that already
exists is left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(seedFile)
		if err != nil {
			return err
		}

		gormLog := logger.NewGormLogger(log, logger.GormLevel(logLevel), cfg.Telemetry.DBSlowQueryThresh)
		db, err := persistence.NewDatabase(&cfg.Database, gormLog)
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()

		res, err := seed.NewSeeder(db.DB, log).Seed(context.Background(), ds)
		if err != nil {
			return err
		}
		if res.Skipped {
			log.Info("Tenant already present, nothing seeded", zap.String("tenant_id", res.TenantID.String()))
			return nil
		}
		log.Info("Seed complete",
			zap.String("tenant_id", res.TenantID.String()),
			zap.Int("users", res.Users),
			zap.Int("properties", res.Properties),
			zap.Int("rooms", res.Rooms),
			zap.Int("staff", res.Staff),
			zap.Int("leads", res.Leads),
			zap.Int("pages", res.Pages),
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML dataset to load instead of the demo data")
}

func loadDataset(path string) (*seed.Dataset, error) {
	if path == "" {
		return seed.Demo()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return seed.Parse(data)
}

func sourceDir() string {
	if migrationsDir != "" {
		return migrationsDir
	}
	return defaultMigrationsDir
}
