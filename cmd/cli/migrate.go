package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/migrations"
	"github.com/akeren/waitlist-api/pkg/utils"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const migrateTimeout = 5 * time.Minute

var errSQLiteMigrations = errors.New("versioned migrations need postgres; sqlite only supports 'migrate up', which auto-migrates")

func newMigrateCommand(logger *log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrationDB(cmd.Context(), logger, func(ctx context.Context, _ *gorm.DB, sqlDB *sql.DB, cfg migrations.Config) error {
				if sqlDB == nil {
					return errSQLiteMigrations
				}
				return migrations.Down(ctx, sqlDB, cfg, steps)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrationDB(cmd.Context(), logger, func(ctx context.Context, db *gorm.DB, sqlDB *sql.DB, cfg migrations.Config) error {
					if sqlDB == nil {
						return config.AutoMigrate(logger, db, models.ModelRegistry...)
					}
					return migrations.Up(ctx, sqlDB, cfg)
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrationDB(cmd.Context(), logger, func(ctx context.Context, _ *gorm.DB, sqlDB *sql.DB, cfg migrations.Config) error {
					if sqlDB == nil {
						return errSQLiteMigrations
					}
					status, err := migrations.Version(ctx, sqlDB, cfg)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), formatStatus(status))
					return nil
				})
			},
		},
	)

	return cmd
}

func formatStatus(status migrations.Status) string {
	switch {
	case status.Empty:
		return "no migrations applied"
	case status.Dirty:
		return fmt.Sprintf("version %d (dirty)", status.Version)
	default:
		return fmt.Sprintf("version %d", status.Version)
	}
}

// withMigrationDB opens the configured database for fn. sqlDB is nil for
// SQLite, which has no versioned migrations.
func withMigrationDB(
	ctx context.Context,
	logger *log.Logger,
	fn func(ctx context.Context, db *gorm.DB, sqlDB *sql.DB, cfg migrations.Config) error,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	dbCfg := config.NewDBConfigFromEnv()
	db, err := config.NewDatabase(logger, dbCfg)
	if err != nil {
		return fmt.Errorf("connect for migration: %w", err)
	}
	defer config.CloseDatabase(db, logger)

	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	cfg := migrations.Config{
		Dir:    utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations"),
		Logger: logger,
	}

	if dbCfg.Driver == config.DriverSQLite {
		return fn(ctx, db, nil, cfg)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db for migration: %w", err)
	}
	return fn(ctx, db, sqlDB, cfg)
}
