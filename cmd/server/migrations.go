package main

import (
	"fmt"

	"github.com/phrazzld/recipe-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

// supported goose commands
var migrateCommands = map[string]bool{
	"up":        true,
	"up-by-one": true,
	"down":      true,
	"status":    true,
	"version":   true,
	"reset":     true,
	"redo":      true,
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|up-by-one|down|status|version|reset|redo]",
		Short: "Apply or inspect database migrations",
		Long: `Runs the embedded SQL migrations against the configured database.
Without a command, all pending migrations are applied.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			if !migrateCommands[command] {
				return fmt.Errorf("unsupported migration command %q", command)
			}
			return runMigrations(cmd, *configPath, command)
		},
	}
}

// runMigrations connects to the database and runs command against it. The
// selected store backend is ignored; migrations always target the database.
func runMigrations(cmd *cobra.Command, configPath, command string) error {
	ctx := cmd.Context()

	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	pool, err := openPool(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, command, logger); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	logger.Info("Migrations finished", "command", command)
	return nil
}
