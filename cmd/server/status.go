package main

import (
	"encoding/json"
	"fmt"

	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
	"github.com/phrazzld/recipe-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Print a stored job and its current stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseJobID(args[0])
			if err != nil {
				return err
			}
			return printJob(cmd, *configPath, id)
		},
	}
}

// printJob reads the job straight from the database and writes it to the
// command's output as indented JSON.
func printJob(cmd *cobra.Command, configPath string, id domain.JobID) error {
	ctx := cmd.Context()

	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	// Logs go to stderr so stdout carries only the job.
	log := logger.SetupWithWriter(cfg.Server.LogLevel, cmd.ErrOrStderr())

	pool, err := openPool(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	j, err := postgres.NewPostgresJobStore(pool).GetJob(ctx, id)
	if err != nil {
		return fmt.Errorf("error fetching job %s: %w", id, err)
	}

	out, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting job: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
