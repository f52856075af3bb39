// Package main implements the entry point for the recipe API server, which
// accepts recipe embedding jobs, runs them in the background and reports
// their progress.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// flag names
const (
	flagConfig = "config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the binary without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	var configPath string

	serve := newServeCmd(&configPath)

	root := &cobra.Command{
		Use:   "recipe-api",
		Short: "Recipe API - asynchronous recipe embedding jobs",
		Long: `Recipe API accepts embedding requests over HTTP, runs them on a bounded
background worker pool and exposes each job's progress through its stages.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.PersistentFlags().StringVarP(&configPath, flagConfig, "c", "",
		"Path to a config file (default: ./config.yaml when present)")

	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd(&configPath))
	root.AddCommand(newStatusCmd(&configPath))

	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and job dispatcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, *configPath)
		},
	}
}

// runServer wires the application together and blocks until the server
// shuts down.
func runServer(cmd *cobra.Command, configPath string) error {
	ctx := cmd.Context()

	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	pool, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, logger, pool)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
