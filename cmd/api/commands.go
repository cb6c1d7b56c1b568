package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yigit/campuscare/internal/bootstrap"
	"github.com/yigit/campuscare/internal/server"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "campuscare",
		Short:         "CampusCare student onboarding API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", bootstrap.DefaultConfigPath, "path to the YAML config file")

	root.AddCommand(
		newServeCmd(&configPath),
		newReconcileCmd(&configPath),
	)

	// Running without a subcommand serves the API
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return serve(configPath)
	}

	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*configPath)
		},
	}
}

func serve(configPath string) error {
	srv, err := server.NewServer(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	// Blocks until shutdown signal
	return srv.Run()
}

func newReconcileCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Restore counselor mentee links missing after interrupted registrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			storage, err := bootstrap.SetupStore(ctx, cfg, lgr)
			if err != nil {
				return err
			}
			defer storage.Close()

			deps := bootstrap.BuildDependencies(cfg, storage.Store, lgr)
			defer deps.RateLimiter.Stop()

			repaired, err := bootstrap.ReconcileMentees(ctx, deps)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "repaired %d mentee link(s)\n", repaired)
			return nil
		},
	}
}
