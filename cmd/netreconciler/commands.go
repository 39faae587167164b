package main

import (
	"github.com/Flarenzy/netreconciler/internal/app"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "netreconciler",
		Short:         "Keep networks, subnets and ports in sync with their backends",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and the periodic reconcile loop",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := app.LoadConfig(configPath)
				if err != nil {
					return err
				}
				return app.Run(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "reconcile",
			Short: "Run a single reconcile iteration and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := app.LoadConfig(configPath)
				if err != nil {
					return err
				}
				return app.ReconcileOnce(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database schema migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := app.LoadConfig(configPath)
				if err != nil {
					return err
				}
				return app.Migrate(cmd.Context(), cfg)
			},
		},
	)
	return root
}
