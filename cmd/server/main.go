package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/meur/moviedeck/internal/config"
	"github.com/meur/moviedeck/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	var port string
	var dbPath string
	var staticDir string

	cmd := &cobra.Command{
		Use:           "moviedeck-server",
		Short:         "Serve the movies API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port = strings.TrimSpace(port); port != "" {
				cfg.Server.Bind = ":" + strings.TrimPrefix(port, ":")
			}
			if dbPath = strings.TrimSpace(dbPath); dbPath != "" {
				expanded, err := config.ExpandPath(dbPath)
				if err != nil {
					return err
				}
				cfg.Server.DBPath = expanded
			}
			if staticDir = strings.TrimSpace(staticDir); staticDir != "" {
				expanded, err := config.ExpandPath(staticDir)
				if err != nil {
					return err
				}
				cfg.Server.StaticDir = expanded
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return run(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&port, "port", "", "Server port (overrides config and PORT)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config and DB_PATH)")
	cmd.Flags().StringVar(&staticDir, "static", "", "Built frontend directory to serve at /")
	return cmd
}
