// Command dashboard serves the security scanner dashboard and its analysis gateway.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/secscan-dashboard/internal/config"
	"github.com/bryanwahyu/secscan-dashboard/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	logLevel   string
	serve      serveOptions

	cfg *config.Config
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{configPath: "config.yaml"}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		opts.configPath = v
	}

	serve := newServeCommand(opts)
	cmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Security code scanner dashboard",
		Long:          "dashboard fans submitted code out to the static, dependency and AI analyzers and renders the combined result.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("config load error: %w", err)
			}
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			opts.cfg, opts.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
		// serve is the default
		RunE: serve.RunE,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "Path to the YAML config file (env CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	addServeFlags(cmd.Flags(), &opts.serve)

	cmd.AddCommand(serve, newScanCommand(opts), newMigrateCommand(opts))
	return cmd
}
