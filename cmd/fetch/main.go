package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stocktracker/internal/app"
	"stocktracker/internal/config"
	"stocktracker/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
	asJSON     bool
	timeout    time.Duration
}

// build loads config and wires the service. CLI logs go to stderr in console form.
func (o *rootOptions) build() (*app.App, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	level := cfg.Logging.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	return app.New(cfg, logging.New(level, "console"))
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "fetch",
		Short:         "Query NSE/BSE prices and all-time highs from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.yaml or config.json (optional)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 20*time.Second, "per-query deadline")

	cmd.AddCommand(
		newQuoteCmd(opts),
		newWatchCmd(opts),
		newHistoryCmd(opts),
		newSymbolsCmd(opts),
	)
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
