// Command partsdesk maintains the parts listing site: it merges search
// result exports into the record store, refreshes the side documents and
// serves the site locally.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"parts-desk/internal/config"
	"parts-desk/internal/domain"
	"parts-desk/internal/logging"
)

// app carries the global flags and the loaded configuration to subcommands.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg   *config.Config
	clock domain.Clock
}

func newRootCmd() *cobra.Command {
	a := &app{clock: domain.RealClock{}}

	root := &cobra.Command{
		Use:   "partsdesk",
		Short: "Maintain the parts listing site",
		Long: `partsdesk keeps the parts listing site's data current.

  merge   fold search-results CSV exports into the record store
  cars    convert (or copy) the newest vehicle export for the site
  parts   push parts.txt into the search extension's configuration
  serve   serve the site with the record delete endpoint`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default partsdesk.yaml, or $"+config.ConfigPathEnvVar+")")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: console or json")

	root.AddCommand(
		newServeCmd(a),
		newMergeCmd(a),
		newCarsCmd(a),
		newPartsCmd(a),
	)
	return root
}

// setup loads the configuration, applies the global flags and configures
// logging before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})

	a.cfg = cfg
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logging.Err(err).Msg("partsdesk failed")
		stop()
		os.Exit(1)
	}
}
