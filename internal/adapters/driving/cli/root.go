// Package cli implements the cpn command line interface on cobra. The
// root command assembles the config store and settings service before
// any subcommand runs; heavier pieces (provider engines, notifiers)
// are built per command from the loaded settings.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/check-phat-nguoi/cpn-core/internal/adapters/driven/config/file"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driving"
	"github.com/check-phat-nguoi/cpn-core/internal/core/services"
	"github.com/check-phat-nguoi/cpn-core/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgPath  string
	logLevel string
	verbose  bool
)

// Shared dependencies, assembled in setup before any subcommand runs.
var (
	rootLogger      zerolog.Logger
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "cpn",
	Short: "Look up Vietnamese traffic violations",
	Long: `cpn checks Vietnamese license plates for traffic violations (phạt nguội)
across several public data sources and can push the results to Telegram
or Discord.

Run 'cpn config init' once to create a configuration file, add plates
with 'cpn config add-plate', then 'cpn check' to query every source.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "configuration file (default ~/.cpn/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging, shorthand for --log-level debug")
}

func setup(cmd *cobra.Command, _ []string) error {
	level := logLevel
	if verbose {
		level = "debug"
	}
	rootLogger = logger.Setup(cmd.ErrOrStderr(), level, term.IsTerminal(int(os.Stderr.Fd())))

	store, err := file.NewConfigStore(cfgPath)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	settingsService = services.NewSettingsService(store, rootLogger)
	return nil
}

// Execute runs the root command. Ctrl+C cancels the command context so
// in-flight lookups stop instead of leaking.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
