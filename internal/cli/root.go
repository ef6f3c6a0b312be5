// Package cli wires the healthsync commands: cache-first reads of the health
// data views, manual refresh, background prefetch warm-up, and session
// teardown.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/healthsync/internal/config"
	"github.com/rshade/healthsync/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the healthsync CLI.
// It wires up configuration, logging, and the subcommands (summary, metrics,
// devices, profile, sync, dashboard, logout, config).
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.Result

	cmd := &cobra.Command{
		Use:     "healthsync",
		Short:   "Health-metrics cache and synchronization client",
		Long:    "healthsync: cache-first client for patient health metrics with offline fallback",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			result := setupLogging(cmd, cfg)
			logResult = &result

			ctx := logger.WithContext(cmd.Context())
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)

			logger.Debug().Str("command", cmd.Name()).Msg("command started")
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if logResult != nil {
				return logResult.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file path (default ~/.healthsync/config.yaml)")
	cmd.PersistentFlags().String("base-url", "", "backend base URL (overrides config and env)")
	cmd.PersistentFlags().String("patient", "", "patient ID (overrides config)")

	cmd.AddCommand(
		NewSummaryCmd(), NewMetricsCmd(), NewDevicesCmd(), NewProfileCmd(),
		NewSyncCmd(), NewDashboardCmd(), NewLogoutCmd(), newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Show today's health summary (cache-first, offline-tolerant)
  healthsync summary

  # Force a refresh from the backend
  healthsync summary --refresh

  # Show aggregated metrics for a window
  healthsync metrics --period daily --days 7

  # Warm the cache in the background
  healthsync sync

  # Interactive dashboard
  healthsync dashboard

  # Show the patient profile, preferring a fresh cached copy
  healthsync profile

  # Clear all cached data
  healthsync logout

  # Initialize configuration
  healthsync config init`

// loadConfig resolves the configuration with CLI flag overrides applied.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if baseURL, _ := cmd.Flags().GetString("base-url"); baseURL != "" {
		cfg.Backend.BaseURL = baseURL
	}
	if patient, _ := cmd.Flags().GetString("patient"); patient != "" {
		cfg.Sync.PatientID = patient
	}
	return cfg, nil
}

// setupLogging configures the package logger from config and the --debug flag.
func setupLogging(cmd *cobra.Command, cfg *config.Config) logging.Result {
	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: logging.OutputStderr,
		File:   cfg.Logging.File,
	}
	if cfg.Logging.File != "" {
		logCfg.Output = logging.OutputFile
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logCfg.Level = "debug"
		logCfg.Format = "console"
		logCfg.Output = logging.OutputStderr
		logCfg.File = ""
	}
	if !isTerminal(os.Stderr) && logCfg.Format == "console" {
		logCfg.Format = "json"
	}

	result := logging.New(logCfg)
	logger = logging.ComponentLogger(result.Logger, "cli")
	return result
}

// configCtxKey carries the resolved config through command contexts.
type configCtxKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configCtxKey{}, cfg)
}

// configFromContext returns the config stashed by PersistentPreRunE.
func configFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configCtxKey{}).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return cfg, nil
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd())
	return cmd
}
