// Package cli implements the game-picker command line: serve the HTTP API
// and manage the history schema.
package cli

import (
	"os"

	"github.com/Sternrassler/game-picker/internal/config"
	"github.com/Sternrassler/game-picker/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgFile string

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "game-picker",
		Short: "Free-to-play game recommendations",
		Long: `game-picker recommends a random free-to-play game matching a genre,
platform and memory filter, using the FreeToGame catalog, and keeps a
history of every recommendation it made.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $CONFIG_PATH or ./config.yaml)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())

	return root
}

// loadConfig resolves configuration and installs the global logger.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	if cfgFile != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, cfgFile); err != nil {
			return nil, zerolog.Nop(), err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Logging.Level),
		Format: logging.Format(cfg.Logging.Format),
		Output: os.Stderr,
	})

	return cfg, logger, nil
}
