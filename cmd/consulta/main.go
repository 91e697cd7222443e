// Package main provides the consulta command that renders participation
// maps for the configured survey datasets.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"consulta/internal/config"
	"consulta/internal/logger"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "consulta",
	Short: "Render participation maps for popular consultations",
	Long: `consulta joins per-state survey results with state boundaries and renders
a choropleth map, a ranking table, an optional response chart and a signed
markdown report for every configured dataset.

Run without a subcommand to render every enabled dataset.`,
	Args:         cobra.NoArgs,
	RunE:         runRender,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/consulta.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(combineCmd)
	rootCmd.AddCommand(verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and builds the logger it asks for.
// --log-level overrides the configured level.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration %s: %w", configPath, err)
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	if logLevel != "" {
		if !config.ValidLogLevel(logLevel) {
			return nil, nil, fmt.Errorf("--log-level %q: %w", logLevel, config.ErrInvalidLogLevel)
		}

		log.SetLevel(logLevel)
	}

	log.Debug("Loaded configuration", "path", configPath, "config", cfg.String())

	return cfg, log, nil
}

// selectDatasets returns the named datasets, or every enabled one when no
// names are given.
func selectDatasets(cfg *config.Config, ids []string) ([]config.DatasetConfig, error) {
	if len(ids) == 0 {
		return cfg.EnabledDatasets(), nil
	}

	selected := make([]config.DatasetConfig, 0, len(ids))

	for _, id := range ids {
		d, ok := cfg.Dataset(id)
		if !ok {
			return nil, fmt.Errorf("unknown dataset %q", id)
		}

		selected = append(selected, d)
	}

	return selected, nil
}
