package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"FinSeason/pkg/config"
)

var configPath string

// rootCmd is the base command of the FinSeason CLI.
var rootCmd = &cobra.Command{
	Use:   "finseason",
	Short: "Seasonal pattern analysis for equities and ETFs",
	Long: `FinSeason aggregates historical returns by calendar period and market
event (FOMC, CPI, NFP, options expiry, ex-dividend dates, ...) and serves the
results over HTTP, Kafka and this CLI.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (defaults plus environment when empty)")
}

// loadConfig reads --config with environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
