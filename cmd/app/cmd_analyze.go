package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"FinSeason/internal/di"
	"FinSeason/internal/domain/models"
	"FinSeason/internal/usecase"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute a seasonal analysis and print it as JSON",
	Long: `Compute the seasonal analysis of one or more symbols using the configured
price backend.

Examples:
  finseason analyze --symbol SPY
  finseason analyze --symbol SPY,QQQ --years 10 --periods month,week-of-month
  finseason analyze --symbol AAPL --tf hourly --events=false`,
	RunE: runAnalyze,
}

var (
	analyzeSymbols string
	analyzeYears   int
	analyzeTF      string
	analyzePeriods string
	analyzeEvents  bool
	analyzeTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeSymbols, "symbol", "", "symbol or comma-separated symbols (required)")
	analyzeCmd.Flags().IntVar(&analyzeYears, "years", 5, "years of history (1-30)")
	analyzeCmd.Flags().StringVar(&analyzeTF, "tf", "daily", "timeframe: daily or hourly")
	analyzeCmd.Flags().StringVar(&analyzePeriods, "periods", "", "comma-separated period types (timeframe defaults when empty)")
	analyzeCmd.Flags().BoolVar(&analyzeEvents, "events", true, "include custom-event buckets")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall timeout")
	_ = analyzeCmd.MarkFlagRequired("symbol")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kit, err := di.InitializeToolkit(cfg)
	if err != nil {
		return err
	}
	defer kit.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	params := usecase.AnalyzeParams{
		Years:         analyzeYears,
		Timeframe:     models.Timeframe(analyzeTF),
		PeriodTypes:   usecase.ParsePeriodTypes(analyzePeriods),
		IncludeEvents: analyzeEvents,
	}
	var out interface{}
	if symbols := strings.Split(analyzeSymbols, ","); len(symbols) > 1 {
		out, err = kit.Seasonal.AnalyzeMany(ctx, symbols, params)
	} else {
		params.Symbol = analyzeSymbols
		out, err = kit.Seasonal.Analyze(ctx, params)
	}
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return printJSON(out)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
