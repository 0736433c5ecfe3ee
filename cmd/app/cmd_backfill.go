package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"FinSeason/internal/di"
	"FinSeason/internal/domain/models"
	"FinSeason/internal/repository"
	"FinSeason/internal/services/features"
	pkgch "FinSeason/pkg/clickhouse"
	applogger "FinSeason/pkg/logger"
	"FinSeason/pkg/util"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Copy bars and ex-dividend dates from the EOD API into ClickHouse",
	Long: `Fetch history from the EOD API and store it in ClickHouse so the service
can run with backend.type=clickhouse.

Examples:
  finseason backfill --symbols SPY,QQQ --years 20
  finseason backfill --symbols AAPL --tf hourly --years 2
  finseason backfill --symbols SPY --years 5 --until 2020-01-01`,
	RunE: runBackfill,
}

var (
	backfillSymbols string
	backfillYears   int
	backfillTF      string
	backfillUntil   string
)

func init() {
	rootCmd.AddCommand(backfillCmd)

	backfillCmd.Flags().StringVar(&backfillSymbols, "symbols", "", "comma-separated symbols (required)")
	backfillCmd.Flags().IntVar(&backfillYears, "years", 20, "years of history to copy")
	backfillCmd.Flags().StringVar(&backfillTF, "tf", "daily", "timeframe: daily or hourly")
	backfillCmd.Flags().StringVar(&backfillUntil, "until", "", "end of the range: RFC3339, YYYY-MM-DD or unix seconds (default now)")
	_ = backfillCmd.MarkFlagRequired("symbols")
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.EOD.APIKey == "" {
		return fmt.Errorf("eod.api_key (or EOD_API_KEY) is required for backfill")
	}
	tf, ok := models.ParseTimeframe(backfillTF)
	if !ok {
		return fmt.Errorf("unsupported timeframe %q", backfillTF)
	}
	from, to, err := backfillRange(time.Now(), backfillUntil, backfillYears, tf)
	if err != nil {
		return err
	}
	l, err := di.ProvideLogger(cfg)
	if err != nil {
		return err
	}
	ch, err := di.ProvideClickHouseClient(cfg, pkgch.WithAsyncInsert(true, true))
	if err != nil {
		return err
	}
	defer ch.Close()

	src := di.ProvideEODClient(cfg, l)
	store := repository.NewCHPriceStore(ch)
	store.SetLogger(l)

	failed := 0
	for _, sym := range strings.Split(backfillSymbols, ",") {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		if err := backfillSymbol(cmd.Context(), src, store, sym, from, to, tf); err != nil {
			failed++
			l.Error("backfill failed", applogger.String("symbol", sym), applogger.Error(err))
			continue
		}
		l.Info("backfill done", applogger.String("symbol", sym), applogger.String("timeframe", string(tf)))
	}
	if failed > 0 {
		return fmt.Errorf("%d symbol(s) failed", failed)
	}
	return nil
}

// backfillRange resolves the [from, to] bar range, aligned to tf boundaries.
func backfillRange(now time.Time, until string, years int, tf models.Timeframe) (time.Time, time.Time, error) {
	if years < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("--years must be positive, got %d", years)
	}
	to := now.UTC()
	if until != "" {
		t, ok := util.ParseTime(until)
		if !ok {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --until %q", until)
		}
		to = t.UTC()
	}
	from, to := features.AlignFromTo(to.AddDate(-years, 0, 0), to, tf)
	return from, to, nil
}

type backfillSource interface {
	GetBars(ctx context.Context, symbol string, from, to time.Time, tf models.Timeframe) ([]models.PriceBar, error)
	GetExDividendDates(ctx context.Context, symbol string) ([]time.Time, error)
}

func backfillSymbol(ctx context.Context, src backfillSource, store *repository.CHPriceStore, sym string, from, to time.Time, tf models.Timeframe) error {
	bars, err := src.GetBars(ctx, sym, from, to, tf)
	if err != nil {
		return err
	}
	if err := store.StoreBars(ctx, sym, tf, bars); err != nil {
		return err
	}
	divs, err := src.GetExDividendDates(ctx, sym)
	if err != nil {
		return err
	}
	return store.StoreDividends(ctx, sym, divs)
}
