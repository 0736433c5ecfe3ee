package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"FinSeason/internal/di"
	"FinSeason/internal/domain/models"
	"FinSeason/internal/usecase"
	pkgkafka "FinSeason/pkg/kafka"
	"FinSeason/pkg/queue"
)

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Ask running servers to precompute analyses",
	Long: `Enqueue warm requests on the Redis queue (redis.queue.enabled) or the
Kafka warm-request topic (kafka.enabled). A running "finseason serve" picks
them up and refreshes the cache.

Examples:
  finseason warm --symbols SPY,QQQ,IWM --years 5`,
	RunE: runWarm,
}

var (
	warmSymbols string
	warmYears   int
	warmTF      string
)

func init() {
	rootCmd.AddCommand(warmCmd)

	warmCmd.Flags().StringVar(&warmSymbols, "symbols", "", "comma-separated symbols (required)")
	warmCmd.Flags().IntVar(&warmYears, "years", 5, "years of history")
	warmCmd.Flags().StringVar(&warmTF, "tf", "daily", "timeframe: daily or hourly")
	_ = warmCmd.MarkFlagRequired("symbols")
}

func runWarm(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tf, ok := models.ParseTimeframe(warmTF)
	if !ok {
		return fmt.Errorf("unsupported timeframe %q", warmTF)
	}
	var reqs []usecase.WarmRequest
	for _, sym := range strings.Split(warmSymbols, ",") {
		if sym = strings.ToUpper(strings.TrimSpace(sym)); sym != "" {
			reqs = append(reqs, usecase.WarmRequest{Symbol: sym, Years: warmYears, Timeframe: tf})
		}
	}
	ctx := cmd.Context()

	switch {
	case cfg.Redis.Queue.Enabled:
		client := di.ProvideRedisClient(cfg)
		defer client.Close()
		q := queue.NewRedisQueue(client, queue.Config{KeyPrefix: "finseason:queue"}, nil)
		for _, r := range reqs {
			if err := q.Enqueue(ctx, usecase.WarmRequestType, r); err != nil {
				return fmt.Errorf("enqueue %s: %w", r.Symbol, err)
			}
		}
	case cfg.Kafka.Enabled:
		p, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(cfg.Kafka.Brokers),
			pkgkafka.WithCompression(cfg.Kafka.Compression),
			pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		)
		if err != nil {
			return err
		}
		defer p.Close()
		for _, r := range reqs {
			if err := p.Publish(ctx, cfg.Kafka.Consumer.Topic, []byte(r.Symbol), r); err != nil {
				return fmt.Errorf("publish %s: %w", r.Symbol, err)
			}
		}
	default:
		return fmt.Errorf("warm requests need redis.queue.enabled or kafka.enabled")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "queued %d warm request(s)\n", len(reqs))
	return nil
}
