package repository

import (
	"context"
	"time"

	"FinSeason/internal/domain/models"
)

// PriceHistoryProvider returns chronologically ordered bars for [from, to].
type PriceHistoryProvider interface {
	GetBars(ctx context.Context, symbol string, from, to time.Time, tf models.Timeframe) ([]models.PriceBar, error)
}

// DividendProvider returns known ex-dividend dates for a symbol.
type DividendProvider interface {
	GetExDividendDates(ctx context.Context, symbol string) ([]time.Time, error)
}

// SnapshotPublisher announces freshly computed analyses to downstream consumers.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, a *models.SeasonalAnalysis) error
	Close() error
}

type Metrics interface {
	RecordAnalysis(tf models.Timeframe, status string)
	RecordCacheResult(result string)
	RecordBarsProcessed(tf models.Timeframe, n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
