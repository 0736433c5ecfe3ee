package repository

import (
	"context"
	"fmt"
	"time"

	"FinSeason/internal/domain/models"
	domrepo "FinSeason/internal/domain/repository"
)

// Producer is the subset of pkg/kafka.Producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// SnapshotMessage is the compact record published after each computation.
type SnapshotMessage struct {
	Symbol           string                    `json:"symbol"`
	Timeframe        models.Timeframe          `json:"timeframe"`
	Years            int                       `json:"years"`
	PeriodStart      time.Time                 `json:"period_start"`
	PeriodEnd        time.Time                 `json:"period_end"`
	DataPointCount   int                       `json:"data_point_count"`
	InsufficientData bool                      `json:"insufficient_data"`
	PatternCounts    map[models.PeriodType]int `json:"pattern_counts"`
	Summary          models.AnalysisSummary    `json:"summary"`
	Insights         []string                  `json:"insights"`
	SchemaVersion    int                       `json:"schema_version"`
	GeneratedAt      time.Time                 `json:"generated_at"`
}

// KafkaSnapshotPublisher publishes SnapshotMessage records keyed by symbol.
type KafkaSnapshotPublisher struct {
	producer Producer
	topic    string
}

var _ domrepo.SnapshotPublisher = (*KafkaSnapshotPublisher)(nil)

func NewKafkaSnapshotPublisher(p Producer, topic string) *KafkaSnapshotPublisher {
	return &KafkaSnapshotPublisher{producer: p, topic: topic}
}

func (p *KafkaSnapshotPublisher) PublishSnapshot(ctx context.Context, a *models.SeasonalAnalysis) error {
	if a == nil {
		return nil
	}
	msg := NewSnapshotMessage(a)
	if err := p.producer.Publish(ctx, p.topic, []byte(a.Symbol), msg); err != nil {
		return fmt.Errorf("publish snapshot %s: %w", a.Symbol, err)
	}
	return nil
}

func (p *KafkaSnapshotPublisher) Close() error {
	return p.producer.Close()
}

func NewSnapshotMessage(a *models.SeasonalAnalysis) SnapshotMessage {
	counts := make(map[models.PeriodType]int, len(a.Patterns))
	for pt, ps := range a.Patterns {
		counts[pt] = len(ps)
	}
	return SnapshotMessage{
		Symbol:           a.Symbol,
		Timeframe:        a.Timeframe,
		Years:            a.Period.Years,
		PeriodStart:      a.Period.Start,
		PeriodEnd:        a.Period.End,
		DataPointCount:   a.DataPointCount,
		InsufficientData: a.InsufficientData,
		PatternCounts:    counts,
		Summary:          a.Summary,
		Insights:         a.Insights,
		SchemaVersion:    a.SchemaVersion,
		GeneratedAt:      a.GeneratedAt,
	}
}

// NopSnapshotPublisher drops snapshots; used when Kafka is disabled.
type NopSnapshotPublisher struct{}

var _ domrepo.SnapshotPublisher = NopSnapshotPublisher{}

func (NopSnapshotPublisher) PublishSnapshot(context.Context, *models.SeasonalAnalysis) error {
	return nil
}

func (NopSnapshotPublisher) Close() error { return nil }
