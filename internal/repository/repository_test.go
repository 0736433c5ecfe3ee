package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSeason/internal/domain/models"
)

func TestBuildBarInsert(t *testing.T) {
	ts := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	q, args := buildBarInsert("finseason.bars_daily", "SPY", []models.PriceBar{
		{Timestamp: ts, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{},
		{Timestamp: ts.AddDate(0, 0, 1), Close: 2},
	})
	assert.True(t, strings.HasPrefix(q, "INSERT INTO finseason.bars_daily (symbol, ts, open, high, low, close, volume) VALUES"))
	assert.Equal(t, 2, strings.Count(q, "(?, ?, ?, ?, ?, ?, ?)"))
	require.Len(t, args, 14)
	assert.Equal(t, "SPY", args[0])
	assert.Equal(t, ts, args[1])

	q, args = buildBarInsert("t", "SPY", []models.PriceBar{{}})
	assert.Empty(t, q)
	assert.Nil(t, args)
}

func TestTableForTF(t *testing.T) {
	s := &CHPriceStore{database: "fs"}
	tbl, err := s.tableForTF(models.TFHourly)
	require.NoError(t, err)
	assert.Equal(t, "fs.bars_hourly", tbl)
	_, err = s.tableForTF("weekly")
	assert.Error(t, err)
}

type recordingProducer struct {
	topic string
	key   []byte
	value interface{}
	err   error
}

func (p *recordingProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	p.topic, p.key, p.value = topic, key, value
	return p.err
}

func (p *recordingProducer) Close() error { return nil }

func TestKafkaSnapshotPublisher(t *testing.T) {
	prod := &recordingProducer{}
	pub := NewKafkaSnapshotPublisher(prod, "seasonal.snapshots")

	a := &models.SeasonalAnalysis{
		Symbol:         "SPY",
		Timeframe:      models.TFDaily,
		Period:         models.AnalysisPeriod{Years: 5},
		DataPointCount: 1260,
		Patterns: map[models.PeriodType][]models.SeasonalPattern{
			models.PeriodMonth: make([]models.SeasonalPattern, 12),
		},
		Insights:      []string{"x"},
		SchemaVersion: 3,
	}
	require.NoError(t, pub.PublishSnapshot(context.Background(), a))
	assert.Equal(t, "seasonal.snapshots", prod.topic)
	assert.Equal(t, []byte("SPY"), prod.key)

	b, err := json.Marshal(prod.value)
	require.NoError(t, err)
	var msg SnapshotMessage
	require.NoError(t, json.Unmarshal(b, &msg))
	assert.Equal(t, 12, msg.PatternCounts[models.PeriodMonth])
	assert.Equal(t, 5, msg.Years)
	assert.Equal(t, 3, msg.SchemaVersion)

	prod.err = errors.New("broker down")
	err = pub.PublishSnapshot(context.Background(), a)
	assert.ErrorContains(t, err, "publish snapshot SPY")
	assert.NoError(t, pub.PublishSnapshot(context.Background(), nil))
}
