package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"FinSeason/internal/domain/models"
	"FinSeason/internal/domain/repository"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	analyses      *prometheus.CounterVec
	cacheRequests *prometheus.CounterVec
	barsProcessed *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a recorder registered with the default Prometheus registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the collectors with reg (tests use a fresh registry).
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		analyses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finseason_analyses_total",
				Help: "Seasonal analyses served, by timeframe and outcome",
			},
			[]string{"timeframe", "status"},
		),
		cacheRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finseason_cache_requests_total",
				Help: "Analysis cache lookups by result",
			},
			[]string{"result"},
		),
		barsProcessed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finseason_bars_processed_total",
				Help: "Price bars fed into the aggregator",
			},
			[]string{"timeframe"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finseason_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finseason_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAnalysis counts an analysis by status (computed, cached, error, canceled).
func (r *Recorder) RecordAnalysis(tf models.Timeframe, status string) {
	r.analyses.WithLabelValues(string(tf), status).Inc()
}

// RecordCacheResult counts a cache hit or miss.
func (r *Recorder) RecordCacheResult(result string) {
	r.cacheRequests.WithLabelValues(result).Inc()
}

func (r *Recorder) RecordBarsProcessed(tf models.Timeframe, n int) {
	r.barsProcessed.WithLabelValues(string(tf)).Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordAnalysis(models.Timeframe, string)   {}
func (Nop) RecordCacheResult(string)                  {}
func (Nop) RecordBarsProcessed(models.Timeframe, int) {}
func (Nop) RecordError(string)                        {}
func (Nop) RecordLatency(string, float64)             {}

var (
	_ repository.Metrics = (*Recorder)(nil)
	_ repository.Metrics = Nop{}
)
