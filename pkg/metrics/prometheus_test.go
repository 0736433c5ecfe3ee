package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"FinSeason/internal/domain/models"
)

func TestRecorderCounts(t *testing.T) {
	r := NewWithRegisterer(prometheus.NewRegistry())

	r.RecordAnalysis(models.TFDaily, "computed")
	r.RecordAnalysis(models.TFDaily, "computed")
	r.RecordCacheResult("hit")
	r.RecordBarsProcessed(models.TFHourly, 120)
	r.RecordError("provider")
	r.RecordLatency("analyze", 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.analyses.WithLabelValues("daily", "computed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheRequests.WithLabelValues("hit")))
	assert.Equal(t, 120.0, testutil.ToFloat64(r.barsProcessed.WithLabelValues("hourly")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("provider")))
}
