package eod

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSeason/internal/domain/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...ClientOption) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]ClientOption{WithBaseURL(srv.URL), WithRateLimit(1000, 1000)}, opts...)
	return NewClient("demo", opts...)
}

func TestGetBarsDaily(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/eod/SPY.US", r.URL.Path)
		assert.Equal(t, "demo", r.URL.Query().Get("api_token"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("from"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"date":"2024-01-03","open":10,"high":11,"low":9,"close":10,"adjusted_close":5,"volume":100},
			{"date":"2024-01-02","open":10,"high":10,"low":10,"close":10,"adjusted_close":10,"volume":50},
			{"date":"bad","close":1}
		]`))
	})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars, err := c.GetBars(context.Background(), "spy", from, from.AddDate(0, 1, 0), models.TFDaily)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 2, bars[0].Timestamp.Day())
	assert.Equal(t, 5.0, bars[1].Close)
	assert.Equal(t, 5.5, bars[1].High)
}

func TestGetBarsHourly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/intraday/AAPL.US", r.URL.Path)
		assert.Equal(t, "1h", r.URL.Query().Get("interval"))
		_, _ = w.Write([]byte(`[
			{"timestamp":1717419600,"open":1,"high":2,"low":0.5,"close":1.5,"volume":10},
			{"timestamp":1717423200,"open":null,"high":null,"low":null,"close":null,"volume":null}
		]`))
	})

	bars, err := c.GetBars(context.Background(), "AAPL", time.Unix(0, 0), time.Now(), models.TFHourly)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, time.Unix(1717419600, 0).UTC(), bars[0].Timestamp)
	assert.Equal(t, 1.5, bars[0].Close)
}

func TestGetExDividendDates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/div/MSFT.US", r.URL.Path)
		_, _ = w.Write([]byte(`[{"date":"2024-05-15","value":0.75},{"date":"2024-02-14","value":0.75}]`))
	})

	dates, err := c.GetExDividendDates(context.Background(), "MSFT")
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, time.February, dates[0].Month())
}

func TestAPIErrorDoesNotTripBreaker(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Ticker Not Found"))
	}, WithBreaker(2, time.Minute))

	for i := 0; i < 4; i++ {
		_, err := c.GetExDividendDates(context.Background(), "NOPE")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	}
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestServerErrorsTripBreaker(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithBreaker(2, time.Minute))

	for i := 0; i < 2; i++ {
		_, err := c.GetExDividendDates(context.Background(), "SPY")
		require.Error(t, err)
	}
	_, err := c.GetExDividendDates(context.Background(), "SPY")
	assert.True(t, errors.Is(err, ErrBreakerOpen))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestUnsupportedTimeframe(t *testing.T) {
	c := NewClient("demo")
	_, err := c.GetBars(context.Background(), "SPY", time.Now(), time.Now(), models.Timeframe("weekly"))
	assert.Error(t, err)
}

func TestExchangeSymbol(t *testing.T) {
	assert.Equal(t, "SPY.US", exchangeSymbol(" spy "))
	assert.Equal(t, "BHP.AU", exchangeSymbol("bhp.au"))
}
