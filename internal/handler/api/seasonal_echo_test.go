package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSeason/internal/domain/models"
	"FinSeason/internal/service/ratelimit"
	"FinSeason/internal/services/calendar"
	"FinSeason/internal/usecase"
	"FinSeason/pkg/cache"
)

type sineProvider struct {
	fail bool
}

func (p sineProvider) GetBars(_ context.Context, _ string, from, to time.Time, _ models.Timeframe) ([]models.PriceBar, error) {
	if p.fail {
		return nil, errors.New("upstream 503")
	}
	var out []models.PriceBar
	i := 0
	for d := from.Truncate(24 * time.Hour); !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		px := 100 + 5*math.Sin(float64(i)/7)
		out = append(out, models.PriceBar{Timestamp: d, Open: px, High: px, Low: px, Close: px, Volume: 1})
		i++
	}
	return out, nil
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, prices sineProvider, mws ...echo.MiddlewareFunc) *echo.Echo {
	t.Helper()
	cfg := calendar.DefaultConfig()
	cfg.StartYear = 2018
	cal, err := calendar.New(cfg)
	require.NoError(t, err)

	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	now := func() time.Time { return time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC) }
	seasonal := usecase.NewSeasonalAnalysisUseCase(prices, cfg,
		usecase.WithCache(mc, time.Hour),
		usecase.WithClock(now))
	h := NewSeasonalEchoHandler(nil, seasonal, usecase.NewCalendarUseCase(cal, prices))
	if len(mws) > 0 {
		h.WithRateLimit(mws[0])
	}
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func get(t *testing.T, e *echo.Echo, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestSeasonalEndpoint(t *testing.T) {
	e := newTestServer(t, sineProvider{})
	rec, env := get(t, e, "/api/seasonal?symbol=spy&years=3&periods=month,quarter")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "private, max-age=300", rec.Header().Get(echo.HeaderCacheControl))

	var a models.SeasonalAnalysis
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, "SPY", a.Symbol)
	assert.Equal(t, 3, a.Period.Years)
	assert.Len(t, a.Patterns, 2)
	assert.Len(t, a.Patterns[models.PeriodMonth], 12)
	assert.Len(t, a.Patterns[models.PeriodQuarter], 4)
}

func TestSeasonalEndpointMultipleSymbols(t *testing.T) {
	e := newTestServer(t, sineProvider{})
	rec, env := get(t, e, "/api/seasonal?symbol=SPY,QQQ")
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Rows  []usecase.SymbolResult `json:"rows"`
		Total int64                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Rows, 2)
	assert.Equal(t, "SPY", list.Rows[0].Symbol)
	assert.Equal(t, "QQQ", list.Rows[1].Symbol)
	assert.Empty(t, list.Rows[1].Error)
}

func TestSeasonalEndpointErrors(t *testing.T) {
	cases := []struct {
		name   string
		prices sineProvider
		target string
		status int
	}{
		{"missing symbol", sineProvider{}, "/api/seasonal", http.StatusBadRequest},
		{"years out of range", sineProvider{}, "/api/seasonal?symbol=SPY&years=99", http.StatusBadRequest},
		{"bad timeframe", sineProvider{}, "/api/seasonal?symbol=SPY&tf=weekly", http.StatusBadRequest},
		{"provider down", sineProvider{fail: true}, "/api/seasonal?symbol=SPY", http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestServer(t, tc.prices)
			rec, env := get(t, e, tc.target)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.status, env.Status)
		})
	}
}

func TestCalendarEndpoints(t *testing.T) {
	e := newTestServer(t, sineProvider{})

	rec, env := get(t, e, "/api/calendar/events?date=2024-06-12")
	require.Equal(t, http.StatusOK, rec.Code)
	var events struct {
		Rows []models.CalendarEvent `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &events))
	require.NotEmpty(t, events.Rows)
	assert.Equal(t, "FOMC Rate Decision", events.Rows[0].Name)

	rec, env = get(t, e, "/api/calendar/combination?date=2024-06-12")
	require.Equal(t, http.StatusOK, rec.Code)
	var combo models.EventCombination
	require.NoError(t, json.Unmarshal(env.Data, &combo))
	assert.Equal(t, models.CombinationType("FOMC-CPI-Week"), combo.Type)

	rec, env = get(t, e, "/api/calendar/range?type=rate-decision&from=2024-01-01&to=2024-12-31")
	require.Equal(t, http.StatusOK, rec.Code)
	var rng struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rng))
	assert.EqualValues(t, 8, rng.Total)

	rec, _ = get(t, e, "/api/calendar/range?type=eclipse&from=2024-01-01&to=2024-12-31")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = get(t, e, "/api/calendar/events?date=06/12/2024")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = get(t, e, "/api/calendar/combinations")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &rng))
	assert.EqualValues(t, 17, rng.Total)

	rec, env = get(t, e, "/api/calendar/window?symbol=SPY&date=2024-06-12&event=price-index")
	require.Equal(t, http.StatusOK, rec.Code)
	var w models.EventWindowAnalysis
	require.NoError(t, json.Unmarshal(env.Data, &w))
	assert.Equal(t, models.EventPriceIndex, w.EventType)
}

func TestRateLimitedGroup(t *testing.T) {
	lim := ratelimit.New(0.001, 1)
	e := newTestServer(t, sineProvider{}, lim.Middleware())

	rec, _ := get(t, e, "/api/calendar/combinations")
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/calendar/combinations", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestSplitSymbols(t *testing.T) {
	assert.Equal(t, []string{"SPY", "QQQ"}, splitSymbols(" spy, ,qqq "))
	assert.Nil(t, splitSymbols(" , "))
}
