package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAllowBurstPerKey(t *testing.T) {
	l := New(1, 2)
	base := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))

	l.now = func() time.Time { return base.Add(time.Second) }
	assert.True(t, l.Allow("a"))
}

func TestSweepDropsIdle(t *testing.T) {
	l := New(1, 1)
	base := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }
	l.Allow("a")

	l.now = func() time.Time { return base.Add(11 * time.Minute) }
	l.Allow("b")
	assert.Equal(t, 1, l.Sweep())
	assert.Len(t, l.m, 1)
}

func TestMiddlewareReturns429(t *testing.T) {
	e := echo.New()
	l := New(0.001, 1)
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, l.Middleware())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
