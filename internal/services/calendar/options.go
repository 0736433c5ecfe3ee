package calendar

import (
	"strings"
	"time"

	"FinSeason/internal/domain/models"
	"FinSeason/pkg/logger"
)

// Config parameterizes the generated horizon and the user-supplied overrides.
type Config struct {
	StartYear int
	EndYear   int
	// RateDecisionDates replaces the tabulated FOMC dates when non-empty.
	RateDecisionDates   []string
	CustomEvents        []models.CustomEventConfig
	DetectOptionsExpiry bool
	EarningsMonths      []int
}

// DefaultEarningsMonths are the reporting-season months.
var DefaultEarningsMonths = []int{1, 4, 7, 10}

func DefaultConfig() Config {
	return Config{
		StartYear:           1995,
		EndYear:             2027,
		DetectOptionsExpiry: true,
		EarningsMonths:      append([]int(nil), DefaultEarningsMonths...),
	}
}

type Option func(*Calendar)

func WithLogger(l *logger.Logger) Option {
	return func(c *Calendar) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock injects the time source used by the staleness check.
func WithClock(now func() time.Time) Option {
	return func(c *Calendar) {
		if now != nil {
			c.now = now
		}
	}
}

// WithDividendExDates registers ex-dividend dates for ticker.
func WithDividendExDates(ticker string, dates []time.Time) Option {
	return func(c *Calendar) {
		t := strings.ToUpper(strings.TrimSpace(ticker))
		if t == "" {
			return
		}
		c.dividends[t] = append(c.dividends[t], dates...)
	}
}
