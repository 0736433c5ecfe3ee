package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"FinSeason/internal/domain/repository"
	"FinSeason/pkg/logger"
)

const DefaultDividendTTL = 24 * time.Hour

// CachedDividends memoizes a DividendProvider per symbol. Provider errors are
// not cached.
type CachedDividends struct {
	next  repository.DividendProvider
	store Store
	ttl   time.Duration
	group singleflight.Group
	log   *logger.Logger
}

var _ repository.DividendProvider = (*CachedDividends)(nil)

func NewCachedDividends(next repository.DividendProvider, store Store, ttl time.Duration, l *logger.Logger) *CachedDividends {
	if ttl <= 0 {
		ttl = DefaultDividendTTL
	}
	if l == nil {
		l = logger.Nop()
	}
	return &CachedDividends{next: next, store: store, ttl: ttl, log: l}
}

func (c *CachedDividends) GetExDividendDates(ctx context.Context, symbol string) ([]time.Time, error) {
	key := "dividends:" + strings.ToUpper(symbol)
	if b, ok := c.store.Load(key); ok {
		var dates []time.Time
		if err := json.Unmarshal(b, &dates); err == nil {
			return dates, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		dates, err := c.next.GetExDividendDates(ctx, symbol)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(dates)
		if err != nil {
			c.log.Warn("dividend cache encode failed", logger.String("symbol", symbol), logger.Error(err))
			return dates, nil
		}
		c.store.Save(key, b, c.ttl)
		return dates, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]time.Time), nil
}
