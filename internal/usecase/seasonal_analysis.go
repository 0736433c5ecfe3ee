package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"FinSeason/internal/domain/models"
	domrepo "FinSeason/internal/domain/repository"
	domsvc "FinSeason/internal/domain/service"
	"FinSeason/internal/services/calendar"
	"FinSeason/internal/services/combined"
	"FinSeason/internal/services/extractors"
	"FinSeason/internal/services/features"
	"FinSeason/internal/services/seasonal"
	"FinSeason/pkg/cache"
	"FinSeason/pkg/logger"
	"FinSeason/pkg/metrics"
)

var (
	ErrInvalidRequest      = errors.New("invalid analysis request")
	ErrRecomputeInProgress = errors.New("analysis recompute in progress")
	ErrProviderFailed      = errors.New("price provider failed")
)

const (
	maxYears     = 30
	maxSymbols   = 20
	lockSuffix   = ":lock"
	pollInterval = 250 * time.Millisecond
)

// AnalyzeParams is one analysis request as received from a transport.
type AnalyzeParams struct {
	Symbol        string
	Years         int
	Timeframe     models.Timeframe
	PeriodTypes   []models.PeriodType
	IncludeEvents bool
	// ForceRefresh bypasses the cached result and overwrites it.
	ForceRefresh bool
}

// SymbolResult is one entry of a multi-symbol analysis.
type SymbolResult struct {
	Symbol   string                   `json:"symbol"`
	Analysis *models.SeasonalAnalysis `json:"analysis,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

type Option func(*SeasonalAnalysisUseCase)

func WithDividends(p domrepo.DividendProvider) Option {
	return func(uc *SeasonalAnalysisUseCase) { uc.dividends = p }
}

func WithCache(c cache.Service, ttl time.Duration) Option {
	return func(uc *SeasonalAnalysisUseCase) {
		uc.cache = c
		if ttl > 0 {
			uc.cacheTTL = ttl
		}
	}
}

// WithLocking sets the cross-process lock TTL and how long a caller waits for
// another process to finish the same computation.
func WithLocking(ttl, wait time.Duration) Option {
	return func(uc *SeasonalAnalysisUseCase) {
		if ttl > 0 {
			uc.lockTTL = ttl
		}
		if wait >= 0 {
			uc.lockWait = wait
		}
	}
}

func WithPublisher(p domrepo.SnapshotPublisher) Option {
	return func(uc *SeasonalAnalysisUseCase) {
		if p != nil {
			uc.publisher = p
		}
	}
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(uc *SeasonalAnalysisUseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(uc *SeasonalAnalysisUseCase) {
		if l != nil {
			uc.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *SeasonalAnalysisUseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

func WithDefaults(years int, includeEvents bool, maxConcurrency int) Option {
	return func(uc *SeasonalAnalysisUseCase) {
		if years > 0 {
			uc.defaultYears = years
		}
		uc.includeEvents = includeEvents
		if maxConcurrency > 0 {
			uc.maxConcurrency = maxConcurrency
		}
	}
}

// SeasonalAnalysisUseCase fetches history, runs the seasonal aggregator and
// memoizes full analyses per (symbol, years, timeframe).
type SeasonalAnalysisUseCase struct {
	prices    domrepo.PriceHistoryProvider
	dividends domrepo.DividendProvider
	cache     cache.Service
	publisher domrepo.SnapshotPublisher
	metrics   domrepo.Metrics
	calCfg    calendar.Config
	log       *logger.Logger
	now       func() time.Time

	cacheTTL       time.Duration
	lockTTL        time.Duration
	lockWait       time.Duration
	defaultYears   int
	includeEvents  bool
	maxConcurrency int

	group singleflight.Group
}

func NewSeasonalAnalysisUseCase(prices domrepo.PriceHistoryProvider, calCfg calendar.Config, opts ...Option) *SeasonalAnalysisUseCase {
	uc := &SeasonalAnalysisUseCase{
		prices:         prices,
		calCfg:         calCfg,
		publisher:      nopPublisher{},
		metrics:        metrics.Nop{},
		log:            logger.Nop(),
		now:            time.Now,
		cacheTTL:       24 * time.Hour,
		lockTTL:        2 * time.Minute,
		lockWait:       30 * time.Second,
		defaultYears:   5,
		includeEvents:  true,
		maxConcurrency: 4,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ParsePeriodTypes splits a comma-separated list. Unknown names are dropped.
func ParsePeriodTypes(s string) []models.PeriodType {
	var out []models.PeriodType
	for _, part := range strings.Split(s, ",") {
		pt := models.PeriodType(strings.ToLower(strings.TrimSpace(part)))
		if pt.Valid() {
			out = append(out, pt)
		}
	}
	return out
}

func (uc *SeasonalAnalysisUseCase) normalize(p AnalyzeParams) (AnalyzeParams, error) {
	p.Symbol = strings.ToUpper(strings.TrimSpace(p.Symbol))
	if p.Symbol == "" {
		return p, fmt.Errorf("%w: symbol is required", ErrInvalidRequest)
	}
	if p.Years == 0 {
		p.Years = uc.defaultYears
	}
	if p.Years < 1 || p.Years > maxYears {
		return p, fmt.Errorf("%w: years must be within 1..%d", ErrInvalidRequest, maxYears)
	}
	if p.Timeframe == "" {
		p.Timeframe = models.TFDaily
	}
	tf, ok := models.ParseTimeframe(string(p.Timeframe))
	if !ok {
		return p, fmt.Errorf("%w: unsupported timeframe %q", ErrInvalidRequest, p.Timeframe)
	}
	p.Timeframe = tf
	return p, nil
}

// Analyze returns the seasonal analysis for p, served from cache when possible.
func (uc *SeasonalAnalysisUseCase) Analyze(ctx context.Context, p AnalyzeParams) (*models.SeasonalAnalysis, error) {
	p, err := uc.normalize(p)
	if err != nil {
		uc.metrics.RecordError("validation")
		return nil, err
	}
	key := seasonal.CacheKey(p.Symbol, p.Years, p.Timeframe)

	if !p.ForceRefresh {
		if full, ok := uc.cached(ctx, key); ok {
			uc.metrics.RecordAnalysis(p.Timeframe, "cached")
			return seasonal.Select(full, p.PeriodTypes, p.IncludeEvents), nil
		}
	}

	// The shared computation runs detached from any one caller; each caller
	// stops waiting on its own context.
	ch := uc.group.DoChan(key, func() (interface{}, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.lockTTL+uc.lockWait)
		defer cancel()
		return uc.computeLocked(cctx, key, p)
	})
	select {
	case <-ctx.Done():
		uc.metrics.RecordAnalysis(p.Timeframe, "canceled")
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			uc.metrics.RecordAnalysis(p.Timeframe, "error")
			return nil, res.Err
		}
		uc.metrics.RecordAnalysis(p.Timeframe, "computed")
		return seasonal.Select(res.Val.(*models.SeasonalAnalysis), p.PeriodTypes, p.IncludeEvents), nil
	}
}

func (uc *SeasonalAnalysisUseCase) cached(ctx context.Context, key string) (*models.SeasonalAnalysis, bool) {
	if uc.cache == nil {
		return nil, false
	}
	var a models.SeasonalAnalysis
	err := uc.cache.Get(ctx, key, &a)
	switch {
	case err == nil:
		uc.metrics.RecordCacheResult("hit")
		return &a, true
	case errors.Is(err, cache.ErrCacheMiss):
		uc.metrics.RecordCacheResult("miss")
	default:
		uc.metrics.RecordCacheResult("error")
		uc.log.Warn("analysis cache read failed", logger.String("key", key), logger.Error(err))
	}
	return nil, false
}

// computeLocked computes under the cross-process lock. A caller that loses the
// race polls the cache until the winner stores its result or lockWait elapses.
func (uc *SeasonalAnalysisUseCase) computeLocked(ctx context.Context, key string, p AnalyzeParams) (*models.SeasonalAnalysis, error) {
	if uc.cache == nil {
		return uc.compute(ctx, p)
	}
	token, got, err := uc.cache.TryLock(ctx, key+lockSuffix, uc.lockTTL)
	if err != nil {
		uc.log.Warn("analysis lock unavailable, computing unlocked", logger.String("key", key), logger.Error(err))
		got = true
	}
	if !got {
		return uc.awaitOther(ctx, key)
	}
	if token != "" {
		defer func() {
			if err := uc.cache.Unlock(context.WithoutCancel(ctx), key+lockSuffix, token); err != nil {
				uc.log.Warn("analysis unlock failed", logger.String("key", key), logger.Error(err))
			}
		}()
	}

	a, err := uc.compute(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, key, a, uc.cacheTTL); err != nil {
		uc.log.Warn("analysis cache write failed", logger.String("key", key), logger.Error(err))
	}
	return a, nil
}

func (uc *SeasonalAnalysisUseCase) awaitOther(ctx context.Context, key string) (*models.SeasonalAnalysis, error) {
	deadline := time.NewTimer(uc.lockWait)
	defer deadline.Stop()
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	for {
		var a models.SeasonalAnalysis
		if err := uc.cache.Get(ctx, key, &a); err == nil {
			return &a, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("%w: %s", ErrRecomputeInProgress, key)
		case <-tick.C:
		}
	}
}

func (uc *SeasonalAnalysisUseCase) compute(ctx context.Context, p AnalyzeParams) (*models.SeasonalAnalysis, error) {
	start := uc.now()
	from, to := features.AlignFromTo(start.UTC().AddDate(-p.Years, 0, 0), start.UTC(), p.Timeframe)

	bars, err := uc.prices.GetBars(ctx, p.Symbol, from, to, p.Timeframe)
	if err != nil {
		uc.metrics.RecordError("provider")
		return nil, fmt.Errorf("%w: fetch bars %s: %w", ErrProviderFailed, p.Symbol, err)
	}
	uc.metrics.RecordBarsProcessed(p.Timeframe, len(bars))

	cal, err := uc.symbolCalendar(ctx, p.Symbol, from, to)
	if err != nil {
		uc.metrics.RecordError("calendar")
		return nil, fmt.Errorf("build calendar: %w", err)
	}
	exts := append(extractors.Default(cal), domsvc.PeriodExtractor(combined.NewDetector(cal)))
	agg := seasonal.NewAggregator(exts, seasonal.WithLogger(uc.log), seasonal.WithClock(uc.now))

	req := seasonal.FullRequest(models.AnalysisRequest{
		Symbol:         p.Symbol,
		YearsOfHistory: p.Years,
		Timeframe:      p.Timeframe,
	})
	a := agg.Analyze(req, bars)
	uc.metrics.RecordLatency("analyze", uc.now().Sub(start).Seconds())

	if err := uc.publisher.PublishSnapshot(ctx, a); err != nil {
		uc.metrics.RecordError("publish")
		uc.log.Warn("snapshot publish failed", logger.String("symbol", p.Symbol), logger.Error(err))
	}
	uc.log.Info("seasonal analysis computed",
		logger.String("symbol", p.Symbol),
		logger.Int("years", p.Years),
		logger.String("timeframe", string(p.Timeframe)),
		logger.Int("bars", len(bars)),
		logger.Bool("insufficient", a.InsufficientData),
	)
	return a, nil
}

// symbolCalendar builds the calendar with the symbol's ex-dividend dates,
// extended quarterly over the analysis range. Dividend lookup failures only
// drop the dividend events.
func (uc *SeasonalAnalysisUseCase) symbolCalendar(ctx context.Context, symbol string, from, to time.Time) (*calendar.Calendar, error) {
	var opts []calendar.Option
	if uc.dividends != nil {
		known, err := uc.dividends.GetExDividendDates(ctx, symbol)
		if err != nil {
			uc.metrics.RecordError("dividends")
			uc.log.Warn("ex-dividend lookup failed", logger.String("symbol", symbol), logger.Error(err))
		} else if dates := calendar.EstimateQuarterlyExDates(known, from, to); len(dates) > 0 {
			opts = append(opts, calendar.WithDividendExDates(symbol, dates))
		}
	}
	return calendar.New(uc.calCfg, opts...)
}

// AnalyzeMany analyzes several symbols concurrently. Results keep input order;
// per-symbol failures are reported inline.
func (uc *SeasonalAnalysisUseCase) AnalyzeMany(ctx context.Context, symbols []string, p AnalyzeParams) ([]SymbolResult, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: at least one symbol is required", ErrInvalidRequest)
	}
	if len(symbols) > maxSymbols {
		return nil, fmt.Errorf("%w: at most %d symbols per request", ErrInvalidRequest, maxSymbols)
	}

	results := make([]SymbolResult, len(symbols))
	sem := make(chan struct{}, uc.maxConcurrency)
	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			sp := p
			sp.Symbol = sym
			a, err := uc.Analyze(ctx, sp)
			results[i] = SymbolResult{Symbol: strings.ToUpper(strings.TrimSpace(sym)), Analysis: a}
			if err != nil {
				results[i].Error = err.Error()
			}
		}(i, sym)
	}
	wg.Wait()
	return results, nil
}

// PurgeStale deletes analyses cached under older schema versions.
func (uc *SeasonalAnalysisUseCase) PurgeStale(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	var errs []error
	for _, pattern := range seasonal.StaleKeyPatterns() {
		if err := uc.cache.DeleteByPattern(ctx, pattern); err != nil {
			errs = append(errs, fmt.Errorf("purge %s: %w", pattern, err))
		}
	}
	return errors.Join(errs...)
}

// Warm recomputes and caches every (symbol, years) pair for the daily timeframe.
// It returns the number of failed pairs.
func (uc *SeasonalAnalysisUseCase) Warm(ctx context.Context, symbols []string, years []int) int {
	failed := 0
	for _, sym := range symbols {
		for _, y := range years {
			if ctx.Err() != nil {
				return failed
			}
			_, err := uc.Analyze(ctx, AnalyzeParams{Symbol: sym, Years: y, Timeframe: models.TFDaily, ForceRefresh: true})
			if err != nil {
				failed++
				uc.log.Warn("warm analysis failed", logger.String("symbol", sym), logger.Int("years", y), logger.Error(err))
			}
		}
	}
	return failed
}

type nopPublisher struct{}

func (nopPublisher) PublishSnapshot(context.Context, *models.SeasonalAnalysis) error { return nil }
func (nopPublisher) Close() error                                                    { return nil }
