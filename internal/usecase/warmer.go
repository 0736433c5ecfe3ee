package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"FinSeason/internal/services/calendar"
	"FinSeason/pkg/logger"
)

// Warmer periodically recomputes the watchlist and re-runs the calendar
// staleness check.
type Warmer struct {
	uc        *SeasonalAnalysisUseCase
	cal       *calendar.Calendar
	cron      *cron.Cron
	schedule  string
	watchlist []string
	years     []int
	timeout   time.Duration
	log       *logger.Logger
}

func NewWarmer(uc *SeasonalAnalysisUseCase, cal *calendar.Calendar, schedule string, watchlist []string, years []int, l *logger.Logger) *Warmer {
	if l == nil {
		l = logger.Nop()
	}
	if len(years) == 0 {
		years = []int{5}
	}
	return &Warmer{
		uc:        uc,
		cal:       cal,
		cron:      cron.New(cron.WithLocation(time.UTC)),
		schedule:  schedule,
		watchlist: watchlist,
		years:     years,
		timeout:   30 * time.Minute,
		log:       l,
	}
}

// Start validates the schedule and starts the cron loop.
func (w *Warmer) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, func() { w.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("warmer schedule %q: %w", w.schedule, err)
	}
	w.cron.Start()
	w.log.Info("cache warmer scheduled",
		logger.String("schedule", w.schedule),
		logger.Int("symbols", len(w.watchlist)))
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (w *Warmer) Stop(ctx context.Context) error {
	done := w.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("warmer stop: %w", ctx.Err())
	}
}

// RunOnce purges stale schema keys, recomputes the watchlist and checks table staleness.
func (w *Warmer) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	start := time.Now()

	if err := w.uc.PurgeStale(ctx); err != nil {
		w.log.Warn("stale cache purge failed", logger.Error(err))
	}
	failed := w.uc.Warm(ctx, w.watchlist, w.years)
	if w.cal != nil {
		w.cal.CheckStaleness()
	}
	w.log.Info("cache warm run finished",
		logger.Int("pairs", len(w.watchlist)*len(w.years)),
		logger.Int("failed", failed),
		logger.Duration("duration", time.Since(start)))
}
