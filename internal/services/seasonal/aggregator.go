package seasonal

import (
	"sort"
	"time"

	"FinSeason/internal/domain/models"
	domsvc "FinSeason/internal/domain/service"
	"FinSeason/internal/services/features"
	"FinSeason/pkg/logger"
)

const (
	// MinBars is the shortest series that is analyzed at all.
	MinBars = 20
	// MinSignificantSamples is the sample count below which a bucket is not reported as strong.
	MinSignificantSamples = 10

	strongWinRate = 60.0
	weakWinRate   = 40.0
	summaryTop    = 3
)

// DefaultPeriodTypes is used when a request names none.
func DefaultPeriodTypes(tf models.Timeframe, includeEvents bool) []models.PeriodType {
	out := []models.PeriodType{models.PeriodMonth, models.PeriodQuarter, models.PeriodDayOfWeek}
	if tf == models.TFHourly {
		out = append(out, models.PeriodHourOfDay, models.PeriodMarketSession)
	}
	if includeEvents {
		out = append(out, models.PeriodCustomEvent)
	}
	return append(out, models.PeriodNamed)
}

type Option func(*Aggregator)

func WithLogger(l *logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.log = l
		}
	}
}

// WithClock sets the source of GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// Aggregator buckets a bar series by period type and computes per-bucket statistics.
// It holds no mutable state and may be shared across goroutines.
type Aggregator struct {
	extractors []domsvc.PeriodExtractor
	log        *logger.Logger
	now        func() time.Time
}

// NewAggregator takes the extractors (and the combined detector) that drive custom-event buckets.
func NewAggregator(extractors []domsvc.PeriodExtractor, opts ...Option) *Aggregator {
	a := &Aggregator{
		extractors: extractors,
		log:        logger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// point is one usable close-to-close return.
type point struct {
	idx   int
	local time.Time
	ret   float64
}

// Analyze computes the seasonal analysis of bars, which must be in chronological order.
func (a *Aggregator) Analyze(req models.AnalysisRequest, bars []models.PriceBar) *models.SeasonalAnalysis {
	tf := req.Timeframe
	if !models.IsValidTimeframe(tf) {
		tf = models.TFDaily
	}
	out := &models.SeasonalAnalysis{
		Symbol:         req.Symbol,
		Timeframe:      tf,
		Period:         models.AnalysisPeriod{Years: req.YearsOfHistory},
		DataPointCount: len(bars),
		Patterns:       make(map[models.PeriodType][]models.SeasonalPattern),
		Insights:       []string{},
		SchemaVersion:  SchemaVersion,
		GeneratedAt:    a.now().UTC(),
	}
	if len(bars) > 0 {
		out.Period.Start = bars[0].Timestamp
		out.Period.End = bars[len(bars)-1].Timestamp
	}
	if len(bars) < MinBars {
		out.InsufficientData = true
		out.Insights = append(out.Insights, insufficientInsight(len(bars)))
		a.log.Debug("insufficient data", logger.String("symbol", req.Symbol), logger.Int("bars", len(bars)))
		return out
	}

	local := localTime(tf)
	points := make([]point, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		r, ok := features.PctChange(bars[i-1].Close, bars[i].Close)
		if !ok {
			continue
		}
		points = append(points, point{idx: i, local: local(bars[i].Timestamp), ret: r})
	}

	for _, pt := range a.periodTypes(req, tf) {
		lab := a.labelerFor(pt, tf, bars, local)
		if lab == nil {
			continue
		}
		patterns := bucket(pt, points, lab)
		if len(patterns) > 0 {
			out.Patterns[pt] = patterns
		}
	}
	out.Summary = summarize(out.Patterns)
	out.Insights = generateInsights(out.Patterns)
	return out
}

// periodTypes resolves the requested set: defaults when empty, unknown and
// timeframe-incompatible types dropped, duplicates removed.
func (a *Aggregator) periodTypes(req models.AnalysisRequest, tf models.Timeframe) []models.PeriodType {
	requested := req.PeriodTypes
	if len(requested) == 0 {
		requested = DefaultPeriodTypes(tf, req.IncludeEvents)
	} else if req.IncludeEvents {
		requested = append(append([]models.PeriodType(nil), requested...), models.PeriodCustomEvent)
	}
	seen := make(map[models.PeriodType]bool)
	out := make([]models.PeriodType, 0, len(requested))
	for _, pt := range requested {
		if !pt.Valid() || seen[pt] {
			continue
		}
		if (pt == models.PeriodHourOfDay || pt == models.PeriodMarketSession) && tf != models.TFHourly {
			continue
		}
		seen[pt] = true
		out = append(out, pt)
	}
	return out
}

func (a *Aggregator) labelerFor(pt models.PeriodType, tf models.Timeframe, bars []models.PriceBar, local func(time.Time) time.Time) labeler {
	switch pt {
	case models.PeriodMonth:
		return monthLabeler
	case models.PeriodQuarter:
		return quarterLabeler
	case models.PeriodDayOfWeek:
		return weekdayLabeler
	case models.PeriodHourOfDay:
		return hourLabeler
	case models.PeriodMarketSession:
		return sessionLabeler
	case models.PeriodDayOfMonth:
		return dayOfMonthLabeler
	case models.PeriodWeekOfMonth:
		return weekOfMonthLabeler
	case models.PeriodWeekPosition:
		return weekPositionLabeler
	case models.PeriodNamed:
		return namedLabeler(bars, local)
	case models.PeriodCustomEvent:
		if len(a.extractors) == 0 {
			return nil
		}
		return eventLabeler(a.extractors, tf)
	}
	return nil
}

// run is an open occurrence of one label.
type run struct {
	lastIdx int
	occ     models.Occurrence
	growth  float64
}

// bucket groups points into occurrences per label and computes statistics. An
// occurrence is a maximal run of consecutive bars sharing the label within one
// calendar year; its return is the compounded return of the run.
func bucket(pt models.PeriodType, points []point, lab labeler) []models.SeasonalPattern {
	open := make(map[string]*run)
	samples := make(map[string][]models.Occurrence)
	var labels []string

	closeRun := func(label string, r *run) {
		r.occ.Return = (r.growth - 1) * 100
		if features.IsFinite(r.occ.Return) {
			samples[label] = append(samples[label], r.occ)
		}
	}

	for _, p := range points {
		for _, label := range lab(p.idx, p.local) {
			r := open[label]
			if r != nil && r.lastIdx == p.idx-1 && r.occ.Year == p.local.Year() {
				r.lastIdx = p.idx
				r.occ.End = p.local
				r.growth *= 1 + p.ret/100
				continue
			}
			if r != nil {
				closeRun(label, r)
			} else if _, known := samples[label]; !known {
				labels = append(labels, label)
				samples[label] = nil
			}
			open[label] = &run{
				lastIdx: p.idx,
				occ:     models.Occurrence{Year: p.local.Year(), Start: p.local, End: p.local},
				growth:  1 + p.ret/100,
			}
		}
	}
	for _, label := range labels {
		if r := open[label]; r != nil {
			closeRun(label, r)
		}
	}

	orderLabels(pt, labels)
	out := make([]models.SeasonalPattern, 0, len(labels))
	for _, label := range labels {
		if p, ok := computePattern(pt, label, samples[label]); ok {
			out = append(out, p)
		}
	}
	return out
}

func computePattern(pt models.PeriodType, label string, occ []models.Occurrence) (models.SeasonalPattern, bool) {
	if len(occ) == 0 {
		return models.SeasonalPattern{}, false
	}
	rets := make([]float64, len(occ))
	wins := 0
	best, worst := 0, 0
	for i, o := range occ {
		rets[i] = o.Return
		if o.Return > 0 {
			wins++
		}
		if o.Return > occ[best].Return {
			best = i
		}
		if o.Return < occ[worst].Return {
			worst = i
		}
	}
	avg, okAvg := features.Mean(rets)
	sd, okSd := features.StdDev(rets)
	if !okAvg || !okSd {
		return models.SeasonalPattern{}, false
	}
	n := len(occ)
	b, w := occ[best], occ[worst]
	return models.SeasonalPattern{
		PeriodType:      pt,
		Label:           label,
		AvgReturn:       avg,
		ReturnStdDev:    sd,
		WinRate:         float64(wins) / float64(n) * 100,
		WinCount:        wins,
		LossCount:       n - wins,
		SampleCount:     n,
		BestOccurrence:  &b,
		WorstOccurrence: &w,
		IsSignificant:   n >= MinSignificantSamples,
	}, true
}

func orderLabels(pt models.PeriodType, labels []string) {
	rank := make(map[string]int)
	for i, l := range labelOrder(pt) {
		rank[l] = i + 1
	}
	sort.SliceStable(labels, func(i, j int) bool {
		ri, rj := rank[labels[i]], rank[labels[j]]
		if ri != rj {
			if ri == 0 {
				return false
			}
			if rj == 0 {
				return true
			}
			return ri < rj
		}
		return labels[i] < labels[j]
	})
}

func ref(p models.SeasonalPattern) models.PatternRef {
	return models.PatternRef{PeriodType: p.PeriodType, Label: p.Label, AvgReturn: p.AvgReturn, WinRate: p.WinRate, SampleCount: p.SampleCount}
}

func summarize(patterns map[models.PeriodType][]models.SeasonalPattern) models.AnalysisSummary {
	var all []models.SeasonalPattern
	for _, pt := range models.AllPeriodTypes {
		all = append(all, patterns[pt]...)
	}
	s := models.AnalysisSummary{
		BestPeriods:    []models.PatternRef{},
		WorstPeriods:   []models.PatternRef{},
		StrongPatterns: []models.PatternRef{},
	}
	byAvg := append([]models.SeasonalPattern(nil), all...)
	sort.SliceStable(byAvg, func(i, j int) bool { return byAvg[i].AvgReturn > byAvg[j].AvgReturn })
	for i := 0; i < len(byAvg) && i < summaryTop; i++ {
		s.BestPeriods = append(s.BestPeriods, ref(byAvg[i]))
	}
	for i := len(byAvg) - 1; i >= 0 && len(s.WorstPeriods) < summaryTop; i-- {
		s.WorstPeriods = append(s.WorstPeriods, ref(byAvg[i]))
	}

	var strong []models.SeasonalPattern
	for _, p := range all {
		if isStrong(p) && p.IsSignificant {
			strong = append(strong, p)
		}
	}
	sort.SliceStable(strong, func(i, j int) bool { return strong[i].WinRate > strong[j].WinRate })
	for _, p := range strong {
		s.StrongPatterns = append(s.StrongPatterns, ref(p))
	}
	return s
}

func isStrong(p models.SeasonalPattern) bool { return p.WinRate > strongWinRate && p.AvgReturn > 0 }
func isWeak(p models.SeasonalPattern) bool   { return p.WinRate < weakWinRate && p.AvgReturn < 0 }
