package calendar

import (
	"fmt"
	"sort"
	"time"

	"FinSeason/internal/domain/models"
	"FinSeason/pkg/logger"
	"FinSeason/pkg/util"
)

// stalenessWindow is how close to "now" the last tabulated date may get before warning.
const stalenessWindow = 6

type dayKey int

func keyOf(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey(y*10000 + int(m)*100 + d)
}

func monthKey(y int, m time.Month) int { return y*100 + int(m) }

// Calendar holds the generated event set and its indices. It is read-only after
// New returns and safe for concurrent use.
type Calendar struct {
	cfg Config
	log *logger.Logger
	now func() time.Time

	dividends map[string][]time.Time

	rateTable   map[int][]time.Time
	cpiTable    map[int]time.Time
	retailTable map[int]time.Time
	holidays    map[dayKey]struct{}
	latest      time.Time

	events  []models.CalendarEvent
	byType  map[models.EventType][]models.CalendarEvent
	byMonth map[int][]models.CalendarEvent
	byDate  map[dayKey][]models.CalendarEvent
	byWeek  map[dayKey]map[models.EventType][]models.CalendarEvent
}

// New generates every event in [cfg.StartYear, cfg.EndYear] and builds the indices.
// All configured and tabulated dates are validated before anything is generated.
func New(cfg Config, opts ...Option) (*Calendar, error) {
	if cfg.StartYear <= 0 || cfg.EndYear < cfg.StartYear {
		return nil, fmt.Errorf("year range %d..%d: %w", cfg.StartYear, cfg.EndYear, ErrInvalidConfig)
	}
	if len(cfg.EarningsMonths) == 0 {
		cfg.EarningsMonths = append([]int(nil), DefaultEarningsMonths...)
	}
	for i, m := range cfg.EarningsMonths {
		if m < 1 || m > 12 {
			return nil, fmt.Errorf("earnings_months[%d]=%d: %w", i, m, ErrInvalidConfig)
		}
	}

	c := &Calendar{
		cfg:       cfg,
		log:       logger.Nop(),
		now:       time.Now,
		dividends: make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.loadTables(); err != nil {
		return nil, err
	}
	overrides, err := parseDates("rate_decision_dates", cfg.RateDecisionDates)
	if err != nil {
		return nil, err
	}
	custom, err := c.genCustom(cfg.CustomEvents)
	if err != nil {
		return nil, err
	}

	var all []models.CalendarEvent
	all = append(all, c.genRateDecisions(overrides)...)
	all = append(all, c.genPriceIndex()...)
	all = append(all, c.genLaborReport()...)
	all = append(all, c.genRetailSales()...)
	all = append(all, c.genManufacturingPMI()...)
	all = append(all, c.genJoblessClaims()...)
	all = append(all, c.genElections()...)
	all = append(all, c.genOptionsExpiry()...)
	all = append(all, c.genRebalancing()...)
	all = append(all, c.genEarningsSeason()...)
	all = append(all, c.genDividends()...)
	all = append(all, custom...)
	c.buildIndices(all)

	c.log.Info("calendar built",
		logger.Int("start_year", cfg.StartYear),
		logger.Int("end_year", cfg.EndYear),
		logger.Int("events", len(c.events)),
	)
	c.CheckStaleness()
	return c, nil
}

func (c *Calendar) loadTables() error {
	rates, err := parseTable("rate_decision_table", rateDecisionTable)
	if err != nil {
		return err
	}
	cpi, err := parseTable("price_index_table", priceIndexTable)
	if err != nil {
		return err
	}
	retail, err := parseTable("retail_sales_table", retailSalesTable)
	if err != nil {
		return err
	}
	holidays, err := parseTable("market_holiday_table", marketHolidayTable)
	if err != nil {
		return err
	}

	c.rateTable = rates
	c.cpiTable = byMonth(cpi)
	c.retailTable = byMonth(retail)
	c.holidays = make(map[dayKey]struct{})
	for _, t := range []map[int][]time.Time{rates, cpi, retail, holidays} {
		for _, dates := range t {
			for _, d := range dates {
				if d.After(c.latest) {
					c.latest = d
				}
			}
		}
	}
	for _, dates := range holidays {
		for _, d := range dates {
			c.holidays[keyOf(d)] = struct{}{}
		}
	}
	return nil
}

func (c *Calendar) buildIndices(all []models.CalendarEvent) {
	order := make(map[models.EventType]int, len(models.AllEventTypes))
	for i, t := range models.AllEventTypes {
		order[t] = i
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.Before(all[j].Date)
		}
		if all[i].Type != all[j].Type {
			return order[all[i].Type] < order[all[j].Type]
		}
		return all[i].Name < all[j].Name
	})

	c.events = all
	c.byType = make(map[models.EventType][]models.CalendarEvent)
	c.byMonth = make(map[int][]models.CalendarEvent)
	c.byDate = make(map[dayKey][]models.CalendarEvent)
	c.byWeek = make(map[dayKey]map[models.EventType][]models.CalendarEvent)
	for _, e := range all {
		c.byType[e.Type] = append(c.byType[e.Type], e)
		mk := monthKey(e.Date.Year(), e.Date.Month())
		c.byMonth[mk] = append(c.byMonth[mk], e)
		dk := keyOf(e.Date)
		c.byDate[dk] = append(c.byDate[dk], e)
		wk := keyOf(WeekStart(e.Date))
		if c.byWeek[wk] == nil {
			c.byWeek[wk] = make(map[models.EventType][]models.CalendarEvent)
		}
		c.byWeek[wk][e.Type] = append(c.byWeek[wk][e.Type], e)
	}
}

// TablesExpireSoon reports whether the furthest tabulated date is within six months of now.
func (c *Calendar) TablesExpireSoon(now time.Time) bool {
	return c.latest.Before(now.AddDate(0, stalenessWindow, 0))
}

// CheckStaleness logs a warning when the tabulated dates are about to run out.
func (c *Calendar) CheckStaleness() bool {
	now := c.now()
	if !c.TablesExpireSoon(now) {
		return false
	}
	c.log.Warn("calendar date tables expire soon; extend tables.go",
		logger.String("latest_tabulated", util.FormatISODate(c.latest)),
		logger.String("now", util.FormatISODate(now)),
	)
	return true
}

func (c *Calendar) inHorizon(d time.Time) bool {
	return d.Year() >= c.cfg.StartYear && d.Year() <= c.cfg.EndYear
}

// Horizon returns the first and last calendar day covered.
func (c *Calendar) Horizon() (time.Time, time.Time) {
	return util.Date(c.cfg.StartYear, time.January, 1), util.Date(c.cfg.EndYear, time.December, 31)
}

// LatestTabulatedDate is the furthest date found in the static tables.
func (c *Calendar) LatestTabulatedDate() time.Time { return c.latest }

// Events returns every generated event in date order.
func (c *Calendar) Events() []models.CalendarEvent {
	return append([]models.CalendarEvent(nil), c.events...)
}

func (c *Calendar) IsMarketHoliday(date time.Time) bool {
	if _, ok := c.holidays[keyOf(date)]; ok {
		return true
	}
	if _, tabulated := marketHolidayTable[date.Year()]; tabulated {
		return false
	}
	return isRuleHoliday(util.DateOf(date))
}

func (c *Calendar) IsBusinessDay(date time.Time) bool {
	return !isWeekend(date) && !c.IsMarketHoliday(date)
}

// IsEventWeek reports whether an event of typ falls in the Monday-Sunday week of date.
func (c *Calendar) IsEventWeek(date time.Time, typ models.EventType) bool {
	return len(c.byWeek[keyOf(WeekStart(date))][typ]) > 0
}

// HasEventOn reports whether an event of typ falls exactly on date.
func (c *Calendar) HasEventOn(date time.Time, typ models.EventType) bool {
	for _, e := range c.byDate[keyOf(date)] {
		if e.Type == typ {
			return true
		}
	}
	return false
}

// EventTypesInWeek lists the distinct types active in the week of date.
func (c *Calendar) EventTypesInWeek(date time.Time) []models.EventType {
	week := c.byWeek[keyOf(WeekStart(date))]
	if len(week) == 0 {
		return nil
	}
	out := make([]models.EventType, 0, len(week))
	for _, t := range models.AllEventTypes {
		if len(week[t]) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// EventsForDate returns the events on date followed by a derived "<Type> Week"
// event for every other type active in the same week.
func (c *Calendar) EventsForDate(date time.Time) []models.CalendarEvent {
	exact := c.byDate[keyOf(date)]
	out := append([]models.CalendarEvent(nil), exact...)

	onDay := make(map[models.EventType]bool, len(exact))
	for _, e := range exact {
		onDay[e.Type] = true
	}
	ws := WeekStart(date)
	week := c.byWeek[keyOf(ws)]
	for _, t := range models.AllEventTypes {
		evs := week[t]
		if len(evs) == 0 || onDay[t] {
			continue
		}
		impact := models.ImpactLow
		for _, e := range evs {
			impact = maxImpact(impact, e.Impact)
		}
		out = append(out, models.CalendarEvent{
			Date:        ws,
			Name:        t.ShortName() + " Week",
			Type:        t,
			Impact:      impact,
			Description: fmt.Sprintf("%s on %s", evs[0].Name, util.FormatISODate(evs[0].Date)),
			Ticker:      evs[0].Ticker,
		})
	}
	return out
}

// EventsByType returns events of typ with dates in [start, end].
func (c *Calendar) EventsByType(typ models.EventType, start, end time.Time) []models.CalendarEvent {
	evs := c.byType[typ]
	start, end = util.DateOf(start), util.DateOf(end)
	i := sort.Search(len(evs), func(i int) bool { return !evs[i].Date.Before(start) })
	var out []models.CalendarEvent
	for ; i < len(evs) && !evs[i].Date.After(end); i++ {
		out = append(out, evs[i])
	}
	return out
}

func (c *Calendar) EventsForMonth(year int, month time.Month) []models.CalendarEvent {
	return append([]models.CalendarEvent(nil), c.byMonth[monthKey(year, month)]...)
}

// ReleaseDate returns the first event of typ in the given month.
func (c *Calendar) ReleaseDate(typ models.EventType, year int, month time.Month) (time.Time, bool) {
	for _, e := range c.byMonth[monthKey(year, month)] {
		if e.Type == typ {
			return e.Date, true
		}
	}
	return time.Time{}, false
}

// NearestEvent returns the event of typ closest to date; ties go to the later event.
func (c *Calendar) NearestEvent(typ models.EventType, date time.Time) (models.CalendarEvent, bool) {
	evs := c.byType[typ]
	if len(evs) == 0 {
		return models.CalendarEvent{}, false
	}
	d := util.DateOf(date)
	i := sort.Search(len(evs), func(i int) bool { return !evs[i].Date.Before(d) })
	switch {
	case i == len(evs):
		return evs[i-1], true
	case i == 0:
		return evs[0], true
	}
	if util.DaysBetween(evs[i-1].Date, d) < util.DaysBetween(d, evs[i].Date) {
		return evs[i-1], true
	}
	return evs[i], true
}

func maxImpact(a, b models.ImpactLevel) models.ImpactLevel {
	rank := func(i models.ImpactLevel) int {
		switch i {
		case models.ImpactHigh:
			return 2
		case models.ImpactMedium:
			return 1
		}
		return 0
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}
