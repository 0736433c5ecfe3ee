package calendar

import (
	"fmt"
	"time"

	"FinSeason/internal/domain/models"
	"FinSeason/pkg/util"
)

func event(d time.Time, name string, typ models.EventType, impact models.ImpactLevel, desc string) models.CalendarEvent {
	return models.CalendarEvent{Date: util.DateOf(d), Name: name, Type: typ, Impact: impact, Description: desc}
}

// parseTable validates every entry of a year-keyed table.
func parseTable(context string, table map[int][]string) (map[int][]time.Time, error) {
	out := make(map[int][]time.Time, len(table))
	for year, raw := range table {
		dates, err := parseDates(fmt.Sprintf("%s.%d", context, year), raw)
		if err != nil {
			return nil, err
		}
		out[year] = dates
	}
	return out, nil
}

func parseDates(context string, raw []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(raw))
	for i, s := range raw {
		d, err := util.ParseISODate(s)
		if err != nil {
			return nil, &DateError{Context: context, Index: i, Value: s, Err: err}
		}
		out = append(out, d)
	}
	return out, nil
}

// byMonth indexes dates of one table by year*100+month.
func byMonth(table map[int][]time.Time) map[int]time.Time {
	out := make(map[int]time.Time)
	for _, dates := range table {
		for _, d := range dates {
			out[monthKey(d.Year(), d.Month())] = d
		}
	}
	return out
}

func (c *Calendar) genRateDecisions(overrides []time.Time) []models.CalendarEvent {
	var dates []time.Time
	if len(overrides) > 0 {
		dates = overrides
	} else {
		for y := c.cfg.StartYear; y <= c.cfg.EndYear; y++ {
			dates = append(dates, c.rateTable[y]...)
		}
	}
	out := make([]models.CalendarEvent, 0, len(dates))
	for _, d := range dates {
		if !c.inHorizon(d) {
			continue
		}
		out = append(out, event(d, "FOMC Rate Decision", models.EventRateDecision, models.ImpactHigh,
			"Federal Reserve policy statement, 14:00 ET"))
	}
	return out
}

// cpiReleaseDate returns the tabulated CPI day or the first Wednesday on or after
// the 10th, moved forward past market holidays.
func (c *Calendar) cpiReleaseDate(year int, month time.Month) time.Time {
	if d, ok := c.cpiTable[monthKey(year, month)]; ok {
		return d
	}
	d := OnOrAfter(util.Date(year, month, 10), time.Wednesday)
	for !c.IsBusinessDay(d) {
		d = util.AddDays(d, 1)
	}
	return d
}

func (c *Calendar) genPriceIndex() []models.CalendarEvent {
	var out []models.CalendarEvent
	c.eachMonth(func(y int, m time.Month) {
		out = append(out, event(c.cpiReleaseDate(y, m), "CPI Release", models.EventPriceIndex, models.ImpactHigh,
			"Consumer price index, 08:30 ET"))
	})
	return out
}

func (c *Calendar) genLaborReport() []models.CalendarEvent {
	var out []models.CalendarEvent
	c.eachMonth(func(y int, m time.Month) {
		out = append(out, event(NthWeekday(y, m, time.Friday, 1), "Nonfarm Payrolls", models.EventLaborReport, models.ImpactHigh,
			"Employment situation report, 08:30 ET"))
	})
	return out
}

// retailSalesDate keeps the release inside days 13-17: the first business day on or
// after the 15th, or the last business day before it when that would overshoot.
func (c *Calendar) retailSalesDate(year int, month time.Month) time.Time {
	if d, ok := c.retailTable[monthKey(year, month)]; ok {
		return d
	}
	d := util.Date(year, month, 15)
	for !c.IsBusinessDay(d) {
		d = util.AddDays(d, 1)
	}
	if d.Day() <= 17 {
		return d
	}
	d = util.Date(year, month, 14)
	for !c.IsBusinessDay(d) && d.Day() > 13 {
		d = util.AddDays(d, -1)
	}
	return d
}

func (c *Calendar) genRetailSales() []models.CalendarEvent {
	var out []models.CalendarEvent
	c.eachMonth(func(y int, m time.Month) {
		out = append(out, event(c.retailSalesDate(y, m), "Retail Sales", models.EventRetailSales, models.ImpactMedium,
			"Advance monthly retail trade report, 08:30 ET"))
	})
	return out
}

// ManufacturingPMIDate is the first business day of the month. New Year's Day,
// Independence Day and Labor Day are skipped even outside the holiday table.
func (c *Calendar) ManufacturingPMIDate(year int, month time.Month) time.Time {
	d := util.Date(year, month, 1)
	for isWeekend(d) || c.IsMarketHoliday(d) || isRuleHoliday(d) {
		d = util.AddDays(d, 1)
	}
	return d
}

func (c *Calendar) genManufacturingPMI() []models.CalendarEvent {
	var out []models.CalendarEvent
	c.eachMonth(func(y int, m time.Month) {
		out = append(out, event(c.ManufacturingPMIDate(y, m), "ISM Manufacturing PMI", models.EventManufacturingPMI, models.ImpactMedium,
			"ISM manufacturing index, 10:00 ET"))
	})
	return out
}

func (c *Calendar) genJoblessClaims() []models.CalendarEvent {
	var out []models.CalendarEvent
	start, end := c.Horizon()
	for d := OnOrAfter(start, time.Thursday); !d.After(end); d = util.AddDays(d, 7) {
		if isMajorFederalHoliday(d) {
			continue
		}
		out = append(out, event(d, "Initial Jobless Claims", models.EventJoblessClaims, models.ImpactLow,
			"Weekly unemployment insurance claims, 08:30 ET"))
	}
	return out
}

func (c *Calendar) genElections() []models.CalendarEvent {
	var out []models.CalendarEvent
	for y := c.cfg.StartYear; y <= c.cfg.EndYear; y++ {
		switch y % 4 {
		case 0:
			out = append(out, event(ElectionDay(y), "Presidential Election", models.EventElection, models.ImpactHigh,
				"US presidential general election"))
		case 2:
			out = append(out, event(ElectionDay(y), "Midterm Election", models.EventElection, models.ImpactHigh,
				"US midterm congressional election"))
		}
	}
	return out
}

// optionsExpiry returns the monthly expiration, moved to Thursday when the third
// Friday is a market holiday.
func (c *Calendar) optionsExpiry(year int, month time.Month) time.Time {
	d := ThirdFriday(year, month)
	if c.IsMarketHoliday(d) {
		d = util.AddDays(d, -1)
	}
	return d
}

func (c *Calendar) genOptionsExpiry() []models.CalendarEvent {
	if !c.cfg.DetectOptionsExpiry {
		return nil
	}
	var out []models.CalendarEvent
	c.eachMonth(func(y int, m time.Month) {
		d := c.optionsExpiry(y, m)
		out = append(out, event(d, "Monthly Options Expiry", models.EventOptionsExpiry, models.ImpactMedium,
			"Standard equity options expiration"))
		if isQuarterEndMonth(m) {
			out = append(out, event(d, "Triple Witching", models.EventTripleWitching, models.ImpactHigh,
				"Quarterly expiration of stock options, index futures and index options"))
		}
	})
	return out
}

func (c *Calendar) genRebalancing() []models.CalendarEvent {
	var out []models.CalendarEvent
	c.eachMonth(func(y int, m time.Month) {
		if !isQuarterEndMonth(m) {
			return
		}
		out = append(out, event(c.optionsExpiry(y, m), "Quarterly Index Rebalance", models.EventIndexRebalancing, models.ImpactMedium,
			"S&P quarterly share and weight rebalance"))
		if m == time.June {
			out = append(out, event(LastWeekday(y, time.June, time.Friday), "Annual Index Reconstitution", models.EventIndexRebalancing, models.ImpactHigh,
				"Russell annual reconstitution"))
		}
	})
	return out
}

func (c *Calendar) genEarningsSeason() []models.CalendarEvent {
	var out []models.CalendarEvent
	for y := c.cfg.StartYear; y <= c.cfg.EndYear; y++ {
		for _, m := range c.cfg.EarningsMonths {
			first := NthWeekday(y, time.Month(m), time.Monday, 2)
			for w := 0; w < 4; w++ {
				out = append(out, event(util.AddDays(first, 7*w), fmt.Sprintf("Earnings Season Week %d", w+1),
					models.EventEarningsSeason, models.ImpactMedium, "Peak quarterly earnings reporting"))
			}
		}
	}
	return out
}

func (c *Calendar) genDividends() []models.CalendarEvent {
	var out []models.CalendarEvent
	for ticker, dates := range c.dividends {
		for _, d := range dates {
			if !c.inHorizon(d) {
				continue
			}
			e := event(d, ticker+" Ex-Dividend", models.EventDividendExDate, models.ImpactLow, "Ex-dividend date")
			e.Ticker = ticker
			out = append(out, e)
		}
	}
	return out
}

func (c *Calendar) genCustom(cfgs []models.CustomEventConfig) ([]models.CalendarEvent, error) {
	out := make([]models.CalendarEvent, 0, len(cfgs))
	for i, ce := range cfgs {
		d, err := util.ParseISODate(ce.Date)
		if err != nil {
			return nil, &DateError{Context: "custom_events", Index: i, Value: ce.Date, Err: err}
		}
		if ce.Name == "" {
			return nil, fmt.Errorf("custom_events[%d]: name is required: %w", i, ErrInvalidConfig)
		}
		typ := models.EventType(ce.Type)
		if ce.Type == "" {
			typ = models.EventCustom
		}
		if !typ.Valid() {
			return nil, fmt.Errorf("custom_events[%d]: unknown type %q: %w", i, ce.Type, ErrInvalidConfig)
		}
		impact := models.ImpactLevel(ce.Impact)
		if ce.Impact == "" {
			impact = models.ImpactMedium
		}
		if !impact.Valid() {
			return nil, fmt.Errorf("custom_events[%d]: unknown impact %q: %w", i, ce.Impact, ErrInvalidConfig)
		}
		e := event(d, ce.Name, typ, impact, ce.Description)
		e.Ticker = ce.Ticker
		out = append(out, e)
	}
	return out, nil
}

func (c *Calendar) eachMonth(fn func(y int, m time.Month)) {
	for y := c.cfg.StartYear; y <= c.cfg.EndYear; y++ {
		for m := time.January; m <= time.December; m++ {
			fn(y, m)
		}
	}
}
