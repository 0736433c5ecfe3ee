package models

import "time"

// PeriodType selects how bars are bucketed.
type PeriodType string

const (
	PeriodMonth         PeriodType = "month"
	PeriodQuarter       PeriodType = "quarter"
	PeriodDayOfWeek     PeriodType = "day-of-week"
	PeriodHourOfDay     PeriodType = "hour-of-day"
	PeriodMarketSession PeriodType = "market-session"
	PeriodDayOfMonth    PeriodType = "day-of-month"
	PeriodWeekOfMonth   PeriodType = "week-of-month"
	PeriodWeekPosition  PeriodType = "week-position"
	PeriodCustomEvent   PeriodType = "custom-event"
	PeriodNamed         PeriodType = "named"
)

// AllPeriodTypes is the supported set in report order.
var AllPeriodTypes = []PeriodType{
	PeriodMonth, PeriodQuarter, PeriodDayOfWeek, PeriodHourOfDay, PeriodMarketSession,
	PeriodDayOfMonth, PeriodWeekOfMonth, PeriodWeekPosition, PeriodCustomEvent, PeriodNamed,
}

// Valid reports whether p is a supported period type.
func (p PeriodType) Valid() bool {
	for _, t := range AllPeriodTypes {
		if t == p {
			return true
		}
	}
	return false
}

// Occurrence is one sampled instance of a bucket (e.g. "January 2021").
type Occurrence struct {
	Year   int       `json:"year"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Return float64   `json:"return"`
}

// SeasonalPattern holds aggregate statistics for one bucket.
type SeasonalPattern struct {
	PeriodType      PeriodType  `json:"period_type"`
	Label           string      `json:"label"`
	AvgReturn       float64     `json:"avg_return"`
	ReturnStdDev    float64     `json:"return_std_dev"`
	WinRate         float64     `json:"win_rate"`
	WinCount        int         `json:"win_count"`
	LossCount       int         `json:"loss_count"`
	SampleCount     int         `json:"sample_count"`
	BestOccurrence  *Occurrence `json:"best_occurrence,omitempty"`
	WorstOccurrence *Occurrence `json:"worst_occurrence,omitempty"`
	IsSignificant   bool        `json:"is_significant"`
}

// PatternRef points at a bucket from the summary.
type PatternRef struct {
	PeriodType  PeriodType `json:"period_type"`
	Label       string     `json:"label"`
	AvgReturn   float64    `json:"avg_return"`
	WinRate     float64    `json:"win_rate"`
	SampleCount int        `json:"sample_count"`
}

// AnalysisSummary surfaces the notable buckets.
type AnalysisSummary struct {
	BestPeriods    []PatternRef `json:"best_periods"`
	WorstPeriods   []PatternRef `json:"worst_periods"`
	StrongPatterns []PatternRef `json:"strong_patterns"`
}

// AnalysisPeriod is the covered history window.
type AnalysisPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Years int       `json:"years"`
}

// AnalysisRequest is the input of one seasonal analysis.
type AnalysisRequest struct {
	Symbol         string       `json:"symbol"`
	YearsOfHistory int          `json:"years_of_history"`
	Timeframe      Timeframe    `json:"timeframe"`
	PeriodTypes    []PeriodType `json:"period_types"`
	IncludeEvents  bool         `json:"include_events"`
}

// SeasonalAnalysis is the immutable result snapshot of one analysis.
type SeasonalAnalysis struct {
	Symbol           string                           `json:"symbol"`
	Timeframe        Timeframe                        `json:"timeframe"`
	Period           AnalysisPeriod                   `json:"period"`
	DataPointCount   int                              `json:"data_point_count"`
	Patterns         map[PeriodType][]SeasonalPattern `json:"patterns"`
	Summary          AnalysisSummary                  `json:"summary"`
	Insights         []string                         `json:"insights"`
	InsufficientData bool                             `json:"insufficient_data"`
	SchemaVersion    int                              `json:"schema_version"`
	GeneratedAt      time.Time                        `json:"generated_at"`
}
