package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"FinSeason/internal/di"
	"FinSeason/internal/domain/models"
	"FinSeason/internal/services/calendar"
	"FinSeason/internal/usecase"
	"FinSeason/pkg/config"
	applogger "FinSeason/pkg/logger"
	"FinSeason/pkg/util"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Query the market event calendar",
	Long: `Print the events and combined-event week for a date, or every event of
one type within a range. No price backend is needed.

Examples:
  finseason calendar --date 2024-06-12
  finseason calendar --type rate-decision --from 2024-01-01 --to 2024-12-31
  finseason calendar --combinations`,
	RunE: runCalendar,
}

var (
	calendarDate         string
	calendarType         string
	calendarFrom         string
	calendarTo           string
	calendarCombinations bool
)

func init() {
	rootCmd.AddCommand(calendarCmd)

	calendarCmd.Flags().StringVar(&calendarDate, "date", "", "date (YYYY-MM-DD)")
	calendarCmd.Flags().StringVar(&calendarType, "type", "", "event type for range queries")
	calendarCmd.Flags().StringVar(&calendarFrom, "from", "", "range start (YYYY-MM-DD)")
	calendarCmd.Flags().StringVar(&calendarTo, "to", "", "range end (YYYY-MM-DD)")
	calendarCmd.Flags().BoolVar(&calendarCombinations, "combinations", false, "list the combination catalog")
}

// calendarConfig reads the calendar section only, so missing provider
// credentials do not block calendar queries.
func calendarConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default()
	}
	return config.Load(configPath)
}

func runCalendar(_ *cobra.Command, _ []string) error {
	cfg, err := calendarConfig()
	if err != nil {
		return err
	}
	cal, err := calendar.New(di.ProvideCalendarConfig(cfg), calendar.WithLogger(applogger.Nop()))
	if err != nil {
		return err
	}
	uc := usecase.NewCalendarUseCase(cal, nil)

	switch {
	case calendarCombinations:
		return printJSON(uc.Combinations())
	case calendarType != "":
		from, err := util.ParseISODate(calendarFrom)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		to, err := util.ParseISODate(calendarTo)
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}
		evs, err := uc.EventsByType(models.EventType(calendarType), from, to)
		if err != nil {
			return err
		}
		return printJSON(evs)
	case calendarDate != "":
		date, err := util.ParseISODate(calendarDate)
		if err != nil {
			return fmt.Errorf("--date: %w", err)
		}
		out := struct {
			Date        string                   `json:"date"`
			Events      []models.CalendarEvent   `json:"events"`
			Combination *models.EventCombination `json:"combination,omitempty"`
		}{Date: util.FormatISODate(date), Events: uc.EventsForDate(date)}
		if c, ok := uc.Combination(date); ok {
			out.Combination = &c
		}
		return printJSON(out)
	}
	return fmt.Errorf("one of --date, --type or --combinations is required")
}
