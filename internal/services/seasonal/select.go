package seasonal

import "FinSeason/internal/domain/models"

// FullRequest widens req to every period type with events included. Analyses
// are cached in this form and narrowed per request with Select.
func FullRequest(req models.AnalysisRequest) models.AnalysisRequest {
	req.PeriodTypes = append([]models.PeriodType(nil), models.AllPeriodTypes...)
	req.IncludeEvents = true
	return req
}

// Select returns a copy of a restricted to the requested period types (the
// timeframe defaults when none are given) with summary and insights recomputed.
// Unknown types are ignored.
func Select(a *models.SeasonalAnalysis, types []models.PeriodType, includeEvents bool) *models.SeasonalAnalysis {
	if a == nil {
		return nil
	}
	if len(types) == 0 {
		types = DefaultPeriodTypes(a.Timeframe, includeEvents)
	} else if includeEvents {
		types = append(append([]models.PeriodType(nil), types...), models.PeriodCustomEvent)
	}

	out := *a
	out.Patterns = make(map[models.PeriodType][]models.SeasonalPattern, len(types))
	for _, pt := range types {
		if ps, ok := a.Patterns[pt]; ok {
			out.Patterns[pt] = ps
		}
	}
	if a.InsufficientData {
		out.Insights = append([]string(nil), a.Insights...)
		return &out
	}
	out.Summary = summarize(out.Patterns)
	out.Insights = generateInsights(out.Patterns)
	return &out
}
