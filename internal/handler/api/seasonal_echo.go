package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	models "FinSeason/internal/domain/models"
	"FinSeason/internal/usecase"
	xhttp "FinSeason/pkg/http"
	xlogger "FinSeason/pkg/logger"
)

// SeasonalEchoHandler serves seasonal analyses and calendar queries.
type SeasonalEchoHandler struct {
	logger   *xlogger.Logger
	seasonal *usecase.SeasonalAnalysisUseCase
	calendar *usecase.CalendarUseCase
	limit    echo.MiddlewareFunc
}

func NewSeasonalEchoHandler(logger *xlogger.Logger, seasonal *usecase.SeasonalAnalysisUseCase, calendar *usecase.CalendarUseCase) *SeasonalEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &SeasonalEchoHandler{logger: logger, seasonal: seasonal, calendar: calendar}
}

// WithRateLimit guards the /api group with m.
func (h *SeasonalEchoHandler) WithRateLimit(m echo.MiddlewareFunc) *SeasonalEchoHandler {
	h.limit = m
	return h
}

func (h *SeasonalEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	if h.limit != nil {
		g.Use(h.limit)
	}
	g.GET("/seasonal", h.Seasonal)
	g.GET("/calendar/events", h.Events)
	g.GET("/calendar/range", h.EventRange)
	g.GET("/calendar/combination", h.Combination)
	g.GET("/calendar/combinations", h.Combinations)
	g.GET("/calendar/window", h.Window)
}

func (h *SeasonalEchoHandler) Seasonal(c echo.Context) error {
	req := &models.SeasonalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	params := usecase.AnalyzeParams{
		Years:         req.Years,
		Timeframe:     models.Timeframe(req.TF),
		PeriodTypes:   usecase.ParsePeriodTypes(req.Periods),
		IncludeEvents: req.Events,
		ForceRefresh:  req.Refresh,
	}
	ctx := c.Request().Context()

	symbols := splitSymbols(req.Symbol)
	if len(symbols) > 1 {
		res, err := h.seasonal.AnalyzeMany(ctx, symbols, params)
		if err != nil {
			return h.fail(c, "seasonal batch", err)
		}
		return xhttp.ListResponse(c, res, int64(len(res)))
	}
	if len(symbols) == 1 {
		params.Symbol = symbols[0]
	}

	res, err := h.seasonal.Analyze(ctx, params)
	if err != nil {
		return h.fail(c, "seasonal", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return xhttp.SuccessResponse(c, res)
}

func (h *SeasonalEchoHandler) Events(c echo.Context) error {
	req := &models.CalendarEventsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	date, err := xhttp.ParseDateParam("date", req.Date)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	evs := h.calendar.EventsForDate(date)
	return xhttp.ListResponse(c, evs, int64(len(evs)))
}

func (h *SeasonalEchoHandler) EventRange(c echo.Context) error {
	req := &models.CalendarRangeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, err := xhttp.ParseDateParam("from", req.From)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	to, err := xhttp.ParseDateParam("to", req.To)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	evs, err := h.calendar.EventsByType(models.EventType(req.Type), from, to)
	if err != nil {
		return h.fail(c, "calendar range", err)
	}
	return xhttp.ListResponse(c, evs, int64(len(evs)))
}

func (h *SeasonalEchoHandler) Combination(c echo.Context) error {
	req := &models.CalendarEventsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	date, err := xhttp.ParseDateParam("date", req.Date)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	combo, ok := h.calendar.Combination(date)
	if !ok {
		return xhttp.DataResponse(c, http.StatusOK, nil)
	}
	return xhttp.SuccessResponse(c, combo)
}

func (h *SeasonalEchoHandler) Combinations(c echo.Context) error {
	specs := h.calendar.Combinations()
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=86400")
	return xhttp.ListResponse(c, specs, int64(len(specs)))
}

func (h *SeasonalEchoHandler) Window(c echo.Context) error {
	req := &models.EventWindowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	date, err := xhttp.ParseDateParam("date", req.Date)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	res, err := h.calendar.EventWindow(c.Request().Context(), req.Symbol, date, models.EventType(req.Event))
	if err != nil {
		return h.fail(c, "event window", err)
	}
	return xhttp.SuccessResponse(c, res)
}

// fail maps use-case errors onto AppError statuses.
func (h *SeasonalEchoHandler) fail(c echo.Context, op string, err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		appErr = xhttp.BadRequestError(strings.TrimPrefix(err.Error(), usecase.ErrInvalidRequest.Error()+": "))
	case errors.Is(err, usecase.ErrRecomputeInProgress):
		c.Response().Header().Set("Retry-After", "5")
		appErr = xhttp.UnavailableError("analysis is being computed, retry shortly")
	case errors.Is(err, usecase.ErrProviderFailed):
		h.logger.Error(op+" provider error", xlogger.Error(err))
		appErr = xhttp.ProviderError("market data provider failed").WithError(err)
	case errors.Is(err, context.Canceled):
		appErr = xhttp.UnavailableError("request canceled")
	default:
		h.logger.Error(op+" usecase error", xlogger.Error(err))
		appErr = xhttp.InternalError("analysis failed").WithError(err)
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
