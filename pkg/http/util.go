package http

import (
	"net/http"
	"time"

	"FinSeason/pkg/util"
)

// ParseDateParam parses a YYYY-MM-DD value, returning a 400 AppError naming field.
func ParseDateParam(field, value string) (time.Time, error) {
	t, err := util.ParseISODate(value)
	if err != nil {
		return time.Time{}, NewAppError("ERR_DATETIME", field, field+" must be a date in YYYY-MM-DD format", http.StatusBadRequest).WithError(err)
	}
	return t, nil
}
