package seasonal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSeason/internal/domain/models"
	"FinSeason/internal/services/calendar"
	"FinSeason/internal/services/extractors"
)

func TestHourlyEventLabelsFollowExchangeDate(t *testing.T) {
	cal, err := calendar.New(calendar.DefaultConfig())
	require.NoError(t, err)
	lab := eventLabeler(extractors.Default(cal), models.TFHourly)
	local := localTime(models.TFHourly)

	// 2024-03-01 19:00 EST, the first Friday of March: labor report and ISM day.
	ts := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	got := lab(0, local(ts))
	assert.Contains(t, got, "NFP-Day")
	assert.Contains(t, got, "ISM-Day")
	assert.NotContains(t, got, "NFP-Week")
	assert.NotContains(t, got, "ISM-Week")

	// 2024-03-10 20:00 EDT is still Sunday of the week of Mar 4; CPI is two days out.
	ts = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"CPI-T-2"}, lab(0, local(ts)))
}

func TestDailyEventLabelsUseBarDate(t *testing.T) {
	cal, err := calendar.New(calendar.DefaultConfig())
	require.NoError(t, err)
	lab := eventLabeler(extractors.Default(cal), models.TFDaily)

	got := lab(0, localTime(models.TFDaily)(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Contains(t, got, "NFP-Day")
	assert.NotContains(t, got, "NFP-Release-Hour")
}
