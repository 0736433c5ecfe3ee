package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSeason/internal/domain/models"
)

func TestBackfillRange(t *testing.T) {
	now := time.Date(2024, 12, 31, 21, 30, 0, 0, time.UTC)

	from, to, err := backfillRange(now, "", 20, models.TFDaily)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2004, 12, 31, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), to)

	from, to, err = backfillRange(now, "2020-01-01", 5, models.TFDaily)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), to)

	from, to, err = backfillRange(now, "2024-06-03T15:45:00-04:00", 1, models.TFHourly)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 6, 3, 19, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 6, 3, 19, 0, 0, 0, time.UTC), to)

	_, to, err = backfillRange(now, "1717430400", 1, models.TFDaily)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), to)
}

func TestBackfillRangeRejectsBadInput(t *testing.T) {
	now := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	_, _, err := backfillRange(now, "last tuesday", 5, models.TFDaily)
	assert.ErrorContains(t, err, "invalid --until")

	_, _, err = backfillRange(now, "", 0, models.TFDaily)
	assert.Error(t, err)
}
