package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEasternDSTBoundaries(t *testing.T) {
	cases := []struct {
		at   time.Time
		dst  bool
		hour int
	}{
		{time.Date(2024, 3, 10, 6, 59, 0, 0, time.UTC), false, 1},
		{time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC), true, 3},
		{time.Date(2024, 11, 3, 5, 59, 0, 0, time.UTC), true, 1},
		{time.Date(2024, 11, 3, 6, 0, 0, 0, time.UTC), false, 1},
		{time.Date(2024, 1, 11, 13, 30, 0, 0, time.UTC), false, 8},
		{time.Date(2024, 7, 11, 12, 30, 0, 0, time.UTC), true, 8},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.dst, IsEasternDST(tc.at), tc.at.String())
		assert.Equal(t, tc.hour, EasternHour(tc.at), tc.at.String())
	}
	assert.Equal(t, -4*time.Hour, EasternOffset(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -5*time.Hour, EasternOffset(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
}
