package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeframe_DateRange(t *testing.T) {
	now := time.Date(2026, time.January, 17, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		tf        Timeframe
		wantStart time.Time
		wantEnd   time.Time
		wantOK    bool
	}{
		{TimeframeAll, time.Time{}, time.Time{}, false},
		{
			TimeframeThisMonth,
			time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
			true,
		},
		{
			TimeframeLastMonth,
			time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
			true,
		},
		{
			TimeframeThisYear,
			time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.tf.String(), func(t *testing.T) {
			start, end, ok := tt.tf.DateRange(now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestTimeframe_Next(t *testing.T) {
	assert.Equal(t, TimeframeThisMonth, TimeframeAll.Next())
	assert.Equal(t, TimeframeAll, TimeframeThisYear.Next())
	assert.Equal(t, "Unknown", Timeframe(9).String())
}
