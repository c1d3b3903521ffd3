package view

import (
	"time"
)

type Timeframe int

const (
	TimeframeAll Timeframe = iota
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeThisYear
)

const timeframeCount = 4

func (t Timeframe) String() string {
	switch t {
	case TimeframeAll:
		return "All Time"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisYear:
		return "This Year"
	}

	return "Unknown"
}

func (t Timeframe) Next() Timeframe {
	return (t + 1) % timeframeCount
}

// DateRange returns the inclusive issue-date bounds of tf relative to now.
// ok is false for TimeframeAll.
func (t Timeframe) DateRange(now time.Time) (start, end time.Time, ok bool) {
	switch t {
	case TimeframeThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case TimeframeLastMonth:
		start = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	case TimeframeThisYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

		return start, start.AddDate(1, 0, 0).Add(-time.Nanosecond), true
	default:
		return time.Time{}, time.Time{}, false
	}

	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond), true
}
