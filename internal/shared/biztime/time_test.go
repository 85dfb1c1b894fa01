package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthOfUsesBusinessTimezone(t *testing.T) {
	// 22:30 UTC on May 31st is already June 1st in Berlin (UTC+2 in summer).
	utc := time.Date(2025, time.May, 31, 22, 30, 0, 0, time.UTC)
	month, year := MonthOf(utc)
	assert.Equal(t, time.June, month)
	assert.Equal(t, 2025, year)

	// Noon stays in the same month.
	month, year = MonthOf(time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.May, month)
	assert.Equal(t, 2025, year)
}

func TestPreviousMonthCrossesYearBoundary(t *testing.T) {
	month, year := PreviousMonth(time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.December, month)
	assert.Equal(t, 2025, year)
}

func TestEndOfMonthUTC(t *testing.T) {
	// June in Berlin (UTC+2) closes on June 30th at 22:00 UTC.
	end := EndOfMonthUTC(2025, time.June)
	assert.Equal(t, time.June, end.Month())
	assert.Equal(t, 30, end.Day())

	month, year := MonthOf(end)
	require.Equal(t, time.June, month)
	require.Equal(t, 2025, year)

	// One nanosecond later the next month has started.
	month, _ = MonthOf(end.Add(time.Nanosecond))
	assert.Equal(t, time.July, month)
}

func TestFormatMonth(t *testing.T) {
	assert.Equal(t, "2025-06", FormatMonth(2025, time.June))
	assert.Equal(t, "2025-12", FormatMonth(2025, time.December))
}
