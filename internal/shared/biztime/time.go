// Package biztime provides utilities for business timezone calculations.
// All storage and transport use UTC. The business timezone is only used for
// calendar-month boundaries: a payment settles into the month in which its
// completion fell in the business timezone, not the server's local zone.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "Europe/Berlin"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone location, auto-initializing with the
// default timezone if Init was never called.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// MonthOf returns the calendar month and year of t in the business timezone.
// Used to pick the settlement bucket for a completed payment.
func MonthOf(t time.Time) (month time.Month, year int) {
	bizTime := t.In(Location())
	return bizTime.Month(), bizTime.Year()
}

// PreviousMonth returns the calendar month immediately before t in the
// business timezone. Used by the payout scheduler to select the period to settle.
func PreviousMonth(t time.Time) (month time.Month, year int) {
	bizTime := t.In(Location())
	first := time.Date(bizTime.Year(), bizTime.Month(), 1, 0, 0, 0, 0, Location())
	prev := first.Add(-time.Nanosecond)
	return prev.Month(), prev.Year()
}

// EndOfMonthUTC returns the last instant of the month in the business
// timezone, converted to UTC. A period is closed once this instant has passed.
func EndOfMonthUTC(year int, month time.Month) time.Time {
	nextMonth := time.Date(year, month+1, 1, 0, 0, 0, 0, Location())
	endOfMonth := nextMonth.Add(-time.Nanosecond)
	return endOfMonth.UTC()
}

// FormatMonth formats a settlement period as YYYY-MM.
func FormatMonth(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
