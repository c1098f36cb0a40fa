// Package recurrence computes the next firing time for reminder schedules.
// It is pure calendar arithmetic: no clock reads, no I/O.
package recurrence

import (
	"time"

	"github.com/vhvplatform/go-property-automation/internal/domain"
)

// NextRun returns the next run date derived from the reference instant now.
// The second return value is false when the frequency does not recur (once);
// the caller is expected to complete the reminder instead of rescheduling it.
func NextRun(freq domain.Frequency, now time.Time) (time.Time, bool) {
	switch freq {
	case domain.FrequencyDaily:
		return now.AddDate(0, 0, 1), true
	case domain.FrequencyWeekly:
		return now.AddDate(0, 0, 7), true
	case domain.FrequencyMonthly:
		return addMonths(now, 1), true
	case domain.FrequencyYearly:
		return addYears(now, 1), true
	default:
		return time.Time{}, false
	}
}

// addMonths advances t by the given number of calendar months, keeping the
// day-of-month and clamping to the last day when the target month is shorter
// (Jan 31 + 1 month = Feb 28/29). time.AddDate would normalize past the month
// boundary instead, which is not what a monthly rent reminder wants.
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// addYears advances t by whole years, clamping Feb 29 to Feb 28 on non-leap years.
func addYears(t time.Time, years int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	if last := daysIn(year+years, month, t.Location()); day > last {
		day = last
	}
	return time.Date(year+years, month, day, hour, min, sec, t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month
func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
