package timeutil

import (
	"time"
)

// Rome is the shop's timezone (CET/CEST)
var Rome *time.Location

func init() {
	var err error
	Rome, err = time.LoadLocation("Europe/Rome")
	if err != nil {
		// Fallback: create fixed zone if Europe/Rome not available
		Rome = time.FixedZone("CET", 60*60) // UTC+1
	}
}

// Now returns the current time in the shop's timezone
func Now() time.Time {
	return time.Now().In(Rome)
}

// Display date format used across all persisted records: "DD/MM/YYYY"
const DisplayDateLayout = "02/01/2006"

// Today returns the current date formatted as DD/MM/YYYY
func Today() string {
	return Now().Format(DisplayDateLayout)
}

// ParseDisplayDate parses a "DD/MM/YYYY" string in the shop's timezone.
func ParseDisplayDate(s string) (time.Time, error) {
	return time.ParseInLocation(DisplayDateLayout, s, Rome)
}

// FormatDisplayDate formats a time as "DD/MM/YYYY"
func FormatDisplayDate(t time.Time) string {
	return t.In(Rome).Format(DisplayDateLayout)
}

// StartOfDay returns 00:00:00 of the given time's day
func StartOfDay(t time.Time) time.Time {
	r := t.In(Rome)
	return time.Date(r.Year(), r.Month(), r.Day(), 0, 0, 0, 0, Rome)
}

// EndOfDay returns 23:59:59.999999999 of the given time's day
func EndOfDay(t time.Time) time.Time {
	r := t.In(Rome)
	return time.Date(r.Year(), r.Month(), r.Day(), 23, 59, 59, 999999999, Rome)
}

// SameDay reports whether two times fall on the same calendar day
func SameDay(a, b time.Time) bool {
	a, b = a.In(Rome), b.In(Rome)
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// CurrentPeriod returns the "YYYY-MM" key of the current month
func CurrentPeriod() string {
	return Now().Format("2006-01")
}

// DaysInPeriod returns the number of calendar days in a "YYYY-MM" period.
func DaysInPeriod(period string) (int, error) {
	t, err := time.ParseInLocation("2006-01", period, Rome)
	if err != nil {
		return 0, err
	}
	// Day 0 of the next month is the last day of this month
	return t.AddDate(0, 1, -1).Day(), nil
}
