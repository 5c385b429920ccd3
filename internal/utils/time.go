package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/daypoints/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// TodayInLocation returns the calendar date of instant t as seen in loc.
func TodayInLocation(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.DateFormat)
}

// ParseDate parses a YYYY-MM-DD day key. Anything else is rejected,
// including dates that time.Parse would normalize.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", dateStr)
	}
	return t, nil
}

// ValidateDate reports whether dateStr is a well-formed day key.
func ValidateDate(dateStr string) bool {
	_, err := ParseDate(dateStr)
	return err == nil
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	// Return the date at midnight in the specified timezone
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// AddDays shifts a day key by n calendar days. The arithmetic runs in UTC
// so DST transitions never skip or repeat a date.
func AddDays(dateStr string, n int) (string, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// DateRange lists every day key from start to end inclusive, oldest first.
// It returns an empty slice when end precedes start.
func DateRange(start, end string) ([]string, error) {
	n, err := DaysBetween(start, end)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return []string{}, nil
	}
	first, _ := ParseDate(start)
	dates := make([]string, 0, n+1)
	for i := 0; i <= n; i++ {
		dates = append(dates, first.AddDate(0, 0, i).Format(constants.DateFormat))
	}
	return dates, nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
