package period

import (
	"fmt"
	"time"
)

const (
	dateInputLayout     = "2006-01-02"
	dateTimeInputLayout = "2006-01-02T15:04"
)

// FormatDateInput renders t as YYYY-MM-DD in its own location.
func FormatDateInput(t time.Time) string {
	return t.Format(dateInputLayout)
}

// FormatDateTimeInput renders t as YYYY-MM-DDTHH:MM, the datetime-local form value.
func FormatDateTimeInput(t time.Time) string {
	return t.Format(dateTimeInputLayout)
}

// ParseDateInput reads a YYYY-MM-DD value as local midnight.
func ParseDateInput(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateInputLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

// ParseDeadlineInput reads a YYYY-MM-DDTHH:MM value and nothing else.
func ParseDeadlineInput(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateTimeInputLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date and time %q: %w", raw, err)
	}
	return t, nil
}

// ParseDateTimeInput reads a YYYY-MM-DDTHH:MM value, falling back to a bare
// date as stored forms round-trip either.
func ParseDateTimeInput(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(dateTimeInputLayout, raw, loc); err == nil {
		return t, nil
	}
	return ParseDateInput(raw, loc)
}

// MonthName renders "January 2026".
func MonthName(t time.Time) string {
	return t.Format("January 2006")
}

// FormatDeadline renders "01/02/2026, 02:00 PM".
func FormatDeadline(t time.Time) string {
	return t.Format("01/02/2006, 03:04 PM")
}
