// Package period classifies dated items into calendar buckets: a day, a
// Sunday-to-Saturday week or a calendar month. Comparisons are made on the
// calendar date in the reference's location, never on fixed 24h windows.
package period

import (
	"sort"
	"time"

	"github.com/jinzhu/now"
)

// Granularity is the size of a calendar bucket.
type Granularity int

const (
	Day Granularity = iota
	Week
	Month
)

func (g Granularity) String() string {
	switch g {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	default:
		return "unknown"
	}
}

// Period is a calendar bucket. Start is the first instant of the bucket in its
// location.
type Period struct {
	Granularity Granularity
	Start       time.Time
}

func calendar(loc *time.Location) *now.Config {
	return &now.Config{WeekStartDay: time.Sunday, TimeLocation: loc}
}

// DayOf returns the day containing t.
func DayOf(t time.Time) Period {
	return Period{Granularity: Day, Start: calendar(t.Location()).With(t).BeginningOfDay()}
}

// WeekOf returns the Sunday-to-Saturday week containing t.
func WeekOf(t time.Time) Period {
	return Period{Granularity: Week, Start: calendar(t.Location()).With(t).BeginningOfWeek()}
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Period {
	return Period{Granularity: Month, Start: calendar(t.Location()).With(t).BeginningOfMonth()}
}

// End returns the last instant of the period.
func (p Period) End() time.Time {
	c := calendar(p.Start.Location()).With(p.Start)
	switch p.Granularity {
	case Week:
		return c.EndOfWeek()
	case Month:
		return c.EndOfMonth()
	default:
		return c.EndOfDay()
	}
}

// Contains reports whether anchor's calendar date falls within the period.
func (p Period) Contains(anchor time.Time) bool {
	if anchor.IsZero() {
		return false
	}
	switch p.Granularity {
	case Week:
		return IsSameWeek(anchor, p.Start)
	case Month:
		return IsSameMonth(anchor, p.Start)
	default:
		return IsSameDay(anchor, p.Start)
	}
}

// Advance shifts the period by delta buckets. Months step on the first of the
// month so that the year rolls over at the December/January boundary.
func (p Period) Advance(delta int) Period {
	switch p.Granularity {
	case Month:
		y, m, _ := p.Start.Date()
		return Period{Granularity: Month, Start: time.Date(y, m+time.Month(delta), 1, 0, 0, 0, 0, p.Start.Location())}
	case Week:
		return WeekOf(p.Start.AddDate(0, 0, 7*delta))
	default:
		return DayOf(p.Start.AddDate(0, 0, delta))
	}
}

// Equal reports whether both periods describe the same bucket.
func (p Period) Equal(other Period) bool {
	return p.Granularity == other.Granularity && p.Start.Equal(other.Start)
}

func (p Period) String() string {
	switch p.Granularity {
	case Month:
		return MonthName(p.Start)
	case Week:
		return FormatDateInput(p.Start) + ".." + FormatDateInput(p.End())
	default:
		return FormatDateInput(p.Start)
	}
}

// IsSameDay reports whether anchor falls on the calendar date of day.
func IsSameDay(anchor, day time.Time) bool {
	a := anchor.In(day.Location())
	ay, am, ad := a.Date()
	dy, dm, dd := day.Date()
	return ay == dy && am == dm && ad == dd
}

// IsSameMonth reports whether anchor falls in the month and year of ref.
func IsSameMonth(anchor, ref time.Time) bool {
	a := anchor.In(ref.Location())
	return a.Year() == ref.Year() && a.Month() == ref.Month()
}

// IsSameWeek reports whether anchor falls in the Sunday-to-Saturday week of ref,
// both ends inclusive.
func IsSameWeek(anchor, ref time.Time) bool {
	c := calendar(ref.Location()).With(ref)
	start, end := c.BeginningOfWeek(), c.EndOfWeek()
	a := anchor.In(ref.Location())
	return !a.Before(start) && !a.After(end)
}

// Partition keeps the items whose anchor lies in p, then moves completed items
// after incomplete ones without reordering siblings. completed may be nil.
func Partition[T any](items []T, p Period, anchor func(T) time.Time, completed func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if p.Contains(anchor(item)) {
			out = append(out, item)
		}
	}
	SinkCompleted(out, completed)
	return out
}

// SinkCompleted stable-sorts items so completed ones come last.
func SinkCompleted[T any](items []T, completed func(T) bool) {
	if completed == nil {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return !completed(items[i]) && completed(items[j])
	})
}
