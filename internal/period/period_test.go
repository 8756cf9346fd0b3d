package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id   int
	at   time.Time
	done bool
}

func anchorOf(i item) time.Time { return i.at }
func doneOf(i item) bool        { return i.done }

func ids(items []item) []int {
	out := make([]int, 0, len(items))
	for _, i := range items {
		out = append(out, i.id)
	}
	return out
}

func TestPartitionDayKeepsOrderAndSinksCompleted(t *testing.T) {
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := []item{
		{id: 1, at: day, done: true},
		{id: 2, at: day.Add(-24 * time.Hour)},
		{id: 3, at: day.Add(3 * time.Hour)},
		{id: 4, at: day.Add(-2 * time.Hour), done: true},
		{id: 5, at: day.Add(-11 * time.Hour)},
	}

	got := Partition(items, DayOf(day), anchorOf, doneOf)
	assert.Equal(t, []int{3, 5, 1, 4}, ids(got))
}

func TestPartitionDayBoundaries(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	items := []item{
		{id: 1, at: time.Date(2026, 3, 10, 23, 59, 59, 0, loc)},
		{id: 2, at: time.Date(2026, 3, 10, 0, 0, 0, 0, loc)},
		{id: 3, at: time.Date(2026, 3, 11, 0, 0, 0, 0, loc)},
		{id: 4, at: time.Date(2026, 3, 9, 23, 59, 59, 0, loc)},
	}

	assert.Equal(t, []int{1, 2}, ids(Partition(items, DayOf(day), anchorOf, doneOf)))
	assert.Equal(t, []int{3}, ids(Partition(items, DayOf(day.AddDate(0, 0, 1)), anchorOf, doneOf)))
	assert.Equal(t, []int{4}, ids(Partition(items, DayOf(day.AddDate(0, 0, -1)), anchorOf, doneOf)))
}

func TestIsSameDayComparesInReferenceLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	// 22:30 UTC on the 9th is 01:30 on the 10th in UTC+3.
	assert.True(t, IsSameDay(time.Date(2026, 3, 9, 22, 30, 0, 0, time.UTC), day))
	assert.False(t, IsSameDay(time.Date(2026, 3, 10, 22, 30, 0, 0, time.UTC), day))
}

func TestIsSameWeek(t *testing.T) {
	sunday := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Sunday, sunday.Weekday())

	assert.True(t, IsSameWeek(sunday, sunday))
	assert.True(t, IsSameWeek(sunday.AddDate(0, 0, 6).Add(23*time.Hour+59*time.Minute+59*time.Second), sunday))
	assert.False(t, IsSameWeek(sunday.Add(-time.Second), sunday))
	assert.False(t, IsSameWeek(sunday.AddDate(0, 0, 7), sunday))

	wednesday := sunday.AddDate(0, 0, 3).Add(15 * time.Hour)
	assert.True(t, IsSameWeek(sunday.Add(time.Minute), wednesday))
	assert.Equal(t, time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC), wednesday, "reference must not be modified")

	week := WeekOf(wednesday)
	assert.Equal(t, sunday, week.Start)
	assert.Equal(t, time.Date(2026, 3, 14, 23, 59, 59, 999999999, time.UTC), week.End())
}

func TestIsSameMonth(t *testing.T) {
	ref := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, IsSameMonth(time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC), ref))
	assert.False(t, IsSameMonth(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), ref))
	assert.False(t, IsSameMonth(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), ref))
}

func TestAdvanceMonthRollsYear(t *testing.T) {
	dec := MonthOf(time.Date(2025, 12, 31, 18, 0, 0, 0, time.UTC))
	jan := dec.Advance(1)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), jan.Start)
	assert.Equal(t, dec.Start, jan.Advance(-1).Start)

	// The 31st must not overflow into the following month.
	mar := MonthOf(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)).Advance(2)
	assert.Equal(t, time.March, mar.Start.Month())

	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), dec.Start, "input must not be modified")
}

func TestAdvanceTwelveMonthsIsIdentity(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		start := MonthOf(time.Date(2026, m, 17, 9, 0, 0, 0, time.UTC))
		p := start
		for i := 0; i < 12; i++ {
			p = p.Advance(1)
		}
		assert.Equal(t, start.Start.Month(), p.Start.Month())
		assert.Equal(t, start.Start.Year()+1, p.Start.Year())

		for i := 0; i < 12; i++ {
			p = p.Advance(-1)
		}
		assert.True(t, start.Equal(p), "month %s", m)
	}
}

func TestAdvanceDayAndWeek(t *testing.T) {
	day := DayOf(time.Date(2026, 12, 31, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), day.Advance(1).Start)

	week := WeekOf(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), week.Advance(1).Start)
}

func TestPartitionEmptyAndZeroAnchors(t *testing.T) {
	for _, p := range []Period{DayOf(time.Now()), WeekOf(time.Now()), MonthOf(time.Now())} {
		got := Partition[item](nil, p, anchorOf, doneOf)
		require.NotNil(t, got)
		assert.Empty(t, got)
	}

	got := Partition([]item{{id: 1}}, MonthOf(time.Now()), anchorOf, doneOf)
	assert.Empty(t, got, "items without an anchor belong to no bucket")
}

func TestPartitionWithoutCompletionKeepsOrder(t *testing.T) {
	month := MonthOf(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	items := []item{
		{id: 1, at: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), done: true},
		{id: 2, at: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t, []int{1, 2}, ids(Partition(items, month, anchorOf, nil)))
}

func TestFormatHelpers(t *testing.T) {
	at := time.Date(2026, 1, 2, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-02", FormatDateInput(at))
	assert.Equal(t, "2026-01-02T14:05", FormatDateTimeInput(at))
	assert.Equal(t, "January 2026", MonthName(at))
	assert.Equal(t, "01/02/2026, 02:05 PM", FormatDeadline(at))

	parsed, err := ParseDateTimeInput("2026-01-02T14:05", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, at, parsed)

	parsed, err = ParseDateTimeInput("2026-01-02", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDateInput("02.01.2026", time.UTC)
	assert.Error(t, err)

	parsed, err = ParseDeadlineInput("2026-01-02T14:05", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, at, parsed)
	_, err = ParseDeadlineInput("2026-01-02", time.UTC)
	assert.Error(t, err, "a deadline needs a time of day")
}
