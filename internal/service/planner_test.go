package service

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/model"
	"planner/internal/period"
	"planner/internal/repository"
	"planner/internal/server"
)

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close(db) })

	ts := httptest.NewServer(server.New(db).Handler())
	t.Cleanup(ts.Close)

	return NewPlanner(PlannerConfig{
		BaseURL:    ts.URL,
		HTTPClient: ts.Client(),
		Clock:      fixedClock,
		Logger:     quietLogger(),
	})
}

func TestPlannerTaskRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	at := time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC)
	created, err := p.Tasks.Create(ctx, model.Task{Title: "demo", Deadline: model.At(at)})
	require.NoError(t, err)
	require.Positive(t, created.ID)

	require.NoError(t, p.Refresh(ctx))
	today, _, _ := p.Tasks.Store().View(ViewToday)
	require.Len(t, today, 1)
	assert.Equal(t, "demo", today[0].Title)
	assert.True(t, at.Equal(today[0].Deadline.Time))

	fetched, err := p.Tasks.Fetch(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "demo", fetched.Title)

	require.NoError(t, p.Tasks.Delete(ctx, created.ID))
	require.NoError(t, p.Refresh(ctx))
	today, _, _ = p.Tasks.Store().View(ViewToday)
	assert.Empty(t, today)
}

func TestPlannerToggleSurvivesReload(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	first, err := p.Tasks.Create(ctx, model.Task{Title: "one", Deadline: model.At(fixedNow.Add(time.Hour))})
	require.NoError(t, err)
	_, err = p.Tasks.Create(ctx, model.Task{Title: "two", Deadline: model.At(fixedNow.Add(2 * time.Hour))})
	require.NoError(t, err)

	_, err = p.Tasks.ToggleComplete(ctx, first.ID)
	require.NoError(t, err)
	require.NoError(t, p.Refresh(ctx))

	today, _, _ := p.Tasks.Store().View(ViewToday)
	require.Len(t, today, 2)
	assert.Equal(t, "two", today[0].Title)
	assert.Equal(t, "one", today[1].Title)
	assert.True(t, today[1].IsCompleted)
}

func TestPlannerMonthPaging(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	_, err := p.Goals.Create(ctx, model.Goal{Title: "march goal"})
	require.NoError(t, err)

	next := p.NextMonth()
	assert.Equal(t, time.April, next.Start.Month())
	_, err = p.Notes.Create(ctx, model.Note{Description: "april note"})
	require.NoError(t, err)

	goals, _, _ := p.Goals.Store().View(ViewMonth)
	assert.Empty(t, goals)
	notes, _, _ := p.Notes.Store().View(ViewMonth)
	require.Len(t, notes, 1)
	assert.Equal(t, 2026, notes[0].CreatedAt.Year())
	assert.Equal(t, time.April, notes[0].CreatedAt.Month())

	prev := p.PrevMonth()
	assert.True(t, prev.Equal(period.MonthOf(fixedNow)))
	goals, _, _ = p.Goals.Store().View(ViewMonth)
	require.Len(t, goals, 1)
	assert.Equal(t, "march goal", goals[0].Title)

	for i := 0; i < 12; i++ {
		p.NextMonth()
	}
	ref := p.Reference()
	assert.Equal(t, 2027, ref.Start.Year())
	assert.Equal(t, time.March, ref.Start.Month())

	assert.True(t, p.CurrentMonth().Equal(period.MonthOf(fixedNow)))
}

func TestPlannerSelectDate(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	day := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	_, err := p.Tasks.Create(ctx, model.Task{Title: "dentist", Deadline: model.At(day.Add(10 * time.Hour))})
	require.NoError(t, err)
	_, err = p.Tasks.Create(ctx, model.Task{Title: "today", Deadline: model.At(fixedNow)})
	require.NoError(t, err)

	ref := p.SelectDate(day)
	assert.Equal(t, period.Day, ref.Granularity)

	selected, _, _ := p.Tasks.Store().View(ViewSelected)
	require.Len(t, selected, 1)
	assert.Equal(t, "dentist", selected[0].Title)

	month, _, _ := p.Tasks.Store().View(ViewMonth)
	assert.Len(t, month, 2)
}

func TestPlannerRefreshReportsUnreachableGateway(t *testing.T) {
	p := NewPlanner(PlannerConfig{BaseURL: "http://127.0.0.1:1", Clock: fixedClock, Logger: quietLogger()})
	err := p.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Todo"))
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	shown, more := Page(items, ItemsPerPage)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, shown)
	assert.True(t, more)

	shown, more = Page(items, 2*ItemsPerPage)
	assert.Equal(t, items, shown)
	assert.False(t, more)

	shown, more = Page(items, -1)
	assert.Empty(t, shown)
	assert.True(t, more)
}

func TestPlannerKindDispatch(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	goal, err := p.Goals.Create(ctx, model.Goal{Title: "run"})
	require.NoError(t, err)

	done, err := p.ToggleComplete(ctx, "goal", goal.ID)
	require.NoError(t, err)
	assert.True(t, done)

	name, ok := p.Label("goal", goal.ID)
	require.True(t, ok)
	assert.Equal(t, "run", name)

	_, err = p.ToggleComplete(ctx, "note", 1)
	assert.ErrorIs(t, err, ErrNoCompletion)
	_, err = p.ToggleComplete(ctx, "chore", 1)
	assert.ErrorIs(t, err, ErrUnknownKind)

	require.NoError(t, p.Delete(ctx, "goal", goal.ID))
	_, ok = p.Label("goal", goal.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, p.Delete(ctx, "chore", 1), ErrUnknownKind)
}

func TestPlannerRefreshKinds(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	_, err := p.Goals.Create(ctx, model.Goal{Title: "run"})
	require.NoError(t, err)
	p.Goals.Store().Load(nil)

	require.NoError(t, p.RefreshKinds(ctx, "goal"))
	assert.Len(t, p.Goals.Store().Items(), 1)
	assert.ErrorIs(t, p.RefreshKinds(ctx, "goal", "chore"), ErrUnknownKind)
}
