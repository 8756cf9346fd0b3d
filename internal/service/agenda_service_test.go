package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"planner/internal/model"
)

func TestFormatTaskIcons(t *testing.T) {
	now := fixedNow

	overdue := formatTask(task(1, "late", now.Add(-time.Hour), false), now)
	assert.True(t, strings.HasPrefix(overdue, iconOverdue+" #1 late"))
	assert.Contains(t, overdue, "(overdue)")

	due := formatTask(task(2, "soon", now.Add(24*time.Hour), false), now)
	assert.True(t, strings.HasPrefix(due, iconDue))
	assert.Contains(t, due, "03/12/2026, 09:00 AM")

	later := formatTask(task(3, "later", now.Add(96*time.Hour), false), now)
	assert.True(t, strings.HasPrefix(later, iconDefault))

	done := formatTask(task(4, "done", now.Add(-time.Hour), true), now)
	assert.True(t, strings.HasPrefix(done, iconCompleted))
	assert.NotContains(t, done, "overdue")

	undated := formatTask(model.Task{ID: 5, Title: "someday"}, now)
	assert.Equal(t, iconDefault+" #5 someday", undated)
}

func TestSectionPagesLongLists(t *testing.T) {
	lines := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		lines = append(lines, "line")
	}
	out := section("Title", lines, "empty")
	assert.Equal(t, ItemsPerPage, strings.Count(out, "line"))
	assert.True(t, strings.HasSuffix(out, "… and 2 more"))

	assert.Equal(t, "Title\n— empty", section("Title", nil, "empty"))
}

func TestAgendaRendersStores(t *testing.T) {
	p := NewPlanner(PlannerConfig{BaseURL: "http://127.0.0.1:1", Clock: fixedClock, Logger: quietLogger()})
	p.Tasks.Store().Load([]model.Task{
		task(1, "standup", fixedNow.Add(time.Hour), false),
		task(2, "retro", fixedNow.Add(48*time.Hour), false),
	})
	p.Goals.Store().Load([]model.Goal{{ID: 7, Title: "run 10k", CreatedAt: model.At(fixedNow)}})
	p.Notes.Store().Load([]model.Note{{ID: 9, Description: "buy milk", CreatedAt: model.At(fixedNow)}})

	agenda := NewAgendaService(p)

	today := agenda.Today(fixedNow)
	assert.Contains(t, today, "#1 standup")
	assert.NotContains(t, today, "retro")

	week := agenda.Week(fixedNow)
	assert.Contains(t, week, "#1 standup")
	assert.Contains(t, week, "#2 retro")

	month := agenda.Month(fixedNow)
	assert.Contains(t, month, "March 2026")
	assert.Contains(t, month, "#7 run 10k")
	assert.Contains(t, month, "#9 buy milk")

	summary := agenda.Summary(fixedNow)
	assert.True(t, strings.HasPrefix(summary, "📋 Daily agenda"))
	assert.Contains(t, summary, "Wed, Mar 11 2026")
	assert.Contains(t, summary, "🎯 Goals")
}
