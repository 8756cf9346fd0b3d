package service

import (
	"fmt"
	"strings"
	"time"

	"planner/internal/model"
	"planner/internal/period"
)

const (
	iconDefault   = "🟢"
	iconDue       = "⏳"
	iconOverdue   = "⚠️"
	iconCompleted = "✅"
	iconNote      = "📝"
)

// AgendaService renders the planner's views as plain text for the CLI and the bot.
type AgendaService struct {
	planner *Planner
}

func NewAgendaService(planner *Planner) *AgendaService {
	return &AgendaService{planner: planner}
}

// Summary is the daily report: today's tasks, the week's tasks and this
// month's goals and notes.
func (s *AgendaService) Summary(now time.Time) string {
	var b strings.Builder
	b.WriteString("📋 Daily agenda\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Mon, Jan 2 2006")))
	b.WriteString(s.Today(now))
	b.WriteString("\n\n")
	b.WriteString(s.Week(now))
	b.WriteString("\n\n")
	b.WriteString(s.Goals())
	b.WriteString("\n\n")
	b.WriteString(s.Notes())
	return strings.TrimSpace(b.String())
}

// Today lists tasks due today.
func (s *AgendaService) Today(now time.Time) string {
	tasks, _, _ := s.planner.Tasks.Store().View(ViewToday)
	return section("🔥 Today", taskLines(tasks, now), "no tasks for today")
}

// Week lists this week's tasks and weekly tasks.
func (s *AgendaService) Week(now time.Time) string {
	tasks, p, _ := s.planner.Tasks.Store().View(ViewWeek)
	weekly, _, _ := s.planner.Weekly.Store().View(ViewWeek)
	lines := taskLines(tasks, now)
	for _, w := range weekly {
		lines = append(lines, itemLine(completionIcon(w.IsCompleted), w.ID, w.Title, w.Description))
	}
	return section(fmt.Sprintf("📅 Week %s", p), lines, "nothing planned this week")
}

// Month lists everything anchored in the displayed month.
func (s *AgendaService) Month(now time.Time) string {
	tasks, p, _ := s.planner.Tasks.Store().View(ViewMonth)
	monthly, _, _ := s.planner.Monthly.Store().View(ViewMonth)

	var b strings.Builder
	b.WriteString(section(fmt.Sprintf("🗓 Tasks for %s", period.MonthName(p.Start)), taskLines(tasks, now), "no tasks this month"))
	b.WriteString("\n\n")
	lines := make([]string, 0, len(monthly))
	for _, m := range monthly {
		lines = append(lines, itemLine(completionIcon(m.IsCompleted), m.ID, m.Title, m.Description))
	}
	b.WriteString(section("📌 Monthly tasks", lines, "no monthly tasks"))
	b.WriteString("\n\n")
	b.WriteString(s.Goals())
	b.WriteString("\n\n")
	b.WriteString(s.Notes())
	return b.String()
}

// Selected lists tasks on the selected date.
func (s *AgendaService) Selected(now time.Time) string {
	tasks, p, _ := s.planner.Tasks.Store().View(ViewSelected)
	return section(fmt.Sprintf("📍 %s", p), taskLines(tasks, now), "no tasks on this date")
}

// Goals lists the displayed month's goals.
func (s *AgendaService) Goals() string {
	goals, _, _ := s.planner.Goals.Store().View(ViewMonth)
	lines := make([]string, 0, len(goals))
	for _, g := range goals {
		lines = append(lines, itemLine(completionIcon(g.IsCompleted), g.ID, g.Title, ""))
	}
	return section("🎯 Goals", lines, "no goals yet")
}

// Notes lists the displayed month's notes.
func (s *AgendaService) Notes() string {
	notes, _, _ := s.planner.Notes.Store().View(ViewMonth)
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, itemLine(iconNote, n.ID, n.Description, ""))
	}
	return section("🗒 Notes", lines, "no notes yet")
}

func section(title string, lines []string, empty string) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	if len(lines) == 0 {
		b.WriteString("— " + empty)
		return b.String()
	}
	shown, more := Page(lines, ItemsPerPage)
	b.WriteString(strings.Join(shown, "\n"))
	if more {
		b.WriteString(fmt.Sprintf("\n… and %d more", len(lines)-len(shown)))
	}
	return b.String()
}

func taskLines(tasks []model.Task, now time.Time) []string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, formatTask(t, now))
	}
	return lines
}

func formatTask(task model.Task, now time.Time) string {
	icon := iconDefault
	d := task.Deadline.In(now.Location())
	switch {
	case task.IsCompleted:
		icon = iconCompleted
	case task.Deadline.IsZero():
	case now.After(d):
		icon = iconOverdue
	case d.Sub(now) <= 48*time.Hour:
		icon = iconDue
	}

	var b strings.Builder
	b.WriteString(itemLine(icon, task.ID, task.Title, ""))
	if !task.Deadline.IsZero() {
		if !task.IsCompleted && now.After(d) {
			b.WriteString(fmt.Sprintf("\n   ⏰ %s (overdue)", period.FormatDeadline(d)))
		} else {
			b.WriteString(fmt.Sprintf("\n   ⏰ %s", period.FormatDeadline(d)))
		}
	}
	if desc := strings.TrimSpace(task.Description); desc != "" {
		b.WriteString(fmt.Sprintf("\n   📝 %s", desc))
	}
	return b.String()
}

func itemLine(icon string, id int, title, description string) string {
	line := fmt.Sprintf("%s #%d %s", icon, id, strings.TrimSpace(title))
	if desc := strings.TrimSpace(description); desc != "" {
		line += fmt.Sprintf("\n   📝 %s", desc)
	}
	return line
}

func completionIcon(done bool) string {
	if done {
		return iconCompleted
	}
	return iconDefault
}
