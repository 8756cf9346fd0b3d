package model

import (
	"strings"
	"time"
)

// Fields carries user-editable values. Nil pointers leave the entity untouched.
type Fields struct {
	Title       *string
	Description *string
	Anchor      *time.Time
	Completed   *bool
}

// Kind describes one entity collection: where it lives on the gateway and how
// to reach its identifier, temporal anchor and completion flag.
type Kind[T any] struct {
	// Name is the short, lower-case name used in logs and on the command line.
	Name string
	// Resource is the gateway path segment, as in /api/{Resource}.
	Resource string
	// StampsCreation marks kinds anchored by createdAt rather than a user deadline.
	StampsCreation bool

	ID        func(T) int
	SetID     func(*T, int)
	Anchor    func(T) time.Time
	SetAnchor func(*T, time.Time)
	Label     func(T) string
	Assign    func(*T, Fields)

	// Completed and SetCompleted are nil for kinds without a completion flag.
	Completed    func(T) bool
	SetCompleted func(*T, bool)
}

// HasCompletion reports whether entities of this kind can be completed.
func (k Kind[T]) HasCompletion() bool {
	return k.Completed != nil && k.SetCompleted != nil
}

// IndexOf returns the position of id in items, or -1.
func (k Kind[T]) IndexOf(items []T, id int) int {
	for i, item := range items {
		if k.ID(item) == id {
			return i
		}
	}
	return -1
}

// Blank reports whether the entity's required text field is empty.
func (k Kind[T]) Blank(item T) bool {
	return strings.TrimSpace(k.Label(item)) == ""
}

var Todos = Kind[Task]{
	Name:      "task",
	Resource:  "Todo",
	ID:        func(t Task) int { return t.ID },
	SetID:     func(t *Task, id int) { t.ID = id },
	Anchor:    func(t Task) time.Time { return t.Deadline.Time },
	SetAnchor: func(t *Task, at time.Time) { t.Deadline = At(at) },
	Label:     func(t Task) string { return t.Title },
	Assign: func(t *Task, f Fields) {
		assignString(&t.Title, f.Title)
		assignString(&t.Description, f.Description)
		assignTime(&t.Deadline, f.Anchor)
		assignBool(&t.IsCompleted, f.Completed)
	},
	Completed:    func(t Task) bool { return t.IsCompleted },
	SetCompleted: func(t *Task, done bool) { t.IsCompleted = done },
}

var Weeklies = Kind[WeeklyTask]{
	Name:           "weekly",
	Resource:       "Weekly",
	StampsCreation: true,
	ID:             func(t WeeklyTask) int { return t.ID },
	SetID:          func(t *WeeklyTask, id int) { t.ID = id },
	Anchor:         func(t WeeklyTask) time.Time { return t.CreatedAt.Time },
	SetAnchor:      func(t *WeeklyTask, at time.Time) { t.CreatedAt = At(at) },
	Label:          func(t WeeklyTask) string { return t.Title },
	Assign: func(t *WeeklyTask, f Fields) {
		assignString(&t.Title, f.Title)
		assignString(&t.Description, f.Description)
		assignTime(&t.CreatedAt, f.Anchor)
		assignBool(&t.IsCompleted, f.Completed)
	},
	Completed:    func(t WeeklyTask) bool { return t.IsCompleted },
	SetCompleted: func(t *WeeklyTask, done bool) { t.IsCompleted = done },
}

var Monthlies = Kind[MonthlyTask]{
	Name:           "monthly",
	Resource:       "Monthly",
	StampsCreation: true,
	ID:             func(t MonthlyTask) int { return t.ID },
	SetID:          func(t *MonthlyTask, id int) { t.ID = id },
	Anchor:         func(t MonthlyTask) time.Time { return t.CreatedAt.Time },
	SetAnchor:      func(t *MonthlyTask, at time.Time) { t.CreatedAt = At(at) },
	Label:          func(t MonthlyTask) string { return t.Title },
	Assign: func(t *MonthlyTask, f Fields) {
		assignString(&t.Title, f.Title)
		assignString(&t.Description, f.Description)
		assignTime(&t.CreatedAt, f.Anchor)
		assignBool(&t.IsCompleted, f.Completed)
	},
	Completed:    func(t MonthlyTask) bool { return t.IsCompleted },
	SetCompleted: func(t *MonthlyTask, done bool) { t.IsCompleted = done },
}

var Goals = Kind[Goal]{
	Name:           "goal",
	Resource:       "Goal",
	StampsCreation: true,
	ID:             func(g Goal) int { return g.ID },
	SetID:          func(g *Goal, id int) { g.ID = id },
	Anchor:         func(g Goal) time.Time { return g.CreatedAt.Time },
	SetAnchor:      func(g *Goal, at time.Time) { g.CreatedAt = At(at) },
	Label:          func(g Goal) string { return g.Title },
	Assign: func(g *Goal, f Fields) {
		assignString(&g.Title, f.Title)
		assignTime(&g.CreatedAt, f.Anchor)
		assignBool(&g.IsCompleted, f.Completed)
	},
	Completed:    func(g Goal) bool { return g.IsCompleted },
	SetCompleted: func(g *Goal, done bool) { g.IsCompleted = done },
}

// Notes have no completion flag; their text lives in Description.
var Notes = Kind[Note]{
	Name:           "note",
	Resource:       "Note",
	StampsCreation: true,
	ID:             func(n Note) int { return n.ID },
	SetID:          func(n *Note, id int) { n.ID = id },
	Anchor:         func(n Note) time.Time { return n.CreatedAt.Time },
	SetAnchor:      func(n *Note, at time.Time) { n.CreatedAt = At(at) },
	Label:          func(n Note) string { return n.Description },
	Assign: func(n *Note, f Fields) {
		// A note has a single text field; either flag fills it.
		assignString(&n.Description, f.Title)
		assignString(&n.Description, f.Description)
		assignTime(&n.CreatedAt, f.Anchor)
	},
}

func assignString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func assignTime(dst *Timestamp, v *time.Time) {
	if v != nil {
		*dst = At(*v)
	}
}

func assignBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
