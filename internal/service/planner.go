package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"planner/internal/gateway"
	"planner/internal/model"
	"planner/internal/period"
	"planner/internal/store"
)

var ErrUnknownKind = errors.New("unknown kind")

// View names registered on the planner's stores.
const (
	ViewToday    = "today"
	ViewWeek     = "week"
	ViewMonth    = "month"
	ViewSelected = "selected"
)

// ItemsPerPage is how many rows a list shows before "show more".
const ItemsPerPage = 6

// PlannerConfig wires the five collections to one gateway.
type PlannerConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Clock      func() time.Time
	Confirmer  Confirmer
	Logger     *log.Logger
	// Reconcile applies to create and delete on every collection.
	Reconcile Reconcile
}

// Planner holds one coordinator per collection. All stores share the same
// reference period: the displayed month or the selected date.
type Planner struct {
	Tasks   *Coordinator[model.Task]
	Weekly  *Coordinator[model.WeeklyTask]
	Monthly *Coordinator[model.MonthlyTask]
	Goals   *Coordinator[model.Goal]
	Notes   *Coordinator[model.Note]

	clock func() time.Time
}

func NewPlanner(cfg PlannerConfig) *Planner {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Confirmer == nil {
		cfg.Confirmer = AlwaysConfirm
	}
	opts := []CoordinatorOption{
		WithConfirmer(cfg.Confirmer),
		WithLogger(cfg.Logger),
		WithCoordinatorClock(cfg.Clock),
		WithCreateReconcile(cfg.Reconcile),
		WithDeleteReconcile(cfg.Reconcile),
	}

	tasks := store.New(model.Todos, store.WithClock(cfg.Clock))
	tasks.Watch(ViewToday, store.Today)
	tasks.Watch(ViewWeek, store.ThisWeek)
	tasks.Watch(ViewMonth, store.ReferenceMonth)
	tasks.Watch(ViewSelected, store.Reference)

	weekly := store.New(model.Weeklies, store.WithClock(cfg.Clock))
	weekly.Watch(ViewWeek, store.ThisWeek)
	weekly.Watch(ViewMonth, store.ReferenceMonth)

	monthly := store.New(model.Monthlies, store.WithClock(cfg.Clock))
	monthly.Watch(ViewMonth, store.ReferenceMonth)

	goals := store.New(model.Goals, store.WithClock(cfg.Clock))
	goals.Watch(ViewMonth, store.ReferenceMonth)

	notes := store.New(model.Notes, store.WithClock(cfg.Clock))
	notes.Watch(ViewMonth, store.ReferenceMonth)

	return &Planner{
		Tasks:   NewCoordinator[model.Task](gateway.NewClient(cfg.BaseURL, model.Todos, cfg.HTTPClient), tasks, opts...),
		Weekly:  NewCoordinator[model.WeeklyTask](gateway.NewClient(cfg.BaseURL, model.Weeklies, cfg.HTTPClient), weekly, opts...),
		Monthly: NewCoordinator[model.MonthlyTask](gateway.NewClient(cfg.BaseURL, model.Monthlies, cfg.HTTPClient), monthly, opts...),
		Goals:   NewCoordinator[model.Goal](gateway.NewClient(cfg.BaseURL, model.Goals, cfg.HTTPClient), goals, opts...),
		Notes:   NewCoordinator[model.Note](gateway.NewClient(cfg.BaseURL, model.Notes, cfg.HTTPClient), notes, opts...),
		clock:   cfg.Clock,
	}
}

// Refresh reloads every collection. A failing collection keeps its previous
// state; the others are still refreshed.
func (p *Planner) Refresh(ctx context.Context) error {
	return errors.Join(
		p.Tasks.Refresh(ctx),
		p.Weekly.Refresh(ctx),
		p.Monthly.Refresh(ctx),
		p.Goals.Refresh(ctx),
		p.Notes.Refresh(ctx),
	)
}

// RefreshKinds reloads only the named collections, leaving the others as they are.
func (p *Planner) RefreshKinds(ctx context.Context, kinds ...string) error {
	errs := make([]error, 0, len(kinds))
	for _, kind := range kinds {
		switch kind {
		case model.Todos.Name:
			errs = append(errs, p.Tasks.Refresh(ctx))
		case model.Weeklies.Name:
			errs = append(errs, p.Weekly.Refresh(ctx))
		case model.Monthlies.Name:
			errs = append(errs, p.Monthly.Refresh(ctx))
		case model.Goals.Name:
			errs = append(errs, p.Goals.Refresh(ctx))
		case model.Notes.Name:
			errs = append(errs, p.Notes.Refresh(ctx))
		default:
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownKind, kind))
		}
	}
	return errors.Join(errs...)
}

// Reference is the period every store is showing.
func (p *Planner) Reference() period.Period {
	return p.Tasks.Store().Reference()
}

// SetReferencePeriod repartitions every store for p.
func (p *Planner) SetReferencePeriod(ref period.Period) {
	p.Tasks.Store().SetReferencePeriod(ref)
	p.Weekly.Store().SetReferencePeriod(ref)
	p.Monthly.Store().SetReferencePeriod(ref)
	p.Goals.Store().SetReferencePeriod(ref)
	p.Notes.Store().SetReferencePeriod(ref)
}

// PrevMonth pages the displayed month back by one.
func (p *Planner) PrevMonth() period.Period {
	return p.shiftMonth(-1)
}

// NextMonth pages the displayed month forward by one.
func (p *Planner) NextMonth() period.Period {
	return p.shiftMonth(1)
}

// CurrentMonth returns to the month containing today.
func (p *Planner) CurrentMonth() period.Period {
	ref := period.MonthOf(p.clock())
	p.SetReferencePeriod(ref)
	return ref
}

// SelectDate shows the given calendar date; month views follow its month.
func (p *Planner) SelectDate(day time.Time) period.Period {
	ref := period.DayOf(day)
	p.SetReferencePeriod(ref)
	return ref
}

// Rollover recomputes the today/this-week views after the clock moved on.
func (p *Planner) Rollover() {
	p.Tasks.Store().Rollover()
	p.Weekly.Store().Rollover()
	p.Monthly.Store().Rollover()
	p.Goals.Store().Rollover()
	p.Notes.Store().Rollover()
}

func (p *Planner) shiftMonth(delta int) period.Period {
	ref := period.MonthOf(p.Reference().Start).Advance(delta)
	p.SetReferencePeriod(ref)
	return ref
}

// KindNames lists the collection names accepted by ToggleComplete and Delete.
var KindNames = []string{model.Todos.Name, model.Weeklies.Name, model.Monthlies.Name, model.Goals.Name, model.Notes.Name}

// ToggleComplete flips the completion flag of one entity of the named kind and
// reports the new value.
func (p *Planner) ToggleComplete(ctx context.Context, kind string, id int) (bool, error) {
	switch kind {
	case model.Todos.Name:
		return toggle(ctx, p.Tasks, id)
	case model.Weeklies.Name:
		return toggle(ctx, p.Weekly, id)
	case model.Monthlies.Name:
		return toggle(ctx, p.Monthly, id)
	case model.Goals.Name:
		return toggle(ctx, p.Goals, id)
	case model.Notes.Name:
		return toggle(ctx, p.Notes, id)
	default:
		return false, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
}

// Delete removes one entity of the named kind, asking the confirmer first.
func (p *Planner) Delete(ctx context.Context, kind string, id int) error {
	switch kind {
	case model.Todos.Name:
		return p.Tasks.Delete(ctx, id)
	case model.Weeklies.Name:
		return p.Weekly.Delete(ctx, id)
	case model.Monthlies.Name:
		return p.Monthly.Delete(ctx, id)
	case model.Goals.Name:
		return p.Goals.Delete(ctx, id)
	case model.Notes.Name:
		return p.Notes.Delete(ctx, id)
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
}

// Label returns the display text of a stored entity.
func (p *Planner) Label(kind string, id int) (string, bool) {
	switch kind {
	case model.Todos.Name:
		return label(p.Tasks, id)
	case model.Weeklies.Name:
		return label(p.Weekly, id)
	case model.Monthlies.Name:
		return label(p.Monthly, id)
	case model.Goals.Name:
		return label(p.Goals, id)
	case model.Notes.Name:
		return label(p.Notes, id)
	default:
		return "", false
	}
}

func toggle[T any](ctx context.Context, c *Coordinator[T], id int) (bool, error) {
	item, err := c.ToggleComplete(ctx, id)
	if err != nil {
		return false, err
	}
	return c.Kind().Completed(item), nil
}

func label[T any](c *Coordinator[T], id int) (string, bool) {
	item, ok := c.Store().Get(id)
	if !ok {
		return "", false
	}
	return c.Kind().Label(item), true
}

// Page returns the first shown items and whether more are hidden.
func Page[T any](items []T, shown int) ([]T, bool) {
	if shown < 0 {
		shown = 0
	}
	if shown >= len(items) {
		return items, false
	}
	return items[:shown], true
}
