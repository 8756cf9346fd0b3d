// Package store keeps one entity kind's fetched collection in memory together
// with the partitions derived from it.
package store

import (
	"errors"
	"sync"
	"time"

	"planner/internal/model"
	"planner/internal/period"
)

var (
	ErrNotFound   = errors.New("entity not found")
	ErrNotEditing = errors.New("entity is not being edited")
)

// Scope picks the period a view shows, given the store's reference period and
// the current time.
type Scope func(ref period.Period, now time.Time) period.Period

var (
	Today Scope = func(_ period.Period, now time.Time) period.Period {
		return period.DayOf(now)
	}
	ThisWeek Scope = func(_ period.Period, now time.Time) period.Period {
		return period.WeekOf(now)
	}
	ThisMonth Scope = func(_ period.Period, now time.Time) period.Period {
		return period.MonthOf(now)
	}
	// Reference shows the reference period as it is: a paged month or a
	// selected date.
	Reference Scope = func(ref period.Period, _ time.Time) period.Period {
		return ref
	}
	// ReferenceMonth shows the month the reference period starts in.
	ReferenceMonth Scope = func(ref period.Period, _ time.Time) period.Period {
		return period.MonthOf(ref.Start)
	}
)

type view[T any] struct {
	scope  Scope
	period period.Period
	items  []T
}

// Store holds the last fetched collection for one kind and every partition
// currently on display. It is safe for concurrent use; concurrent writers are
// applied in arrival order.
type Store[T any] struct {
	kind  model.Kind[T]
	clock func() time.Time

	mu     sync.RWMutex
	ref    period.Period
	now    time.Time
	items  []T
	views  map[string]*view[T]
	order  []string
	drafts map[int]T
}

// Option configures a Store.
type Option func(*options)

type options struct {
	clock func() time.Time
	ref   *period.Period
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithReference sets the initial reference period. It defaults to the current month.
func WithReference(p period.Period) Option {
	return func(o *options) { o.ref = &p }
}

func New[T any](kind model.Kind[T], opts ...Option) *Store[T] {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	now := o.clock()
	ref := period.MonthOf(now)
	if o.ref != nil {
		ref = *o.ref
	}
	return &Store[T]{
		kind:   kind,
		clock:  o.clock,
		ref:    ref,
		now:    now,
		views:  make(map[string]*view[T]),
		drafts: make(map[int]T),
	}
}

// Kind returns the entity configuration the store was built with.
func (s *Store[T]) Kind() model.Kind[T] {
	return s.kind
}

// Watch registers (or replaces) a named view and materializes it.
func (s *Store[T]) Watch(name string, scope Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[name]; !ok {
		s.order = append(s.order, name)
	}
	v := &view[T]{scope: scope}
	s.views[name] = v
	s.materialize(v)
}

// Views lists view names in registration order.
func (s *Store[T]) Views() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Load replaces the full collection and recomputes every view.
func (s *Store[T]) Load(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(make([]T, 0, len(items)), items...)
	for id := range s.drafts {
		if s.kind.IndexOf(s.items, id) < 0 {
			delete(s.drafts, id)
		}
	}
	s.now = s.clock()
	s.recompute()
}

// Append adds a newly created entity and repartitions.
func (s *Store[T]) Append(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	s.recompute()
}

// ApplyPatch rewrites the entity with the given id in the collection and in
// every view containing it, keeping its position. Completed entities are then
// moved after incomplete ones within each view. Bucket membership is not
// re-evaluated, so an entity whose anchor moved stays where it was shown
// until the next Load or SetReferencePeriod.
func (s *Store[T]) ApplyPatch(id int, patch func(*T)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.kind.IndexOf(s.items, id)
	if i < 0 {
		var zero T
		return zero, ErrNotFound
	}
	patched := s.items[i]
	patch(&patched)
	s.kind.SetID(&patched, id)
	s.items[i] = patched

	for _, name := range s.order {
		v := s.views[name]
		if j := s.kind.IndexOf(v.items, id); j >= 0 {
			v.items[j] = patched
			period.SinkCompleted(v.items, s.kind.Completed)
		}
	}
	return patched, nil
}

// Remove deletes the entity from the collection, every view and any open edit.
func (s *Store[T]) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, id)
	i := s.kind.IndexOf(s.items, id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	for _, v := range s.views {
		if j := s.kind.IndexOf(v.items, id); j >= 0 {
			v.items = append(v.items[:j:j], v.items[j+1:]...)
		}
	}
	return true
}

// SetReferencePeriod changes the reference period and recomputes every view.
func (s *Store[T]) SetReferencePeriod(p period.Period) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ref = p
	s.now = s.clock()
	s.recompute()
}

// Rollover recomputes the clock-relative views, as when the day changes.
func (s *Store[T]) Rollover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.clock()
	s.recompute()
}

// Reference returns the current reference period.
func (s *Store[T]) Reference() period.Period {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ref
}

// Items returns a copy of the full collection.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]T, 0, len(s.items)), s.items...)
}

// View returns a copy of the named partition and the period it covers.
func (s *Store[T]) View(name string) ([]T, period.Period, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.views[name]
	if !ok {
		return nil, period.Period{}, false
	}
	return append(make([]T, 0, len(v.items)), v.items...), v.period, true
}

// Get returns the stored copy of an entity.
func (s *Store[T]) Get(id int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.kind.IndexOf(s.items, id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

func (s *Store[T]) recompute() {
	for _, v := range s.views {
		s.materialize(v)
	}
}

func (s *Store[T]) materialize(v *view[T]) {
	v.period = v.scope(s.ref, s.now)
	v.items = period.Partition(s.items, v.period, s.kind.Anchor, s.kind.Completed)
}
