package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"planner/internal/model"
	"planner/internal/period"
	"planner/internal/store"
)

var (
	ErrEmptyField   = errors.New("required field is empty")
	ErrNotConfirmed = errors.New("not confirmed")
	ErrNoCompletion = errors.New("kind has no completion flag")
)

// Gateway is the request contract for one collection.
type Gateway[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Replace(ctx context.Context, id int, item T) error
	Delete(ctx context.Context, id int) error
}

// Confirmer asks the user before an irreversible change.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Reconcile selects how the store catches up with the gateway after a
// create or delete.
type Reconcile int

const (
	// ReconcilePatch changes the store locally.
	ReconcilePatch Reconcile = iota
	// ReconcileReload refetches the whole collection.
	ReconcileReload
)

type coordinatorConfig struct {
	confirm  Confirmer
	onCreate Reconcile
	onDelete Reconcile
	logger   *log.Logger
	clock    func() time.Time
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*coordinatorConfig)

func WithConfirmer(c Confirmer) CoordinatorOption {
	return func(cfg *coordinatorConfig) { cfg.confirm = c }
}

func WithCreateReconcile(r Reconcile) CoordinatorOption {
	return func(cfg *coordinatorConfig) { cfg.onCreate = r }
}

func WithDeleteReconcile(r Reconcile) CoordinatorOption {
	return func(cfg *coordinatorConfig) { cfg.onDelete = r }
}

func WithLogger(l *log.Logger) CoordinatorOption {
	return func(cfg *coordinatorConfig) { cfg.logger = l }
}

func WithCoordinatorClock(clock func() time.Time) CoordinatorOption {
	return func(cfg *coordinatorConfig) { cfg.clock = clock }
}

// Coordinator issues one gateway call per user mutation and reconciles the
// store on success. On failure the store keeps its previous state and the
// error is logged and returned. In-flight calls are not cancelled when the
// caller moves on; the last response to arrive wins.
type Coordinator[T any] struct {
	kind    model.Kind[T]
	gateway Gateway[T]
	store   *store.Store[T]
	cfg     coordinatorConfig
}

func NewCoordinator[T any](gw Gateway[T], st *store.Store[T], opts ...CoordinatorOption) *Coordinator[T] {
	cfg := coordinatorConfig{
		confirm: AlwaysConfirm,
		logger:  log.Default(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Coordinator[T]{kind: st.Kind(), gateway: gw, store: st, cfg: cfg}
}

// Store exposes the coordinator's list state for reading and row editing.
func (c *Coordinator[T]) Store() *store.Store[T] {
	return c.store
}

func (c *Coordinator[T]) Kind() model.Kind[T] {
	return c.kind
}

// Refresh fetches the full collection and reloads the store.
func (c *Coordinator[T]) Refresh(ctx context.Context) error {
	items, err := c.gateway.List(ctx)
	if err != nil {
		c.cfg.logger.Printf("fetch %s list: %v", c.kind.Name, err)
		return err
	}
	c.store.Load(items)
	c.cfg.logger.Printf("[info] %s list loaded count=%d", c.kind.Name, len(items))
	return nil
}

// Fetch reads one entity from the gateway, as when populating an edit form.
func (c *Coordinator[T]) Fetch(ctx context.Context, id int) (T, error) {
	item, err := c.gateway.Get(ctx, id)
	if err != nil {
		c.cfg.logger.Printf("fetch %s %d: %v", c.kind.Name, id, err)
	}
	return item, err
}

// Create sends a new entity. Kinds anchored by creation time are stamped with
// the displayed period when no anchor was given.
func (c *Coordinator[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if c.kind.Blank(item) {
		return zero, fmt.Errorf("create %s: %w", c.kind.Name, ErrEmptyField)
	}
	if c.kind.StampsCreation && c.kind.Anchor(item).IsZero() {
		c.kind.SetAnchor(&item, stampFor(c.store.Reference(), c.cfg.clock()))
	}
	if c.kind.HasCompletion() {
		c.kind.SetCompleted(&item, false)
	}

	created, err := c.gateway.Create(ctx, item)
	if err != nil {
		c.cfg.logger.Printf("create %s: %v", c.kind.Name, err)
		return zero, err
	}
	c.cfg.logger.Printf("[info] %s created id=%d", c.kind.Name, c.kind.ID(created))

	if c.cfg.onCreate == ReconcilePatch && c.kind.ID(created) > 0 {
		c.store.Append(created)
		return created, nil
	}
	if err := c.Refresh(ctx); err != nil {
		// The entity exists on the gateway; patch locally when its id is known.
		c.cfg.logger.Printf("reload after create %s: %v", c.kind.Name, err)
		if c.kind.ID(created) > 0 {
			c.store.Append(created)
		}
	}
	return created, nil
}

// Replace sends the complete entity and patches the store once the gateway
// accepted it. Any open edit on the row is closed.
func (c *Coordinator[T]) Replace(ctx context.Context, item T) error {
	id := c.kind.ID(item)
	if c.kind.Blank(item) {
		return fmt.Errorf("update %s %d: %w", c.kind.Name, id, ErrEmptyField)
	}
	if err := c.gateway.Replace(ctx, id, item); err != nil {
		c.cfg.logger.Printf("update %s %d: %v", c.kind.Name, id, err)
		return err
	}
	if _, err := c.store.ApplyPatch(id, func(t *T) { *t = item }); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	c.store.EndEdit(id)
	c.cfg.logger.Printf("[info] %s updated id=%d", c.kind.Name, id)
	return nil
}

// SaveEdit sends the row's draft. When the gateway refuses it the draft stays
// open with the user's changes and the stored entity is untouched.
func (c *Coordinator[T]) SaveEdit(ctx context.Context, id int) error {
	draft, ok := c.store.Draft(id)
	if !ok {
		return fmt.Errorf("save %s %d: %w", c.kind.Name, id, store.ErrNotEditing)
	}
	return c.Replace(ctx, draft)
}

// ToggleComplete flips the completion flag of the stored copy and sends it as
// a full replace. The store changes only after the gateway accepted it.
func (c *Coordinator[T]) ToggleComplete(ctx context.Context, id int) (T, error) {
	var zero T
	if !c.kind.HasCompletion() {
		return zero, fmt.Errorf("toggle %s %d: %w", c.kind.Name, id, ErrNoCompletion)
	}
	current, ok := c.store.Get(id)
	if !ok {
		return zero, fmt.Errorf("toggle %s %d: %w", c.kind.Name, id, store.ErrNotFound)
	}
	done := !c.kind.Completed(current)
	updated := current
	c.kind.SetCompleted(&updated, done)

	if err := c.gateway.Replace(ctx, id, updated); err != nil {
		c.cfg.logger.Printf("update %s %d completion: %v", c.kind.Name, id, err)
		return zero, err
	}
	patched, err := c.store.ApplyPatch(id, func(t *T) { c.kind.SetCompleted(t, done) })
	if err != nil {
		return zero, err
	}
	c.cfg.logger.Printf("[info] %s completion id=%d done=%t", c.kind.Name, id, done)
	return patched, nil
}

// Delete asks for confirmation, then removes the entity from the gateway and
// the store.
func (c *Coordinator[T]) Delete(ctx context.Context, id int) error {
	prompt := fmt.Sprintf("Delete %s #%d?", c.kind.Name, id)
	if item, ok := c.store.Get(id); ok {
		prompt = fmt.Sprintf("Delete %s %q (#%d)?", c.kind.Name, c.kind.Label(item), id)
	}
	ok, err := c.cfg.confirm.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("confirm delete %s %d: %w", c.kind.Name, id, err)
	}
	if !ok {
		return ErrNotConfirmed
	}

	if err := c.gateway.Delete(ctx, id); err != nil {
		c.cfg.logger.Printf("delete %s %d: %v", c.kind.Name, id, err)
		return err
	}
	c.cfg.logger.Printf("[info] %s deleted id=%d", c.kind.Name, id)

	if c.cfg.onDelete == ReconcileReload {
		err := c.Refresh(ctx)
		if err == nil {
			return nil
		}
		c.cfg.logger.Printf("reload after delete %s %d: %v", c.kind.Name, id, err)
	}
	c.store.Remove(id)
	return nil
}

// stampFor picks the creation time for the displayed period: now when the
// period is current, its first day otherwise.
func stampFor(ref period.Period, now time.Time) time.Time {
	if ref.Contains(now) {
		return now
	}
	return ref.Start
}
