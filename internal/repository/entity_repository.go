package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"planner/internal/model"
)

// EntityRepository handles CRUD for one collection.
type EntityRepository[T any] struct {
	db   *gorm.DB
	kind model.Kind[T]
}

func NewEntityRepository[T any](db *gorm.DB, kind model.Kind[T]) *EntityRepository[T] {
	return &EntityRepository[T]{db: db, kind: kind}
}

func (r *EntityRepository[T]) List(ctx context.Context) ([]T, error) {
	items := []T{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind.Name, err)
	}
	return items, nil
}

// FindByID returns gorm.ErrRecordNotFound unwrapped when the id is unknown.
func (r *EntityRepository[T]) FindByID(ctx context.Context, id int) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Create stores the entity under a fresh id.
func (r *EntityRepository[T]) Create(ctx context.Context, item *T) error {
	r.kind.SetID(item, 0)
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.kind.Name, err)
	}
	return nil
}

// Replace overwrites every column of an existing entity.
func (r *EntityRepository[T]) Replace(ctx context.Context, id int, item *T) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	r.kind.SetID(item, id)
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("replace %s: %w", r.kind.Name, err)
	}
	return nil
}

func (r *EntityRepository[T]) Delete(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", r.kind.Name, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
