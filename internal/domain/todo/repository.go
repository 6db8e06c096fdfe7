package todo

import (
	"context"
	"time"
)

// Repository persists todo items. List methods return items ordered by id
// descending with Creator and DoneUser eagerly loaded; for personal scope
// they additionally restrict to userID's own items.
type Repository interface {
	ListByStartTime(ctx context.Context, scope Scope, userID uint, from, before time.Time) ([]TodoItem, error)
	ListUndetermined(ctx context.Context, scope Scope, userID uint) ([]TodoItem, error)
	GetByID(ctx context.Context, itemID uint) (*TodoItem, error)
	Create(ctx context.Context, item *TodoItem) error
	Update(ctx context.Context, item *TodoItem) error
	Delete(ctx context.Context, itemID uint) (bool, error)
}
