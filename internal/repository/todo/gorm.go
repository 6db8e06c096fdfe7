package todo

import (
	"context"
	"errors"
	"time"

	tododomain "team-todo-go/internal/domain/todo"

	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// scoped applies the visibility rule: group scope filters on the group id
// alone, personal scope restricts to the acting user's own items.
func (r *GormRepository) scoped(query *gorm.DB, scope tododomain.Scope, userID uint) *gorm.DB {
	if scope.IsPersonal() {
		return query.Where("group_id = 0 AND user_id = ?", userID)
	}
	return query.Where("group_id = ?", scope.GroupID())
}

func (r *GormRepository) ListByStartTime(ctx context.Context, scope tododomain.Scope, userID uint, from, before time.Time) ([]tododomain.TodoItem, error) {
	query := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("DoneUser").
		Where("start_time >= ? AND start_time < ?", from, before).
		Order("id DESC")

	var items []tododomain.TodoItem
	if err := r.scoped(query, scope, userID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepository) ListUndetermined(ctx context.Context, scope tododomain.Scope, userID uint) ([]tododomain.TodoItem, error) {
	query := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("DoneUser").
		Where("is_undetermined = ?", true).
		Order("id DESC")

	var items []tododomain.TodoItem
	if err := r.scoped(query, scope, userID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepository) GetByID(ctx context.Context, itemID uint) (*tododomain.TodoItem, error) {
	var item tododomain.TodoItem
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("DoneUser").
		First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tododomain.ErrTodoItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormRepository) Create(ctx context.Context, item *tododomain.TodoItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update writes every mutable field in one statement, zero values included.
func (r *GormRepository) Update(ctx context.Context, item *tododomain.TodoItem) error {
	return r.db.WithContext(ctx).
		Model(&tododomain.TodoItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"group_id":        item.GroupID,
			"title":           item.Title,
			"content":         item.Content,
			"start_time":      item.StartTime,
			"end_time":        item.EndTime,
			"is_all_day":      item.IsAllDay,
			"is_undetermined": item.IsUndetermined,
			"is_done":         item.IsDone,
			"done_result":     item.DoneResult,
			"done_by":         item.DoneBy,
		}).Error
}

func (r *GormRepository) Delete(ctx context.Context, itemID uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&tododomain.TodoItem{}, itemID)
	return result.RowsAffected > 0, result.Error
}
