package group

import (
	"context"
	"errors"

	groupdomain "team-todo-go/internal/domain/group"

	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(groupdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) GetGroupByID(ctx context.Context, groupID uint) (*groupdomain.Group, error) {
	var g groupdomain.Group
	if err := r.db.WithContext(ctx).First(&g, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupdomain.ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GormRepository) GetGroupByCode(ctx context.Context, code string) (*groupdomain.Group, error) {
	var g groupdomain.Group
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupdomain.ErrGroupCodeNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GormRepository) ListGroupsByUser(ctx context.Context, userID uint) ([]groupdomain.Group, error) {
	var groups []groupdomain.Group
	if err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.id").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *GormRepository) ListMembers(ctx context.Context, groupID uint) ([]groupdomain.GroupMember, error) {
	var members []groupdomain.GroupMember
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *GormRepository) CreateGroup(ctx context.Context, g *groupdomain.Group) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GormRepository) AddMember(ctx context.Context, member *groupdomain.GroupMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *GormRepository) DeleteMember(ctx context.Context, groupID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&groupdomain.GroupMember{})
	return result.RowsAffected > 0, result.Error
}

func (r *GormRepository) IsMember(ctx context.Context, userID, groupID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&groupdomain.GroupMember{}).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&groupdomain.Group{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
