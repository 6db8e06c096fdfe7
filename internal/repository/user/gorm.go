package user

import (
	"context"
	"errors"
	"time"

	userdomain "team-todo-go/internal/domain/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) GetByID(ctx context.Context, userID uint) (*userdomain.User, error) {
	var u userdomain.User
	if err := r.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormRepository) GetByToken(ctx context.Context, token string) (*userdomain.User, error) {
	var u userdomain.User
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormRepository) Upsert(ctx context.Context, u *userdomain.User) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if u.Nickname != "" {
		updates["nickname"] = u.Nickname
	}
	if u.Email != "" {
		updates["email"] = u.Email
	}
	if u.AvatarURL != "" {
		updates["avatar_url"] = u.AvatarURL
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(u).Error
}
