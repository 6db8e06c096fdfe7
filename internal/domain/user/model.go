package user

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Nickname  string    `gorm:"size:64" json:"nickname"`
	Email     string    `gorm:"size:255" json:"email"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	Token     *string   `gorm:"size:128;uniqueIndex" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}
