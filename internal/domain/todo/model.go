package todo

import (
	"time"

	userdomain "team-todo-go/internal/domain/user"
)

type TodoItem struct {
	ID             uint       `gorm:"primaryKey"`
	UserID         uint       `gorm:"index;not null"`
	GroupID        uint       `gorm:"index;not null;default:0"`
	Title          string     `gorm:"size:255;not null"`
	Content        string     `gorm:"type:text"`
	StartTime      *time.Time `gorm:"index"`
	EndTime        *time.Time
	IsAllDay       bool   `gorm:"not null;default:false"`
	IsUndetermined bool   `gorm:"not null;default:false"`
	IsDone         bool   `gorm:"not null;default:false"`
	DoneResult     string `gorm:"type:text"`
	DoneBy         *uint
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	Creator  *userdomain.User `gorm:"foreignKey:UserID"`
	DoneUser *userdomain.User `gorm:"foreignKey:DoneBy"`
}

func (i TodoItem) Scope() Scope {
	return ScopeFor(i.GroupID)
}

// ItemsByDate is one contiguous run of items sharing a calendar date, in the
// order the run appeared in the id-descending result set.
type ItemsByDate struct {
	Key   string
	Items []TodoItem
}

type CreateItemInput struct {
	GroupID        uint
	Title          string
	Content        string
	StartTime      *time.Time
	EndTime        *time.Time
	IsAllDay       bool
	IsUndetermined bool
}

// UpdateItemInput carries the full replacement value for every mutable field;
// there are no partial-patch semantics.
type UpdateItemInput struct {
	ID             uint
	GroupID        uint
	Title          string
	Content        string
	StartTime      *time.Time
	EndTime        *time.Time
	IsAllDay       bool
	IsUndetermined bool
}
