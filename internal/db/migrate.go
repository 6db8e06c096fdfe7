package db

import (
	"fmt"

	groupdomain "team-todo-go/internal/domain/group"
	tododomain "team-todo-go/internal/domain/todo"
	userdomain "team-todo-go/internal/domain/user"

	"gorm.io/gorm"
)

// Migrate keeps the schema in sync with the gorm models. AutoMigrate works on
// both supported dialects, which is why no hand-written DDL is used.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&userdomain.User{},
		&groupdomain.Group{},
		&groupdomain.GroupMember{},
		&tododomain.TodoItem{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
