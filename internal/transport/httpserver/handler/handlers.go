package handler

import (
	groupdomain "team-todo-go/internal/domain/group"
	tododomain "team-todo-go/internal/domain/todo"
	userdomain "team-todo-go/internal/domain/user"
	"team-todo-go/pkg/logger"
)

type Handlers struct {
	Todos  *tododomain.Service
	Groups *groupdomain.Service
	Users  *userdomain.Service
	log    logger.Logger
}

func New(todos *tododomain.Service, groups *groupdomain.Service, users *userdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Todos:  todos,
		Groups: groups,
		Users:  users,
		log:    log,
	}
}
