package app

import (
	"net/http"

	"team-todo-go/internal/config"
	"team-todo-go/internal/db"
	groupdomain "team-todo-go/internal/domain/group"
	tododomain "team-todo-go/internal/domain/todo"
	userdomain "team-todo-go/internal/domain/user"
	grouprepo "team-todo-go/internal/repository/group"
	"team-todo-go/internal/repository/inmemory"
	todorepo "team-todo-go/internal/repository/todo"
	userrepo "team-todo-go/internal/repository/user"
	"team-todo-go/internal/transport/httpserver"
	"team-todo-go/internal/transport/httpserver/handler"
	authmw "team-todo-go/internal/transport/httpserver/middleware"
	"team-todo-go/pkg/logger"

	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	userService := userdomain.NewService(userrepo.NewGorm(dbConn))
	groupService := groupdomain.NewService(grouprepo.NewGorm(dbConn)).
		WithCache(inmemory.NewMembershipCache(), cfg.GroupCacheTTL)
	todoService := tododomain.NewService(
		todorepo.NewGorm(dbConn),
		tododomain.NewGuard(groupService),
	)

	handlers := handler.New(todoService, groupService, userService, log)
	auth := authmw.NewTokenAuth(cfg.Auth, userService, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, auth)

	return &App{
		cfg:        cfg,
		httpServer: httpserver.New(cfg, router),
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
