package httpserver

import (
	"net/http"
	"time"

	"team-todo-go/internal/config"
	"team-todo-go/internal/transport/httpserver/handler"
	authmw "team-todo-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.TokenAuth) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)
			r.Put("/auth/me", handlers.UpdateAuthMe)

			r.Get("/todo/{group_id}", handlers.ListTodoItems)
			r.Get("/todo/{group_id}/undetermined", handlers.ListUndeterminedTodoItems)
			r.Post("/todo/item", handlers.CreateTodoItem)
			r.Put("/todo/item", handlers.UpdateTodoItem)
			r.Delete("/todo/item/{item_id}", handlers.DeleteTodoItem)
			r.Post("/todo/item/{item_id}/done", handlers.DoneTodoItem)
			r.Post("/todo/item/{item_id}/cancel", handlers.CancelTodoItem)

			r.Get("/groups", handlers.ListGroups)
			r.Get("/groups/{group_id}", handlers.GetGroup)
			r.Post("/groups", handlers.CreateGroup)
			r.Post("/groups/join", handlers.JoinGroup)
			r.Post("/groups/{group_id}/leave", handlers.LeaveGroup)
			r.Get("/groups/{group_id}/members", handlers.ListGroupMembers)
		})
	})

	return r
}
