package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	tododomain "team-todo-go/internal/domain/todo"
	"team-todo-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type todoItemRequest struct {
	GroupID        uint       `json:"group_id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	IsAllDay       bool       `json:"is_all_day"`
	IsUndetermined bool       `json:"is_undetermined"`
}

type updateTodoItemRequest struct {
	ID uint `json:"id"`
	todoItemRequest
}

type doneTodoItemRequest struct {
	DoneResult string `json:"done_result"`
}

type userBriefResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

type todoItemResponse struct {
	ID             uint               `json:"id"`
	GroupID        uint               `json:"group_id"`
	UserID         uint               `json:"user_id"`
	Title          string             `json:"title"`
	Content        string             `json:"content"`
	StartTime      *time.Time         `json:"start_time"`
	EndTime        *time.Time         `json:"end_time"`
	IsAllDay       bool               `json:"is_all_day"`
	IsUndetermined bool               `json:"is_undetermined"`
	IsDone         bool               `json:"is_done"`
	DoneResult     string             `json:"done_result"`
	DoneBy         *uint              `json:"done_by"`
	CreatedAt      time.Time          `json:"created_at"`
	Creator        *userBriefResponse `json:"creator"`
	DoneUser       *userBriefResponse `json:"done_by_user"`
}

type itemsByDateResponse struct {
	Key   string             `json:"key"`
	Items []todoItemResponse `json:"items"`
}

type todoItemListResponse struct {
	Items []todoItemResponse `json:"items"`
}

// ListTodoItems returns the scope's items in a date window, grouped by
// calendar date. The route's group id 0 means the caller's personal items.
func (h *Handlers) ListTodoItems(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groupID, err := parseUintParam(chi.URLParam(r, "group_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid group_id")
		return
	}

	query := r.URL.Query()
	from, err := parseDateRequired(query.Get("from_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from_date")
		return
	}
	to, err := parseDateRequired(query.Get("to_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to_date")
		return
	}

	groups, err := h.Todos.List(r.Context(), tododomain.ScopeFor(groupID), user.ID, from, to)
	if err != nil {
		h.writeTodoError(w, "todos.list", err, user.ID, "group_id", groupID)
		return
	}

	response := make([]itemsByDateResponse, 0, len(groups))
	for _, g := range groups {
		response = append(response, itemsByDateResponse{
			Key:   g.Key,
			Items: toItemResponses(g.Items),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// ListUndeterminedTodoItems returns the scope's items with no fixed time.
func (h *Handlers) ListUndeterminedTodoItems(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groupID, err := parseUintParam(chi.URLParam(r, "group_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid group_id")
		return
	}

	items, err := h.Todos.ListUndetermined(r.Context(), tododomain.ScopeFor(groupID), user.ID)
	if err != nil {
		h.writeTodoError(w, "todos.list_undetermined", err, user.ID, "group_id", groupID)
		return
	}

	writeJSON(w, http.StatusOK, todoItemListResponse{Items: toItemResponses(items)})
}

func (h *Handlers) CreateTodoItem(w http.ResponseWriter, r *http.Request) {
	var req todoItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	item, err := h.Todos.Create(r.Context(), tododomain.CreateItemInput{
		GroupID:        req.GroupID,
		Title:          req.Title,
		Content:        req.Content,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		IsAllDay:       req.IsAllDay,
		IsUndetermined: req.IsUndetermined,
	}, user.ID)
	if err != nil {
		h.writeTodoError(w, "todos.create", err, user.ID, "group_id", req.GroupID)
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(*item))
}

func (h *Handlers) UpdateTodoItem(w http.ResponseWriter, r *http.Request) {
	var req updateTodoItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.ID == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	item, err := h.Todos.Update(r.Context(), tododomain.UpdateItemInput{
		ID:             req.ID,
		GroupID:        req.GroupID,
		Title:          req.Title,
		Content:        req.Content,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		IsAllDay:       req.IsAllDay,
		IsUndetermined: req.IsUndetermined,
	}, user.ID)
	if err != nil {
		h.writeTodoError(w, "todos.update", err, user.ID, "item_id", req.ID, "group_id", req.GroupID)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(*item))
}

func (h *Handlers) DeleteTodoItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	itemID, err := parseUintParam(chi.URLParam(r, "item_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid item_id")
		return
	}

	if err := h.Todos.Delete(r.Context(), itemID, user.ID); err != nil {
		h.writeTodoError(w, "todos.delete", err, user.ID, "item_id", itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DoneTodoItem(w http.ResponseWriter, r *http.Request) {
	var req doneTodoItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	itemID, err := parseUintParam(chi.URLParam(r, "item_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid item_id")
		return
	}

	if err := h.Todos.Done(r.Context(), itemID, req.DoneResult, user.ID); err != nil {
		h.writeTodoError(w, "todos.done", err, user.ID, "item_id", itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CancelTodoItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	itemID, err := parseUintParam(chi.URLParam(r, "item_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid item_id")
		return
	}

	if err := h.Todos.Cancel(r.Context(), itemID, user.ID); err != nil {
		h.writeTodoError(w, "todos.cancel", err, user.ID, "item_id", itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeTodoError(w http.ResponseWriter, op string, err error, userID uint, attrs ...any) {
	logArgs := append([]any{"user_id", userID}, attrs...)
	switch {
	case errors.Is(err, tododomain.ErrTodoItemNotFound):
		h.log.BusinessError(op+": todo item not found", err, logArgs...)
		writeError(w, http.StatusNotFound, "todo_item_not_found", err.Error())
	case errors.Is(err, tododomain.ErrNotInGroup):
		h.log.BusinessError(op+": not a group member", err, logArgs...)
		writeError(w, http.StatusForbidden, "not_in_group", err.Error())
	case tododomain.IsForbidden(err):
		h.log.BusinessError(op+": not item owner", err, logArgs...)
		writeError(w, http.StatusForbidden, "not_item_owner", err.Error())
	default:
		h.log.InternalError(op+": failed", err, logArgs...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toItemResponses(items []tododomain.TodoItem) []todoItemResponse {
	result := make([]todoItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toItemResponse(item))
	}
	return result
}

func toItemResponse(item tododomain.TodoItem) todoItemResponse {
	response := todoItemResponse{
		ID:             item.ID,
		GroupID:        item.GroupID,
		UserID:         item.UserID,
		Title:          item.Title,
		Content:        item.Content,
		StartTime:      item.StartTime,
		EndTime:        item.EndTime,
		IsAllDay:       item.IsAllDay,
		IsUndetermined: item.IsUndetermined,
		IsDone:         item.IsDone,
		DoneResult:     item.DoneResult,
		DoneBy:         item.DoneBy,
		CreatedAt:      item.CreatedAt,
	}
	if item.Creator != nil {
		response.Creator = &userBriefResponse{
			ID:        item.Creator.ID,
			Username:  item.Creator.Username,
			Nickname:  item.Creator.Nickname,
			AvatarURL: item.Creator.AvatarURL,
		}
	}
	if item.DoneUser != nil {
		response.DoneUser = &userBriefResponse{
			ID:        item.DoneUser.ID,
			Username:  item.DoneUser.Username,
			Nickname:  item.DoneUser.Nickname,
			AvatarURL: item.DoneUser.AvatarURL,
		}
	}
	return response
}
