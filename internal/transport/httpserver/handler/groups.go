package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	groupdomain "team-todo-go/internal/domain/group"
	"team-todo-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type createGroupRequest struct {
	Name string `json:"name"`
}

type joinGroupRequest struct {
	Code string `json:"code"`
}

type groupResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	OwnerID   uint      `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type groupListResponse struct {
	Items []groupResponse `json:"items"`
}

type groupMemberResponse struct {
	UserID   uint      `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type groupMemberListResponse struct {
	Items []groupMemberResponse `json:"items"`
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	g, err := h.Groups.CreateGroup(r.Context(), user.ID, req.Name)
	if err != nil {
		h.log.InternalError("groups.create: failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(*g))
}

func (h *Handlers) JoinGroup(w http.ResponseWriter, r *http.Request) {
	var req joinGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	g, err := h.Groups.JoinGroup(r.Context(), user.ID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, groupdomain.ErrGroupCodeNotFound):
			h.log.BusinessError("groups.join: code not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "group_code_not_found", err.Error())
		case errors.Is(err, groupdomain.ErrAlreadyInGroup):
			h.log.BusinessError("groups.join: already in group", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "already_in_group", err.Error())
		default:
			h.log.InternalError("groups.join: failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(*g))
}

func (h *Handlers) LeaveGroup(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Groups.LeaveGroup(r.Context(), user.ID, groupID); err != nil {
		switch {
		case errors.Is(err, groupdomain.ErrGroupNotFound), errors.Is(err, groupdomain.ErrMemberNotFound):
			h.log.BusinessError("groups.leave: not found", err, "user_id", user.ID, "group_id", groupID)
			writeError(w, http.StatusNotFound, "group_not_found", err.Error())
		case errors.Is(err, groupdomain.ErrOwnerCannotLeave):
			h.log.BusinessError("groups.leave: owner cannot leave", err, "user_id", user.ID, "group_id", groupID)
			writeError(w, http.StatusForbidden, "owner_cannot_leave", err.Error())
		default:
			h.log.InternalError("groups.leave: failed", err, "user_id", user.ID, "group_id", groupID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
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

	g, err := h.Groups.GetGroup(r.Context(), user.ID, groupID)
	if err != nil {
		switch {
		case errors.Is(err, groupdomain.ErrGroupNotFound):
			h.log.BusinessError("groups.get: group not found", err, "user_id", user.ID, "group_id", groupID)
			writeError(w, http.StatusNotFound, "group_not_found", err.Error())
		case errors.Is(err, groupdomain.ErrNotMember):
			h.log.BusinessError("groups.get: not a member", err, "user_id", user.ID, "group_id", groupID)
			writeError(w, http.StatusForbidden, "not_in_group", err.Error())
		default:
			h.log.InternalError("groups.get: failed", err, "user_id", user.ID, "group_id", groupID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(*g))
}

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groups, err := h.Groups.ListGroups(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("groups.list: failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		response = append(response, toGroupResponse(g))
	}

	writeJSON(w, http.StatusOK, groupListResponse{Items: response})
}

func (h *Handlers) ListGroupMembers(w http.ResponseWriter, r *http.Request) {
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

	members, err := h.Groups.ListMembers(r.Context(), user.ID, groupID)
	if err != nil {
		switch {
		case errors.Is(err, groupdomain.ErrGroupNotFound):
			h.log.BusinessError("groups.members: group not found", err, "user_id", user.ID, "group_id", groupID)
			writeError(w, http.StatusNotFound, "group_not_found", err.Error())
		case errors.Is(err, groupdomain.ErrNotMember):
			h.log.BusinessError("groups.members: not a member", err, "user_id", user.ID, "group_id", groupID)
			writeError(w, http.StatusForbidden, "not_in_group", err.Error())
		default:
			h.log.InternalError("groups.members: failed", err, "user_id", user.ID, "group_id", groupID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	response := make([]groupMemberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, groupMemberResponse{
			UserID:   member.UserID,
			Role:     member.Role,
			JoinedAt: member.JoinedAt,
		})
	}

	writeJSON(w, http.StatusOK, groupMemberListResponse{Items: response})
}

func toGroupResponse(g groupdomain.Group) groupResponse {
	return groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Code:      g.Code,
		OwnerID:   g.OwnerID,
		CreatedAt: g.CreatedAt,
	}
}
