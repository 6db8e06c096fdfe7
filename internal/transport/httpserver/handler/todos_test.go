package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"team-todo-go/internal/config"
	groupdomain "team-todo-go/internal/domain/group"
	tododomain "team-todo-go/internal/domain/todo"
	userdomain "team-todo-go/internal/domain/user"
	"team-todo-go/internal/transport/httpserver"
	"team-todo-go/internal/transport/httpserver/handler"
	authmw "team-todo-go/internal/transport/httpserver/middleware"
	"team-todo-go/pkg/logger"
)

type fakeTodoRepo struct {
	items  map[uint]*tododomain.TodoItem
	nextID uint
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{items: make(map[uint]*tododomain.TodoItem)}
}

func (r *fakeTodoRepo) matches(item *tododomain.TodoItem, scope tododomain.Scope, userID uint) bool {
	if scope.IsPersonal() {
		return item.GroupID == 0 && item.UserID == userID
	}
	return item.GroupID == scope.GroupID()
}

func (r *fakeTodoRepo) ListByStartTime(ctx context.Context, scope tododomain.Scope, userID uint, from, before time.Time) ([]tododomain.TodoItem, error) {
	result := make([]tododomain.TodoItem, 0)
	for _, item := range r.items {
		if !r.matches(item, scope, userID) || item.StartTime == nil {
			continue
		}
		if item.StartTime.Before(from) || !item.StartTime.Before(before) {
			continue
		}
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *fakeTodoRepo) ListUndetermined(ctx context.Context, scope tododomain.Scope, userID uint) ([]tododomain.TodoItem, error) {
	result := make([]tododomain.TodoItem, 0)
	for _, item := range r.items {
		if !r.matches(item, scope, userID) || !item.IsUndetermined {
			continue
		}
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *fakeTodoRepo) GetByID(ctx context.Context, itemID uint) (*tododomain.TodoItem, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, tododomain.ErrTodoItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeTodoRepo) Create(ctx context.Context, item *tododomain.TodoItem) error {
	r.nextID++
	item.ID = r.nextID
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeTodoRepo) Update(ctx context.Context, item *tododomain.TodoItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return tododomain.ErrTodoItemNotFound
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeTodoRepo) Delete(ctx context.Context, itemID uint) (bool, error) {
	if _, ok := r.items[itemID]; !ok {
		return false, nil
	}
	delete(r.items, itemID)
	return true, nil
}

type memberKey struct {
	groupID uint
	userID  uint
}

type fakeGroupRepo struct {
	groups  map[uint]*groupdomain.Group
	members map[memberKey]*groupdomain.GroupMember
	nextID  uint
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:  make(map[uint]*groupdomain.Group),
		members: make(map[memberKey]*groupdomain.GroupMember),
	}
}

func (r *fakeGroupRepo) Transaction(ctx context.Context, fn func(groupdomain.Repository) error) error {
	return fn(r)
}

func (r *fakeGroupRepo) GetGroupByID(ctx context.Context, groupID uint) (*groupdomain.Group, error) {
	g, ok := r.groups[groupID]
	if !ok {
		return nil, groupdomain.ErrGroupNotFound
	}
	return g, nil
}

func (r *fakeGroupRepo) GetGroupByCode(ctx context.Context, code string) (*groupdomain.Group, error) {
	for _, g := range r.groups {
		if g.Code == code {
			return g, nil
		}
	}
	return nil, groupdomain.ErrGroupCodeNotFound
}

func (r *fakeGroupRepo) ListGroupsByUser(ctx context.Context, userID uint) ([]groupdomain.Group, error) {
	result := make([]groupdomain.Group, 0)
	for key, member := range r.members {
		if member.UserID != userID {
			continue
		}
		if g, ok := r.groups[key.groupID]; ok {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (r *fakeGroupRepo) ListMembers(ctx context.Context, groupID uint) ([]groupdomain.GroupMember, error) {
	result := make([]groupdomain.GroupMember, 0)
	for key, member := range r.members {
		if key.groupID == groupID {
			result = append(result, *member)
		}
	}
	return result, nil
}

func (r *fakeGroupRepo) CreateGroup(ctx context.Context, g *groupdomain.Group) error {
	r.nextID++
	g.ID = r.nextID
	r.groups[g.ID] = g
	return nil
}

func (r *fakeGroupRepo) AddMember(ctx context.Context, member *groupdomain.GroupMember) error {
	r.members[memberKey{groupID: member.GroupID, userID: member.UserID}] = member
	return nil
}

func (r *fakeGroupRepo) DeleteMember(ctx context.Context, groupID, userID uint) (bool, error) {
	key := memberKey{groupID: groupID, userID: userID}
	if _, ok := r.members[key]; !ok {
		return false, nil
	}
	delete(r.members, key)
	return true, nil
}

func (r *fakeGroupRepo) IsMember(ctx context.Context, userID, groupID uint) (bool, error) {
	_, ok := r.members[memberKey{groupID: groupID, userID: userID}]
	return ok, nil
}

func (r *fakeGroupRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	for _, g := range r.groups {
		if g.Code == code {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	users map[uint]*userdomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*userdomain.User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID uint) (*userdomain.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, userdomain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByToken(ctx context.Context, token string) (*userdomain.User, error) {
	for _, u := range r.users {
		if u.Token != nil && *u.Token == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, userdomain.ErrUserNotFound
}

func (r *fakeUserRepo) Upsert(ctx context.Context, u *userdomain.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			existing.Nickname = u.Nickname
			existing.Email = u.Email
			existing.AvatarURL = u.AvatarURL
			return nil
		}
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

type testEnv struct {
	router    http.Handler
	todoRepo  *fakeTodoRepo
	groupRepo *fakeGroupRepo
	userRepo  *fakeUserRepo
	groups    *groupdomain.Service
}

// setupEnv wires the real router with fake storage and skip-auth acting as
// user 1.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.New(io.Discard, slog.LevelError, "text")
	todoRepo := newFakeTodoRepo()
	groupRepo := newFakeGroupRepo()
	userRepo := newFakeUserRepo()

	groupService := groupdomain.NewService(groupRepo)
	todoService := tododomain.NewService(todoRepo, tododomain.NewGuard(groupService))
	userService := userdomain.NewService(userRepo)
	handlers := handler.New(todoService, groupService, userService, log)

	cfg := config.Config{
		HTTPPort: "0",
		Auth:     config.AuthConfig{SkipAuth: true, MockUserID: 1, MockUsername: "dev"},
	}
	auth := authmw.NewTokenAuth(cfg.Auth, nil, log)

	return &testEnv{
		router:    httpserver.NewRouter(cfg, handlers, auth),
		todoRepo:  todoRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		groups:    groupService,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeErrorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return envelope.Error.Code
}

func TestCreateAndListPersonalItem(t *testing.T) {
	env := setupEnv(t)

	created := env.do(t, http.MethodPost, "/api/todo/item",
		`{"title":"write report","start_time":"2024-01-10T09:00:00Z","end_time":"2024-01-10T10:00:00Z"}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", created.Code, created.Body.String())
	}

	listed := env.do(t, http.MethodGet, "/api/todo/0?from_date=2024-01-10&to_date=2024-01-10", "")
	if listed.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", listed.Code, listed.Body.String())
	}

	var groups []struct {
		Key   string `json:"key"`
		Items []struct {
			ID    uint   `json:"id"`
			Title string `json:"title"`
		} `json:"items"`
	}
	if err := json.Unmarshal(listed.Body.Bytes(), &groups); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(groups) != 1 || groups[0].Key != "2024-01-10" || len(groups[0].Items) != 1 {
		t.Fatalf("unexpected grouping: %s", listed.Body.String())
	}
}

func TestListRequiresDateWindow(t *testing.T) {
	env := setupEnv(t)

	recorder := env.do(t, http.MethodGet, "/api/todo/0?from_date=2024-01-10", "")
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestGroupScopeForbiddenForNonMembers(t *testing.T) {
	env := setupEnv(t)

	// A group owned by someone else; the acting user never joined.
	g, err := env.groups.CreateGroup(context.Background(), 2, "their team")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	listed := env.do(t, http.MethodGet, "/api/todo/1?from_date=2024-01-01&to_date=2024-01-31", "")
	if listed.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", listed.Code)
	}
	if code := decodeErrorCode(t, listed); code != "not_in_group" {
		t.Fatalf("expected not_in_group, got %q", code)
	}

	created := env.do(t, http.MethodPost, "/api/todo/item", `{"group_id":1,"title":"sneak in"}`)
	if created.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", created.Code)
	}

	// Joining flips both to success.
	if _, err := env.groups.JoinGroup(context.Background(), 1, g.Code); err != nil {
		t.Fatalf("join: %v", err)
	}
	created = env.do(t, http.MethodPost, "/api/todo/item", `{"group_id":1,"title":"now allowed"}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201 after joining, got %d: %s", created.Code, created.Body.String())
	}
}

func TestUpdateMissingItemNotFound(t *testing.T) {
	env := setupEnv(t)

	recorder := env.do(t, http.MethodPut, "/api/todo/item", `{"id":42,"title":"ghost"}`)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
	if code := decodeErrorCode(t, recorder); code != "todo_item_not_found" {
		t.Fatalf("expected todo_item_not_found, got %q", code)
	}
}

func TestDoneAndCancelLifecycle(t *testing.T) {
	env := setupEnv(t)

	created := env.do(t, http.MethodPost, "/api/todo/item",
		`{"title":"chore","start_time":"2024-01-10T09:00:00Z"}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", created.Code)
	}

	var item struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	done := env.do(t, http.MethodPost, "/api/todo/item/1/done", `{"done_result":"all set"}`)
	if done.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", done.Code, done.Body.String())
	}
	stored := env.todoRepo.items[item.ID]
	if !stored.IsDone || stored.DoneResult != "all set" {
		t.Fatalf("expected item done, got %+v", stored)
	}

	cancel := env.do(t, http.MethodPost, "/api/todo/item/1/cancel", "")
	if cancel.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", cancel.Code)
	}
	stored = env.todoRepo.items[item.ID]
	if stored.IsDone || stored.DoneBy != nil {
		t.Fatalf("expected item reopened, got %+v", stored)
	}
	if stored.DoneResult != "all set" {
		t.Fatalf("expected done_result kept, got %q", stored.DoneResult)
	}
}

func TestDeleteItem(t *testing.T) {
	env := setupEnv(t)

	created := env.do(t, http.MethodPost, "/api/todo/item",
		`{"title":"temp","is_undetermined":true}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", created.Code)
	}

	deleted := env.do(t, http.MethodDelete, "/api/todo/item/1", "")
	if deleted.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", deleted.Code)
	}
	if len(env.todoRepo.items) != 0 {
		t.Fatalf("expected store emptied, got %d items", len(env.todoRepo.items))
	}

	again := env.do(t, http.MethodDelete, "/api/todo/item/1", "")
	if again.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", again.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	env := setupEnv(t)

	updated := env.do(t, http.MethodPut, "/api/auth/me",
		`{"nickname":"Dev","email":"dev@example.com","avatar_url":"https://example.com/a.png"}`)
	if updated.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", updated.Code, updated.Body.String())
	}

	var profile struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Nickname string `json:"nickname"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(updated.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.ID != 1 || profile.Username != "dev" || profile.Nickname != "Dev" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	stored := env.userRepo.users[1]
	if stored == nil || stored.Email != "dev@example.com" {
		t.Fatalf("expected profile persisted, got %+v", stored)
	}

	// A second update replaces fields rather than adding a row.
	updated = env.do(t, http.MethodPut, "/api/auth/me", `{"nickname":"Devon"}`)
	if updated.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", updated.Code)
	}
	if len(env.userRepo.users) != 1 || env.userRepo.users[1].Nickname != "Devon" {
		t.Fatalf("expected single replaced profile, got %+v", env.userRepo.users)
	}
}

func TestGetGroupDetails(t *testing.T) {
	env := setupEnv(t)

	if _, err := env.groups.CreateGroup(context.Background(), 2, "their team"); err != nil {
		t.Fatalf("create group: %v", err)
	}

	got := env.do(t, http.MethodGet, "/api/groups/1", "")
	if got.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", got.Code)
	}
	if code := decodeErrorCode(t, got); code != "not_in_group" {
		t.Fatalf("expected not_in_group, got %q", code)
	}

	if _, err := env.groups.CreateGroup(context.Background(), 1, "my team"); err != nil {
		t.Fatalf("create group: %v", err)
	}

	got = env.do(t, http.MethodGet, "/api/groups/2", "")
	if got.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", got.Code, got.Body.String())
	}

	var g struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(got.Body.Bytes(), &g); err != nil {
		t.Fatalf("decode group: %v", err)
	}
	if g.ID != 2 || g.Name != "my team" {
		t.Fatalf("unexpected group: %+v", g)
	}

	missing := env.do(t, http.MethodGet, "/api/groups/99", "")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.Code)
	}
}

func TestListUndetermined(t *testing.T) {
	env := setupEnv(t)

	created := env.do(t, http.MethodPost, "/api/todo/item",
		`{"title":"someday","is_undetermined":true,"start_time":"2024-01-10T09:00:00Z"}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", created.Code)
	}

	listed := env.do(t, http.MethodGet, "/api/todo/0/undetermined", "")
	if listed.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listed.Code)
	}

	var response struct {
		Items []struct {
			Title     string     `json:"title"`
			StartTime *time.Time `json:"start_time"`
		} `json:"items"`
	}
	if err := json.Unmarshal(listed.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(response.Items) != 1 || response.Items[0].Title != "someday" {
		t.Fatalf("unexpected items: %s", listed.Body.String())
	}
	if response.Items[0].StartTime != nil {
		t.Fatalf("expected start_time normalized away, got %v", response.Items[0].StartTime)
	}
}
