package user

import (
	"context"
	"errors"
	"testing"
)

type fakeUserRepo struct {
	users map[uint]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID uint) (*User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByToken(ctx context.Context, token string) (*User, error) {
	for _, u := range r.users {
		if u.Token != nil && *u.Token == token {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) Upsert(ctx context.Context, u *User) error {
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

func TestGetByTokenRejectsBlankToken(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	if _, err := svc.GetByToken(context.Background(), "   "); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetByTokenResolvesUser(t *testing.T) {
	repo := newFakeUserRepo()
	token := "tok-123"
	repo.users[1] = &User{ID: 1, Username: "alice", Token: &token}
	svc := NewService(repo)

	u, err := svc.GetByToken(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if u.ID != 1 || u.Username != "alice" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := svc.GetByToken(context.Background(), "tok-999"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpsertProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	if err := svc.UpsertProfile(context.Background(), &User{ID: 1}); err == nil {
		t.Fatal("expected error for missing username")
	}

	if err := svc.UpsertProfile(context.Background(), &User{ID: 1, Username: "alice", Nickname: "Al"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := svc.UpsertProfile(context.Background(), &User{ID: 1, Username: "alice", Nickname: "Alice"}); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	u, err := svc.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u.Nickname != "Alice" {
		t.Fatalf("expected replaced nickname, got %q", u.Nickname)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one row, got %d", len(repo.users))
	}
}
