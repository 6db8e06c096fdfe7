package user

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, userID uint) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// GetByToken resolves an API token to its user. Used by the auth middleware.
func (s *Service) GetByToken(ctx context.Context, token string) (*User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUserNotFound
	}
	return s.repo.GetByToken(ctx, token)
}

func (s *Service) UpsertProfile(ctx context.Context, u *User) error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	return s.repo.Upsert(ctx, u)
}
