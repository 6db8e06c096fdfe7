package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, userID uint) (*User, error)
	GetByToken(ctx context.Context, token string) (*User, error)
	Upsert(ctx context.Context, u *User) error
}
