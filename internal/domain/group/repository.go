package group

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetGroupByID(ctx context.Context, groupID uint) (*Group, error)
	GetGroupByCode(ctx context.Context, code string) (*Group, error)
	ListGroupsByUser(ctx context.Context, userID uint) ([]Group, error)
	ListMembers(ctx context.Context, groupID uint) ([]GroupMember, error)
	CreateGroup(ctx context.Context, g *Group) error
	AddMember(ctx context.Context, member *GroupMember) error
	DeleteMember(ctx context.Context, groupID, userID uint) (bool, error)
	IsMember(ctx context.Context, userID, groupID uint) (bool, error)
	IsCodeTaken(ctx context.Context, code string) (bool, error)
}
