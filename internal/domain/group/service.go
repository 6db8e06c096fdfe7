package group

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	groupCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	groupCodeLength   = 6
	groupCodeAttempts = 10
)

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, cache: noopCache{}}
}

// WithCache enables membership lookup caching. Entries are invalidated on
// join/leave so a revoked member loses access within one check.
func (s *Service) WithCache(cache Cache, ttl time.Duration) *Service {
	if cache != nil && ttl > 0 {
		s.cache = cache
		s.cacheTTL = ttl
	}
	return s
}

// GetGroup returns a group's details. Only members may see them.
func (s *Service) GetGroup(ctx context.Context, actingUserID, groupID uint) (*Group, error) {
	g, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	member, err := s.IsUserInGroup(ctx, actingUserID, groupID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}

	return g, nil
}

func (s *Service) ListGroups(ctx context.Context, userID uint) ([]Group, error) {
	return s.repo.ListGroupsByUser(ctx, userID)
}

// ListMembers returns the member roster. Only members may see it.
func (s *Service) ListMembers(ctx context.Context, actingUserID, groupID uint) ([]GroupMember, error) {
	if _, err := s.repo.GetGroupByID(ctx, groupID); err != nil {
		return nil, err
	}

	member, err := s.IsUserInGroup(ctx, actingUserID, groupID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}

	return s.repo.ListMembers(ctx, groupID)
}

func (s *Service) CreateGroup(ctx context.Context, ownerID uint, name string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var result Group
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		code, err := generateUniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		g := Group{
			Name:    name,
			Code:    code,
			OwnerID: ownerID,
		}
		if err := tx.CreateGroup(ctx, &g); err != nil {
			return err
		}

		member := GroupMember{
			GroupID: g.ID,
			UserID:  ownerID,
			Role:    RoleOwner,
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return err
		}

		result = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteMembership(ownerID, result.ID)
	return &result, nil
}

func (s *Service) JoinGroup(ctx context.Context, userID uint, code string) (*Group, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("code is required")
	}

	var result Group
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		g, err := tx.GetGroupByCode(ctx, code)
		if err != nil {
			return err
		}

		member, err := tx.IsMember(ctx, userID, g.ID)
		if err != nil {
			return err
		}
		if member {
			return ErrAlreadyInGroup
		}

		if err := tx.AddMember(ctx, &GroupMember{
			GroupID: g.ID,
			UserID:  userID,
			Role:    RoleMember,
		}); err != nil {
			return err
		}

		result = *g
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteMembership(userID, result.ID)
	return &result, nil
}

func (s *Service) LeaveGroup(ctx context.Context, userID, groupID uint) error {
	g, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if g.OwnerID == userID {
		return ErrOwnerCannotLeave
	}

	deleted, err := s.repo.DeleteMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMemberNotFound
	}

	s.cache.DeleteMembership(userID, groupID)
	return nil
}

// IsUserInGroup satisfies the todo guard's MembershipChecker.
func (s *Service) IsUserInGroup(ctx context.Context, userID, groupID uint) (bool, error) {
	if member, ok := s.cache.GetMembership(userID, groupID); ok {
		return member, nil
	}

	member, err := s.repo.IsMember(ctx, userID, groupID)
	if err != nil {
		return false, err
	}

	s.cache.SetMembership(userID, groupID, member, s.cacheTTL)
	return member, nil
}

func generateUniqueCode(ctx context.Context, repo Repository) (string, error) {
	for attempt := 0; attempt < groupCodeAttempts; attempt++ {
		code, err := randomCode(groupCodeLength)
		if err != nil {
			return "", err
		}

		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

func randomCode(length int) (string, error) {
	var builder strings.Builder
	max := big.NewInt(int64(len(groupCodeAlphabet)))
	for i := 0; i < length; i++ {
		index, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(groupCodeAlphabet[index.Int64()])
	}
	return builder.String(), nil
}
