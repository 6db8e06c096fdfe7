package todo

import "context"

type Action int

const (
	ActionList Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
	ActionDone
	ActionCancel
)

// MembershipChecker answers group membership questions. Implemented by the
// group service.
type MembershipChecker interface {
	IsUserInGroup(ctx context.Context, userID, groupID uint) (bool, error)
}

// Guard decides whether a user may act on an item or scope. Pure decision
// logic: group-scoped resources require membership, personal resources require
// ownership. It never mutates anything.
type Guard struct {
	members MembershipChecker
}

func NewGuard(members MembershipChecker) *Guard {
	return &Guard{members: members}
}

// Authorize checks userID against the target's scope and owner. ownerID is
// ignored for group scopes (membership alone grants every action) and for
// ActionList in personal scope, where visibility is enforced as a query
// filter rather than an error.
func (g *Guard) Authorize(ctx context.Context, userID uint, scope Scope, ownerID uint, action Action) error {
	if !scope.IsPersonal() {
		member, err := g.members.IsUserInGroup(ctx, userID, scope.GroupID())
		if err != nil {
			return err
		}
		if !member {
			return ErrNotInGroup
		}
		return nil
	}

	if action == ActionList {
		return nil
	}
	if userID != ownerID {
		return forbiddenFor(action)
	}
	return nil
}

func forbiddenFor(action Action) error {
	switch action {
	case ActionDelete:
		return ErrDeleteOthersItem
	case ActionDone:
		return ErrDoneOthersItem
	case ActionCancel:
		return ErrCancelOthersItem
	default:
		return ErrUpdateOthersItem
	}
}
