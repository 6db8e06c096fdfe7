package group

import "time"

// Cache memoizes membership lookups, the hottest read path: the todo guard
// asks "is user X in group Y" before every group-scoped operation.
type Cache interface {
	GetMembership(userID, groupID uint) (member bool, ok bool)
	SetMembership(userID, groupID uint, member bool, ttl time.Duration)
	DeleteMembership(userID, groupID uint)
}

type noopCache struct{}

func (noopCache) GetMembership(uint, uint) (bool, bool) {
	return false, false
}

func (noopCache) SetMembership(uint, uint, bool, time.Duration) {}

func (noopCache) DeleteMembership(uint, uint) {}
