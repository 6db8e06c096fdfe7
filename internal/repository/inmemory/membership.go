package inmemory

import (
	"sync"
	"time"
)

type membershipKey struct {
	userID  uint
	groupID uint
}

type membershipEntry struct {
	member    bool
	expiresAt time.Time
}

// MembershipCache is a process-local TTL cache for group membership lookups.
type MembershipCache struct {
	mu    sync.RWMutex
	items map[membershipKey]membershipEntry
}

func NewMembershipCache() *MembershipCache {
	return &MembershipCache{
		items: make(map[membershipKey]membershipEntry),
	}
}

func (c *MembershipCache) GetMembership(userID, groupID uint) (bool, bool) {
	now := time.Now()
	key := membershipKey{userID: userID, groupID: groupID}

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return false, false
	}

	if !entry.expiresAt.After(now) {
		c.mu.Lock()
		entry, ok = c.items[key]
		if ok && !entry.expiresAt.After(now) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return false, false
	}

	return entry.member, true
}

func (c *MembershipCache) SetMembership(userID, groupID uint, member bool, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.items[membershipKey{userID: userID, groupID: groupID}] = membershipEntry{
		member:    member,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *MembershipCache) DeleteMembership(userID, groupID uint) {
	c.mu.Lock()
	delete(c.items, membershipKey{userID: userID, groupID: groupID})
	c.mu.Unlock()
}
