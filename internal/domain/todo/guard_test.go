package todo

import (
	"context"
	"errors"
	"testing"
)

func TestGuardAuthorize(t *testing.T) {
	members := newFakeMembers()
	members.add(1, 10)
	guard := NewGuard(members)

	tests := []struct {
		name    string
		userID  uint
		scope   Scope
		ownerID uint
		action  Action
		wantErr error
	}{
		{"group member may list", 1, InGroup(10), 0, ActionList, nil},
		{"group member may update others", 1, InGroup(10), 2, ActionUpdate, nil},
		{"non-member may not list", 2, InGroup(10), 0, ActionList, ErrNotInGroup},
		{"non-member may not create", 2, InGroup(10), 2, ActionCreate, ErrNotInGroup},
		{"personal list always allowed", 2, Personal(), 0, ActionList, nil},
		{"owner may update", 1, Personal(), 1, ActionUpdate, nil},
		{"non-owner may not update", 2, Personal(), 1, ActionUpdate, ErrUpdateOthersItem},
		{"non-owner may not delete", 2, Personal(), 1, ActionDelete, ErrDeleteOthersItem},
		{"non-owner may not complete", 2, Personal(), 1, ActionDone, ErrDoneOthersItem},
		{"non-owner may not cancel", 2, Personal(), 1, ActionCancel, ErrCancelOthersItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.Authorize(context.Background(), tt.userID, tt.scope, tt.ownerID, tt.action)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestScopeFor(t *testing.T) {
	if !ScopeFor(0).IsPersonal() {
		t.Fatalf("expected group id 0 to map to personal scope")
	}
	scope := ScopeFor(7)
	if scope.IsPersonal() || scope.GroupID() != 7 {
		t.Fatalf("expected group scope 7, got %+v", scope)
	}
}
