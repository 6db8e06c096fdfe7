package todo

// Scope identifies whose items an operation targets: a user's personal items
// or a group's shared items. The wire format encodes personal scope as
// group id 0; ScopeFor converts at the boundary so the core never compares
// against the sentinel directly.
type Scope struct {
	groupID uint
}

func Personal() Scope {
	return Scope{}
}

func InGroup(groupID uint) Scope {
	return Scope{groupID: groupID}
}

// ScopeFor maps a wire-format group id to a scope, treating 0 as personal.
func ScopeFor(groupID uint) Scope {
	if groupID == 0 {
		return Personal()
	}
	return InGroup(groupID)
}

func (s Scope) IsPersonal() bool {
	return s.groupID == 0
}

func (s Scope) GroupID() uint {
	return s.groupID
}
