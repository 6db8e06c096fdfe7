package group

import "errors"

var (
	ErrGroupNotFound        = errors.New("group not found")
	ErrGroupCodeNotFound    = errors.New("group code not found")
	ErrAlreadyInGroup       = errors.New("already in group")
	ErrMemberNotFound       = errors.New("member not found")
	ErrNotMember            = errors.New("must join this group first")
	ErrOwnerCannotLeave     = errors.New("owner cannot leave the group")
	ErrCodeGenerationFailed = errors.New("group code generation failed")
)
