package todo

import "errors"

var (
	ErrTodoItemNotFound = errors.New("todo item not found")
	ErrNotInGroup       = errors.New("must join this group first")
	ErrUpdateOthersItem = errors.New("cannot modify another user's item")
	ErrDeleteOthersItem = errors.New("cannot delete another user's item")
	ErrDoneOthersItem   = errors.New("cannot complete another user's item")
	ErrCancelOthersItem = errors.New("cannot cancel another user's item")
)

// IsForbidden reports whether err is any of the authorization failures.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrNotInGroup) ||
		errors.Is(err, ErrUpdateOthersItem) ||
		errors.Is(err, ErrDeleteOthersItem) ||
		errors.Is(err, ErrDoneOthersItem) ||
		errors.Is(err, ErrCancelOthersItem)
}
