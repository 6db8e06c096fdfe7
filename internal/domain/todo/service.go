package todo

import (
	"context"
	"time"
)

const dateKeyLayout = "2006-01-02"

// Service owns the todo item lifecycle. Every mutation follows the same
// pipeline: load the stored item, authorize against that snapshot, apply the
// change, persist. Failures surface before anything is written.
type Service struct {
	repo  Repository
	guard *Guard
}

func NewService(repo Repository, guard *Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

// List returns the scope's items whose start time falls on a calendar day in
// [from, to], grouped by date. from and to are date-precision values; the
// query upper bound is the start of the day after to, so the whole final day
// is included regardless of time of day.
func (s *Service) List(ctx context.Context, scope Scope, userID uint, from, to time.Time) ([]ItemsByDate, error) {
	if err := s.guard.Authorize(ctx, userID, scope, 0, ActionList); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByStartTime(ctx, scope, userID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return groupByDate(items), nil
}

// ListUndetermined returns the scope's items that have no fixed time, flat
// and id-descending.
func (s *Service) ListUndetermined(ctx context.Context, scope Scope, userID uint) ([]TodoItem, error) {
	if err := s.guard.Authorize(ctx, userID, scope, 0, ActionList); err != nil {
		return nil, err
	}

	return s.repo.ListUndetermined(ctx, scope, userID)
}

func (s *Service) Create(ctx context.Context, input CreateItemInput, userID uint) (*TodoItem, error) {
	scope := ScopeFor(input.GroupID)
	if err := s.guard.Authorize(ctx, userID, scope, userID, ActionCreate); err != nil {
		return nil, err
	}

	item := TodoItem{
		UserID:         userID,
		GroupID:        input.GroupID,
		Title:          input.Title,
		Content:        input.Content,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		IsAllDay:       input.IsAllDay,
		IsUndetermined: input.IsUndetermined,
	}
	normalizeSchedule(&item)

	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, item.ID)
}

func (s *Service) Update(ctx context.Context, input UpdateItemInput, userID uint) (*TodoItem, error) {
	stored, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, userID, stored.Scope(), stored.UserID, ActionUpdate); err != nil {
		return nil, err
	}

	updated := *stored
	updated.GroupID = input.GroupID
	updated.Title = input.Title
	updated.Content = input.Content
	updated.StartTime = input.StartTime
	updated.EndTime = input.EndTime
	updated.IsAllDay = input.IsAllDay
	updated.IsUndetermined = input.IsUndetermined
	normalizeSchedule(&updated)

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, updated.ID)
}

func (s *Service) Delete(ctx context.Context, itemID, userID uint) error {
	stored, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(ctx, userID, stored.Scope(), stored.UserID, ActionDelete); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTodoItemNotFound
	}
	return nil
}

// Done marks an item completed, recording who completed it and the outcome.
// Scheduling fields are left untouched.
func (s *Service) Done(ctx context.Context, itemID uint, doneResult string, userID uint) error {
	stored, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(ctx, userID, stored.Scope(), stored.UserID, ActionDone); err != nil {
		return err
	}

	updated := *stored
	updated.IsDone = true
	updated.DoneResult = doneResult
	updated.DoneBy = &userID

	return s.repo.Update(ctx, &updated)
}

// Cancel reopens a done item. DoneResult is kept on purpose so the outcome of
// the earlier completion stays visible in history.
func (s *Service) Cancel(ctx context.Context, itemID, userID uint) error {
	stored, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(ctx, userID, stored.Scope(), stored.UserID, ActionCancel); err != nil {
		return err
	}

	updated := *stored
	updated.IsDone = false
	updated.DoneBy = nil

	return s.repo.Update(ctx, &updated)
}

// normalizeSchedule enforces the scheduling invariant: an undetermined item
// carries no times and is never all-day; an all-day item's times are pinned
// to midnight of their calendar day.
func normalizeSchedule(item *TodoItem) {
	if item.IsUndetermined {
		item.StartTime = nil
		item.EndTime = nil
		item.IsAllDay = false
		return
	}
	if item.IsAllDay {
		item.StartTime = truncateToDay(item.StartTime)
		item.EndTime = truncateToDay(item.EndTime)
	}
}

func truncateToDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return &day
}

// groupByDate partitions an already-ordered sequence into contiguous runs
// sharing a start date. It never re-sorts: should the same date appear
// non-contiguously, it yields two separate groups.
func groupByDate(items []TodoItem) []ItemsByDate {
	result := make([]ItemsByDate, 0)
	currentKey := ""
	for _, item := range items {
		key := ""
		if item.StartTime != nil {
			key = item.StartTime.Format(dateKeyLayout)
		}
		if len(result) == 0 || key != currentKey {
			currentKey = key
			result = append(result, ItemsByDate{Key: key})
		}
		result[len(result)-1].Items = append(result[len(result)-1].Items, item)
	}
	return result
}
