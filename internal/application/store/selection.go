package store

import (
	"context"
	"sort"

	"github.com/taskmaster/client/internal/infrastructure/notify"
)

// The selection set marks task ids for bulk actions. Three invariants
// hold after every settled operation: the selection only references tasks
// in the current collection, it is emptied by any bulk operation
// regardless of outcome, and select-all is scoped to the loaded page.

// ToggleSelection flips membership of id in the selection set
func (s *Store) ToggleSelection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	for _, t := range s.tasks {
		if t.ID == id {
			s.selected[id] = struct{}{}
			return
		}
	}
}

// SelectAll selects every task on the currently loaded page, not the full
// remote result set
func (s *Store) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(map[string]struct{}, len(s.tasks))
	for _, t := range s.tasks {
		s.selected[t.ID] = struct{}{}
	}
}

// ClearSelection empties the selection set
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// Selection returns the selected ids in stable order
func (s *Store) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsSelected reports whether id is in the selection set
func (s *Store) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[id]
	return ok
}

// BulkComplete completes every selected task and reconciles the returned
// copies. The selection is cleared whether or not the call succeeds, so a
// retry can never re-apply the action to stale ids. An empty selection is
// a no-op.
func (s *Store) BulkComplete(ctx context.Context) error {
	ids := s.Selection()
	if len(ids) == 0 {
		return nil
	}

	s.setLoading(true)
	updated, err := s.tasksAPI.BulkComplete(ctx, ids)
	s.setLoading(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})

	if err != nil {
		return s.fail("Failed to complete selected tasks", err)
	}

	for _, task := range updated {
		s.replaceTask(task)
	}
	s.notifier.Success(notify.BulkCompleted(len(updated)))
	return nil
}

// BulkDelete removes every selected task from the collection and the
// total. Selection clearing follows the same unconditional rule as
// BulkComplete.
func (s *Store) BulkDelete(ctx context.Context) error {
	ids := s.Selection()
	if len(ids) == 0 {
		return nil
	}

	s.setLoading(true)
	err := s.tasksAPI.BulkDelete(ctx, ids)
	s.setLoading(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.selected = make(map[string]struct{})
		return s.fail("Failed to delete selected tasks", err)
	}

	gone := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}
	s.removeTasks(gone)
	s.selected = make(map[string]struct{})
	s.notifier.Success(notify.BulkDeleted(len(ids)))
	return nil
}

// pruneSelection drops ids no longer present in the collection. Caller
// holds the lock.
func (s *Store) pruneSelection() {
	if len(s.selected) == 0 {
		return
	}
	present := make(map[string]struct{}, len(s.tasks))
	for _, t := range s.tasks {
		present[t.ID] = struct{}{}
	}
	for id := range s.selected {
		if _, ok := present[id]; !ok {
			delete(s.selected, id)
		}
	}
}
