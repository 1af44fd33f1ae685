package store

import "github.com/taskmaster/client/internal/domain/entities"

// View-facing state accessors. Each returns a copy so callers cannot
// mutate store state behind its back.

// Tasks returns the currently loaded task collection
func (s *Store) Tasks() []*entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entities.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Task returns the cached task with the given id, or nil
func (s *Store) Task(id string) *entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Filters returns the active filter state
func (s *Store) Filters() entities.TaskFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Stats returns the last fetched global aggregates, or nil
func (s *Store) Stats() *entities.TaskStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// DailySummary returns the last fetched daily digest, or nil
func (s *Store) DailySummary() *entities.DailySummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// CurrentPage returns the page of the loaded collection
func (s *Store) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPage
}

// TotalPages returns the page count derived from the last response
func (s *Store) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPages
}

// Total returns the server-side result count for the active filters
func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Loading reports whether an operation is in flight
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error recorded by the last failed operation, or nil
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
