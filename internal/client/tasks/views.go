package tasks

import (
	"sort"
	"strings"

	"github.com/avelasquez-dev/taskdeck/internal/client/models"
)

// Derived read-only views over the collection: recent tasks, search
// filtering, and client-side pagination.

// Pagination describes one page of the filtered collection.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	PageSize    int
	TotalItems  int
}

func recentOf(tasks []models.Task, n int) []models.Task {
	out := models.CloneTasks(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Stats returns the current aggregate counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Tasks returns a deep copy of the collection in server order.
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneTasks(s.tasks)
}

// Recent returns the newest tasks by creation time, newest first.
func (s *Store) Recent() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneTasks(s.recent)
}

// SetSearchQuery updates the filter used by FilteredTasks and
// PaginatedTasks and resets the page.
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	s.searchQuery = query
	s.page = 1
	s.mu.Unlock()
	s.notify()
}

// FilteredTasks returns the tasks whose title or description contains the
// current search query, case-insensitively. An empty query matches all.
func (s *Store) FilteredTasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filteredLocked()
}

func (s *Store) filteredLocked() []models.Task {
	query := strings.ToLower(strings.TrimSpace(s.searchQuery))
	if query == "" {
		return models.CloneTasks(s.tasks)
	}

	var out []models.Task
	for _, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Title), query) ||
			strings.Contains(strings.ToLower(t.Description), query) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// SetPage selects the current page; out-of-range values are clamped when
// the page is read.
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()
	s.notify()
}

// SetPageSize changes the page size and resets to the first page.
func (s *Store) SetPageSize(size int) {
	s.mu.Lock()
	if size > 0 {
		s.pageSize = size
	}
	s.page = 1
	s.mu.Unlock()
	s.notify()
}

// PaginatedTasks returns the current page of the filtered collection.
func (s *Store) PaginatedTasks() ([]models.Task, Pagination) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.filteredLocked()
	totalItems := len(filtered)

	totalPages := (totalItems + s.pageSize - 1) / s.pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := s.page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * s.pageSize
	end := start + s.pageSize
	if end > totalItems {
		end = totalItems
	}

	return filtered[start:end], Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    s.pageSize,
		TotalItems:  totalItems,
	}
}
