// Package tasks holds the client-side task collection: an in-memory,
// observable store that applies mutations optimistically, reconciles them
// with the server's authoritative response, and rolls back on failure.
// The remote store is the system of record; this store is the sole
// in-memory owner.
package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/avelasquez-dev/taskdeck/internal/client/api"
	"github.com/avelasquez-dev/taskdeck/internal/client/models"
	"github.com/avelasquez-dev/taskdeck/internal/common"
	"github.com/avelasquez-dev/taskdeck/internal/logging"
)

// Stats are derived aggregate counters, always recomputed from the
// collection and never mutated independently.
type Stats struct {
	Total      int
	Completed  int
	Pending    int
	InProgress int
}

// Snapshot is a consistent, deep copy of the store state handed to
// subscribers and read-only callers.
type Snapshot struct {
	Tasks   []models.Task
	Recent  []models.Task
	Stats   Stats
	Loading bool
	Err     error
}

// recentCount is how many tasks the "recent" view holds.
const recentCount = 3

const defaultPageSize = 6

// Store is the observable task collection.
//
// Mutations on different ids may be in flight concurrently; two mutations
// on the same id race last-write-wins, each settling against its own
// snapshot. The store does not lock per task.
type Store struct {
	api api.Client
	log logging.Logger

	mu          sync.Mutex
	tasks       []models.Task
	stats       Stats
	recent      []models.Task
	loading     bool
	lastErr     error
	searchQuery string
	page        int
	pageSize    int

	subs []func(Snapshot)
}

func NewStore(apiClient api.Client, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{api: apiClient, log: log, page: 1, pageSize: defaultPageSize}
}

// Subscribe registers fn to be called with a fresh snapshot after every
// state change. Callbacks run outside the store lock.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Tasks:   models.CloneTasks(s.tasks),
		Recent:  models.CloneTasks(s.recent),
		Stats:   s.stats,
		Loading: s.loading,
		Err:     s.lastErr,
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func computeStats(tasks []models.Task) Stats {
	st := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.StatusCompleted:
			st.Completed++
		case models.StatusInProgress:
			st.InProgress++
		default:
			st.Pending++
		}
	}
	return st
}

// recomputeLocked refreshes every derived view. Called after each change
// to the collection, success or rollback alike.
func (s *Store) recomputeLocked() {
	s.stats = computeStats(s.tasks)
	s.recent = recentOf(s.tasks, recentCount)
}

// FetchTasks replaces the collection with the server's listing. On
// failure the previous collection is left intact; a transient fetch
// error must not destroy previously loaded data.
func (s *Store) FetchTasks(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()
	s.notify()

	list, err := s.api.ListTasks(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		s.notify()
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}
	s.tasks = list
	s.recomputeLocked()
	s.mu.Unlock()
	s.notify()
	return nil
}

// GetTask re-reads a single record from the server and reconciles it into
// the collection when it is already present.
func (s *Store) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	got, err := s.api.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task %d: %w", id, err)
	}

	s.mu.Lock()
	if _, ok := s.findLocked(id); ok {
		s.replaceLocked(got.Clone())
		s.recomputeLocked()
	}
	s.mu.Unlock()
	s.notify()

	return got, nil
}

// optimistic runs one mutation through the shared discipline: apply the
// local change, issue the remote call, then either reconcile with the
// server's authoritative record or restore the pre-mutation snapshot.
// Derived views are recomputed on every path, and the error is re-thrown
// after rollback so the UI decides the messaging.
func (s *Store) optimistic(
	ctx context.Context,
	apply func(),
	call func(context.Context) (*models.Task, error),
	reconcile func(*models.Task),
	rollback func(),
) error {
	s.mu.Lock()
	apply()
	s.recomputeLocked()
	s.mu.Unlock()
	s.notify()

	got, err := call(ctx)

	s.mu.Lock()
	if err != nil {
		rollback()
		s.lastErr = err
	} else {
		reconcile(got)
		s.lastErr = nil
	}
	s.recomputeLocked()
	s.mu.Unlock()
	s.notify()

	return err
}

func (s *Store) findLocked(id int64) (models.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return models.Task{}, false
}

func (s *Store) replaceLocked(task models.Task) {
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = task
			return
		}
	}
}

func (s *Store) removeLocked(id int64) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// CreateTask validates the draft, sends it, and prepends the
// server-assigned record on success. A blank title or an out-of-range
// enum supplied by the caller never reaches the network; empty enums are
// defaulted before sending.
func (s *Store) CreateTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be blank", common.ErrValidation)
	}
	if draft.Status == "" {
		draft.Status = models.DefaultStatus
	} else if !draft.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", common.ErrValidation, draft.Status)
	}
	if draft.Priority == "" {
		draft.Priority = models.DefaultPriority
	} else if !draft.Priority.Valid() {
		return nil, fmt.Errorf("%w: invalid priority %q", common.ErrValidation, draft.Priority)
	}

	created, err := s.api.CreateTask(ctx, draft)

	s.mu.Lock()
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		s.notify()
		return nil, err
	}
	s.tasks = append([]models.Task{created.Clone()}, s.tasks...)
	s.lastErr = nil
	s.recomputeLocked()
	s.mu.Unlock()
	s.notify()

	return created, nil
}

// UpdateTask applies a partial update optimistically. An invalid enum in
// the patch is a caller bug and is reported, never coerced; that defense
// is reserved for server-returned data.
func (s *Store) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", common.ErrValidation, *patch.Status)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return fmt.Errorf("%w: invalid priority %q", common.ErrValidation, *patch.Priority)
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("%w: title must not be blank", common.ErrValidation)
	}

	s.mu.Lock()
	prev, ok := s.findLocked(id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: task %d", common.ErrNotFound, id)
	}

	return s.optimistic(ctx,
		func() {
			next := prev.Clone()
			applyPatch(&next, patch)
			s.replaceLocked(next)
		},
		func(ctx context.Context) (*models.Task, error) {
			return s.api.UpdateTask(ctx, id, patch)
		},
		func(got *models.Task) { s.replaceLocked(got.Clone()) },
		func() { s.replaceLocked(prev) },
	)
}

func applyPatch(t *models.Task, patch models.TaskPatch) {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		due := *patch.DueDate
		t.DueDate = &due
	}
}

// UpdateTaskStatus is the pure status transition: nothing else about the
// record, priority included, may change.
func (s *Store) UpdateTaskStatus(ctx context.Context, id int64, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: invalid status %q", common.ErrValidation, status)
	}
	return s.UpdateTask(ctx, id, models.TaskPatch{Status: &status})
}

// DeleteTask removes the record optimistically. On failure the record is
// reinserted; its exact prior position is not guaranteed, its presence is.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	s.mu.Lock()
	prev, ok := s.findLocked(id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: task %d", common.ErrNotFound, id)
	}

	return s.optimistic(ctx,
		func() { s.removeLocked(id) },
		func(ctx context.Context) (*models.Task, error) {
			return nil, s.api.DeleteTask(ctx, id)
		},
		func(*models.Task) {},
		func() {
			// A fetch that settled while the delete was in flight may have
			// restored the record already; reinsert only when it is absent.
			if _, ok := s.findLocked(id); !ok {
				s.tasks = append(s.tasks, prev)
			}
		},
	)
}
