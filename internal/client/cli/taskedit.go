package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/avelasquez-dev/taskdeck/internal/client/models"
	"github.com/avelasquez-dev/taskdeck/internal/common"
)

const dueDateLayout = "2006-01-02"

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive number", common.ErrValidation)
	}
	return id, nil
}

// Add prompts for the fields of a new task and creates it. Empty status
// and priority fall back to their defaults; the due date is optional and
// uses the YYYY-MM-DD layout.
func (a *App) Add(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}

	description, err := GetMultiline(a.reader, "Enter description", os.Stdout)
	if err != nil {
		return err
	}

	priority, err := getSimpleText(a.reader, "Enter priority (low/medium/high, empty for medium)", os.Stdout)
	if err != nil {
		return err
	}

	dueRaw, err := getSimpleText(a.reader, "Enter due date (YYYY-MM-DD, empty for none)", os.Stdout)
	if err != nil {
		return err
	}

	draft := models.TaskDraft{
		Title:       title,
		Description: description,
		Priority:    models.Priority(priority),
	}
	if dueRaw != "" {
		due, err := time.Parse(dueDateLayout, dueRaw)
		if err != nil {
			printlnFn("Due date must look like 2026-01-31.")
			return err
		}
		draft.DueDate = &due
	}

	created, err := a.store.CreateTask(ctx, draft)
	if err != nil {
		printlnFn("Could not create task:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Created task %d.", created.ID))
	return nil
}

// Edit prompts for new field values for an existing task; an empty input
// keeps the current value.
func (a *App) Edit(ctx context.Context, idArg string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	id, err := parseTaskID(idArg)
	if err != nil {
		printlnFn("Task id must be a positive number.")
		return err
	}

	var current *models.Task
	for _, t := range a.store.Tasks() {
		if t.ID == id {
			tt := t
			current = &tt
			break
		}
	}
	if current == nil {
		printlnFn("No such task.")
		return common.ErrNotFound
	}

	patch := models.TaskPatch{}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Enter title (empty keeps %q)", current.Title), os.Stdout)
	if err != nil {
		return err
	}
	if title != "" {
		patch.Title = &title
	}

	description, err := GetMultiline(a.reader, "Enter description (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	if description != "" {
		patch.Description = &description
	}

	statusRaw, err := getSimpleText(a.reader, fmt.Sprintf("Enter status (empty keeps %s)", current.Status), os.Stdout)
	if err != nil {
		return err
	}
	if statusRaw != "" {
		status := models.Status(statusRaw)
		patch.Status = &status
	}

	priorityRaw, err := getSimpleText(a.reader, fmt.Sprintf("Enter priority (empty keeps %s)", current.Priority), os.Stdout)
	if err != nil {
		return err
	}
	if priorityRaw != "" {
		priority := models.Priority(priorityRaw)
		patch.Priority = &priority
	}

	if patch == (models.TaskPatch{}) {
		printlnFn("Nothing to change.")
		return nil
	}

	if err := a.store.UpdateTask(ctx, id, patch); err != nil {
		printlnFn("Could not update task:", err.Error())
		return err
	}

	printlnFn("Updated.")
	return nil
}

func (a *App) setStatus(ctx context.Context, idArg string, status models.Status) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	id, err := parseTaskID(idArg)
	if err != nil {
		printlnFn("Task id must be a positive number.")
		return err
	}

	if err := a.store.UpdateTaskStatus(ctx, id, status); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No such task.")
		} else {
			printlnFn("Could not update task:", err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("Task %d is now %s.", id, status))
	return nil
}

// Done marks a task completed.
func (a *App) Done(ctx context.Context, idArg string) error {
	return a.setStatus(ctx, idArg, models.StatusCompleted)
}

// Start marks a task in progress.
func (a *App) Start(ctx context.Context, idArg string) error {
	return a.setStatus(ctx, idArg, models.StatusInProgress)
}

// Delete removes a task.
func (a *App) Delete(ctx context.Context, idArg string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	id, err := parseTaskID(idArg)
	if err != nil {
		printlnFn("Task id must be a positive number.")
		return err
	}

	if err := a.store.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No such task.")
		} else {
			printlnFn("Could not delete task:", err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("Deleted task %d.", id))
	return nil
}
