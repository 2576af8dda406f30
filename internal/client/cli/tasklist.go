package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/avelasquez-dev/taskdeck/internal/client/models"
)

// renderTasks prints tasks as an aligned table. Output goes through a
// tabwriter so columns line up regardless of title length.
func renderTasks(list []models.Task) {
	if len(list) == 0 {
		printlnFn("No tasks.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE")
	for _, t := range list {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Status, t.Priority, due)
	}
	w.Flush()
}

// List refreshes the collection from the server and prints the current
// page. A fetch failure still renders whatever was loaded before.
func (a *App) List(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	if err := a.store.FetchTasks(ctx); err != nil {
		printlnFn("Could not refresh tasks:", err.Error())
	}

	page, info := a.store.PaginatedTasks()
	renderTasks(page)
	if info.TotalPages > 1 {
		printlnFn(fmt.Sprintf("Page %d/%d (%d tasks)", info.CurrentPage, info.TotalPages, info.TotalItems))
	}
	return nil
}

// Recent prints the most recently created tasks.
func (a *App) Recent(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	renderTasks(a.store.Recent())
	return nil
}

// Stats prints the aggregate counters of the collection.
func (a *App) Stats(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	st := a.store.Stats()
	printlnFn(fmt.Sprintf("Total: %d  Pending: %d  In progress: %d  Completed: %d",
		st.Total, st.Pending, st.InProgress, st.Completed))
	return nil
}

// Search filters the listing by title/description; an empty query clears
// the filter.
func (a *App) Search(ctx context.Context, query string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	a.store.SetSearchQuery(query)
	page, info := a.store.PaginatedTasks()
	renderTasks(page)
	if query != "" {
		printlnFn(fmt.Sprintf("%d matching task(s)", info.TotalItems))
	}
	return nil
}

// Show re-reads one task from the server and prints it in full.
func (a *App) Show(ctx context.Context, idArg string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	id, err := parseTaskID(idArg)
	if err != nil {
		printlnFn("Task id must be a positive number.")
		return err
	}

	t, err := a.store.GetTask(ctx, id)
	if err != nil {
		printlnFn("Could not fetch task:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("ID:          %d", t.ID))
	printlnFn(fmt.Sprintf("Title:       %s", t.Title))
	printlnFn(fmt.Sprintf("Status:      %s", t.Status))
	printlnFn(fmt.Sprintf("Priority:    %s", t.Priority))
	if t.Description != "" {
		printlnFn("Description:", t.Description)
	}
	if t.DueDate != nil {
		printlnFn(fmt.Sprintf("Due:         %s", t.DueDate.Format(dueDateLayout)))
	}
	printlnFn(fmt.Sprintf("Created:     %s", t.CreatedAt.Format("2006-01-02 15:04")))
	return nil
}

// Page switches the listing to the requested page.
func (a *App) Page(ctx context.Context, page string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	n, err := strconv.Atoi(page)
	if err != nil || n < 1 {
		printlnFn("Page must be a positive number.")
		return err
	}
	a.store.SetPage(n)
	list, info := a.store.PaginatedTasks()
	renderTasks(list)
	printlnFn(fmt.Sprintf("Page %d/%d (%d tasks)", info.CurrentPage, info.TotalPages, info.TotalItems))
	return nil
}
