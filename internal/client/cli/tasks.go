package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/spf13/cobra"
)

var (
	errNothingSelected = errors.New("select tasks with --name, --id or --all")
	errDeleteFailed    = errors.New("some tasks could not be deleted")
)

func (r *runner) executeAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "execute-all",
		Short:       "Trigger every pending task on the server",
		Args:        cobra.NoArgs,
		Annotations: serverCommand,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.executeAll(cmd.Context())
		},
	}
}

func (a *App) executeAll(ctx context.Context) error {
	attempts, err := a.tasks.ExecuteAll(ctx)
	if err != nil {
		return fmt.Errorf("execute all failed after %d attempt(s): %w", attempts, err)
	}
	fmt.Fprintf(a.out, "All tasks triggered (attempts: %d)\n", attempts)
	return nil
}

type deleteOptions struct {
	name          string
	ids           []string
	all           bool
	noDeleteCloud bool
	yes           bool
}

func (r *runner) tasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List or delete server-side tasks",
	}

	var listName string
	list := &cobra.Command{
		Use:         "list",
		Short:       "List tasks, optionally filtered by name",
		Args:        cobra.NoArgs,
		Annotations: serverCommand,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.listTasks(cmd.Context(), listName)
		},
	}
	list.Flags().StringVar(&listName, "name", "", "case-insensitive substring of the task name")

	var opts deleteOptions
	del := &cobra.Command{
		Use:         "delete",
		Short:       "Delete tasks selected by name, id or all",
		Args:        cobra.NoArgs,
		Annotations: serverCommand,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.deleteTasks(cmd.Context(), opts)
		},
	}
	f := del.Flags()
	f.StringVar(&opts.name, "name", "", "delete tasks whose name contains this text")
	f.StringSliceVar(&opts.ids, "id", nil, "task id to delete (repeatable)")
	f.BoolVar(&opts.all, "all", false, "delete every task")
	f.BoolVar(&opts.noDeleteCloud, "no-delete-cloud", false, "keep the transferred files in the drive")
	f.BoolVarP(&opts.yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(list, del)
	return cmd
}

func (a *App) listTasks(ctx context.Context, name string) error {
	_, tasks, err := a.tasks.ListTasks(ctx, name)
	if err != nil {
		return err
	}
	renderTasks(a.out, tasks)
	return nil
}

func (a *App) deleteTasks(ctx context.Context, opts deleteOptions) error {
	if opts.name == "" && len(opts.ids) == 0 && !opts.all {
		return errNothingSelected
	}

	c, tasks, err := a.tasks.ListTasks(ctx, opts.name)
	if err != nil {
		return err
	}
	if len(opts.ids) > 0 {
		tasks = selectByID(tasks, opts.ids)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No matching tasks.")
		return nil
	}

	renderTasks(a.out, tasks)
	if !opts.yes {
		ok, err := Confirm(a.reader, fmt.Sprintf("Delete %d task(s)?", len(tasks)), a.out)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}
	}

	rep := a.tasks.DeleteTasks(ctx, c, tasks, !opts.noDeleteCloud)
	renderDeleteReport(a.out, rep)
	if len(rep.Failures) > 0 {
		return fmt.Errorf("%w: %d of %d", errDeleteFailed, len(rep.Failures), rep.Total)
	}
	return nil
}

// selectByID keeps the listed tasks named in ids, in ids order. Ids the
// server did not list are still returned so the server can reject them.
func selectByID(tasks []models.Task, ids []string) []models.Task {
	byID := make(map[models.ID]models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	out := make([]models.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[models.ID(id)]; ok {
			out = append(out, t)
			continue
		}
		out = append(out, models.Task{ID: models.ID(id)})
	}
	return out
}
