package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskflow/internal/storage"
	"github.com/nibzard/taskflow/internal/todo"
	"github.com/nibzard/taskflow/internal/ui"
)

// openKV opens the configured storage backend.
func (a *app) openKV(ctx context.Context) (storage.Store, error) {
	kv, err := storage.Open(ctx, a.cfg.Storage, storage.Options{
		DataDir:   a.cfg.DataDir,
		RedisAddr: a.cfg.RedisAddr,
		RedisDB:   a.cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", a.cfg.Storage, err)
	}
	return kv, nil
}

// openTasks opens storage and loads the task list. The returned close
// function releases the backend.
func (a *app) openTasks(ctx context.Context, logger *log.Logger) (*todo.Store, todo.LoadReport, func(), error) {
	kv, err := a.openKV(ctx)
	if err != nil {
		return nil, todo.LoadReport{}, nil, err
	}
	closeKV := func() {
		if err := kv.Close(); err != nil {
			logger.Warn("closing storage", "err", err)
		}
	}

	store := todo.NewStore(kv, todo.WithKey(a.cfg.StorageKey), todo.WithLogger(logger))
	report, err := store.Load(ctx)
	if err != nil {
		closeKV()
		return nil, todo.LoadReport{}, nil, err
	}
	return store, report, closeKV, nil
}

// lsCommand lists tasks most recent first.
func (a *app) lsCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("ls")
	filterName := fs.String("filter", "all", "Filter (all|high|completed|pending)")
	search := fs.String("search", "", "Only tasks whose title or description contains this text")
	asJSON := fs.Bool("json", false, "Print the matching tasks as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	filter, err := ui.ParseFilter(*filterName)
	if err != nil {
		return err
	}

	store, _, closeKV, err := a.openTasks(ctx, a.logger(a.errOut))
	if err != nil {
		return err
	}
	defer closeKV()

	tasks := store.Tasks()
	var matched []todo.Task
	for i := len(tasks) - 1; i >= 0; i-- {
		t := tasks[i]
		if filter.Allows(t) && t.Matches(*search) {
			matched = append(matched, t)
		}
	}

	if *asJSON {
		data, err := todo.Encode(matched)
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, string(data))
		return nil
	}

	if len(matched) == 0 {
		fmt.Fprintln(a.out, "No tasks found.")
	}
	for _, t := range matched {
		fmt.Fprintln(a.out, formatTask(t))
	}

	stats := store.Stats()
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Total: %d  Completed: %d  Pending: %d  Progress: %.0f%%\n",
		stats.Total, stats.Completed, stats.Pending, stats.Progress)
	return nil
}

// formatTask renders one task on a single line.
func formatTask(t todo.Task) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	due := "No due date"
	if t.DueDate != "" {
		due = "Due: " + t.DueDate
	}
	return fmt.Sprintf("%s %s  %s  (%s, %s, %s)",
		mark, t.ID, t.Title, t.Priority.Label(), todo.ProjectLabel(t.Project), due)
}

// addCommand creates a task from flags and the remaining words as the title.
func (a *app) addCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("add")
	description := fs.String("description", "", "Task description")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	priorityName := fs.String("priority", string(todo.DefaultPriority), "Priority (low|medium|high)")
	project := fs.String("project", todo.ProjectGeneral, "Project (general|website|mobile|marketing)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	priority, err := todo.ParsePriority(*priorityName)
	if err != nil {
		return err
	}
	fields := todo.Fields{
		Title:       strings.TrimSpace(strings.Join(fs.Args(), " ")),
		Description: strings.TrimSpace(*description),
		DueDate:     strings.TrimSpace(*due),
		Priority:    priority,
		Project:     strings.TrimSpace(*project),
	}
	if err := fields.Validate(time.Now()); err != nil {
		return err
	}

	store, _, closeKV, err := a.openTasks(ctx, a.logger(a.errOut))
	if err != nil {
		return err
	}
	defer closeKV()

	task, err := store.Create(ctx, fields)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Task created successfully!")
	fmt.Fprintln(a.out, formatTask(task))
	return nil
}

func (a *app) toggleCommand(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskflow toggle <id>")
	}
	id := args[0]

	store, _, closeKV, err := a.openTasks(ctx, a.logger(a.errOut))
	if err != nil {
		return err
	}
	defer closeKV()

	task, found, err := store.ToggleCompletion(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("task %s not found", id)
	}
	state := "pending"
	if task.Completed {
		state = "completed"
	}
	fmt.Fprintf(a.out, "Task %s marked as %s\n", id, state)
	return nil
}

func (a *app) editCommand(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: taskflow edit <id> <title>")
	}
	id := args[0]
	title := strings.TrimSpace(strings.Join(args[1:], " "))
	if title == "" {
		return fmt.Errorf("title must not be empty")
	}

	store, _, closeKV, err := a.openTasks(ctx, a.logger(a.errOut))
	if err != nil {
		return err
	}
	defer closeKV()

	changed, err := store.UpdateTitle(ctx, id, title)
	if err != nil {
		return err
	}
	if !changed {
		if _, ok := store.Get(id); !ok {
			return fmt.Errorf("task %s not found", id)
		}
		fmt.Fprintln(a.out, "Title unchanged.")
		return nil
	}
	fmt.Fprintln(a.out, "Task updated successfully!")
	return nil
}

// rmCommand deletes a task after asking on stdin, unless -y is given.
func (a *app) rmCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("rm")
	yes := fs.Bool("y", false, "Delete without asking")
	fs.BoolVar(yes, "yes", false, "Delete without asking")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: taskflow rm [-y] <id>")
	}
	id := fs.Arg(0)

	store, _, closeKV, err := a.openTasks(ctx, a.logger(a.errOut))
	if err != nil {
		return err
	}
	defer closeKV()

	task, ok := store.Get(id)
	if !ok {
		return fmt.Errorf("task %s not found", id)
	}
	if !*yes {
		fmt.Fprintln(a.out, formatTask(task))
		fmt.Fprint(a.out, "Are you sure you want to delete this task? [y/N] ")
		answer, _ := bufio.NewReader(a.in).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
		default:
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}
	}

	if _, err := store.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Task deleted successfully!")
	return nil
}
