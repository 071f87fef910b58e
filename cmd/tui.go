package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/nibzard/taskflow/internal/logging"
	"github.com/nibzard/taskflow/internal/ui"
)

// tuiCommand runs the interactive task list. Logs go to a per-run file so
// they do not tear the alternate screen.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tui")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	runLog, err := logging.NewRunLogger(a.cfg.LogDir, a.cfg.Scope())
	if err != nil {
		return fmt.Errorf("creating run log: %w", err)
	}
	defer runLog.Close()

	logger := a.logger(runLog.Writer())
	logger.Info("starting terminal UI", "run", runLog.RunID, "storage", a.cfg.Storage, "scope", a.cfg.Scope())

	store, report, closeKV, err := a.openTasks(ctx, logger)
	if err != nil {
		logger.Error("opening tasks", "err", err)
		return err
	}
	defer closeKV()

	err = ui.RunTUI(ctx, store,
		ui.WithLoadReport(report),
		ui.WithNotifyDelay(time.Duration(a.cfg.NotifySeconds)*time.Second),
		ui.WithLogger(logger),
	)
	if err != nil {
		logger.Error("terminal UI exited", "err", err)
		return err
	}
	logger.Info("terminal UI exited", "tasks", store.Len())
	return nil
}
