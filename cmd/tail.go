package cmd

import (
	"context"
	"fmt"

	"github.com/nibzard/taskflow/internal/logging"
)

// tailCommand prints the newest terminal UI log for the configured task list.
func (a *app) tailCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tail")
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(a.cfg.LogDir, a.cfg.Scope())
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(a.out, "No log files found.")
		return nil
	}

	fmt.Fprintf(a.out, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(a.out, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(a.out)

	return logging.TailLog(ctx, a.out, logPath, *n, *follow)
}
