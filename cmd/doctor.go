package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/nibzard/taskflow/internal/config"
	"github.com/nibzard/taskflow/internal/logging"
	"github.com/nibzard/taskflow/internal/todo"
)

// doctorCommand checks the config, the storage backend and the saved task
// list. It only reads; a corrupt blob is reported, not backed up.
func (a *app) doctorCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("doctor")
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := a.out
	fmt.Fprintln(w, "TaskFlow Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if err := a.cfg.Validate(); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	if len(a.cfg.Files) == 0 {
		fmt.Fprintln(w, "  Files: (none)")
	}
	for _, f := range a.cfg.Files {
		fmt.Fprintf(w, "  File: %s\n", f)
	}
	if *verbose {
		for _, key := range config.Keys() {
			fmt.Fprintf(w, "  %s = %s (%s)\n", key, a.cfg.Value(key), a.cfg.Sources[key])
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Storage: %s\n", a.cfg.Storage)
	switch a.cfg.Storage {
	case config.StorageFile:
		fmt.Fprintf(w, "  Data dir: %s\n", a.cfg.DataDir)
	case config.StorageRedis:
		fmt.Fprintf(w, "  Redis: %s (db %d)\n", a.cfg.RedisAddr, a.cfg.RedisDB)
	case config.StorageMemory:
		fmt.Fprintln(w, "  ⚠️  Memory storage does not survive restarts")
	}
	kv, err := a.openKV(ctx)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		fmt.Fprintln(w)
		return fmt.Errorf("doctor checks failed")
	}
	defer kv.Close()
	fmt.Fprintln(w, "  ✅ OK")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Tasks (key %q):\n", a.cfg.StorageKey)
	data, ok, err := kv.Get(ctx, a.cfg.StorageKey)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case !ok:
		fmt.Fprintln(w, "  ✅ No saved tasks yet")
	default:
		res := todo.Decode(data)
		if res.Corrupt != nil {
			fmt.Fprintf(w, "  ❌ Corrupt: %v\n", res.Corrupt)
			allOK = false
			break
		}
		stats := todo.Summarize(res.Tasks)
		fmt.Fprintf(w, "  ✅ %d tasks (%d completed, %d pending)\n", stats.Total, stats.Completed, stats.Pending)
		for _, skipped := range res.Skipped {
			fmt.Fprintf(w, "  ⚠️  Skipped: %v\n", skipped)
		}
	}
	fmt.Fprintln(w)

	logDir, err := logging.FindLogDir(a.cfg.LogDir, a.cfg.Scope())
	fmt.Fprintf(w, "Logs: %s\n", logDir)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	default:
		if _, statErr := os.Stat(logDir); statErr != nil {
			fmt.Fprintln(w, "  ⚠️  No runs logged yet")
		} else {
			fmt.Fprintln(w, "  ✅ OK")
		}
	}
	fmt.Fprintln(w)

	if !allOK {
		return fmt.Errorf("doctor checks failed")
	}
	fmt.Fprintln(w, "✅ All checks passed!")
	return nil
}
