// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/taskflow/internal/logging"
	"github.com/nibzard/taskflow/internal/storage"
	"github.com/nibzard/taskflow/internal/todo"
)

// testEnv runs the CLI against a private file-backed task list.
type testEnv struct {
	t       *testing.T
	dataDir string
	logDir  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	chdir(t, t.TempDir())
	return &testEnv{
		t:       t,
		dataDir: t.TempDir(),
		logDir:  t.TempDir(),
	}
}

func (e *testEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	full := append([]string{
		"--storage", "file",
		"--data-dir", e.dataDir,
		"--log-dir", e.logDir,
		"--log-level", "error",
	}, args...)
	var out, errOut bytes.Buffer
	err := RunIO(context.Background(), full, strings.NewReader(stdin), &out, &errOut)
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run("", args...)
	if err != nil {
		e.t.Fatalf("%v: unexpected error: %v\noutput:\n%s", args, err, out)
	}
	return out
}

// tasks lists the saved tasks through "ls -json", most recent first.
func (e *testEnv) tasks() []todo.Task {
	e.t.Helper()
	res := todo.Decode([]byte(e.mustRun("ls", "-json")))
	if res.Corrupt != nil || len(res.Skipped) > 0 {
		e.t.Fatalf("ls -json printed an unreadable list: %v %v", res.Corrupt, res.Skipped)
	}
	return res.Tasks
}

func (e *testEnv) kv() *storage.FileStore {
	e.t.Helper()
	kv, err := storage.NewFileStore(e.dataDir)
	if err != nil {
		e.t.Fatal(err)
	}
	return kv
}

// TestRun tests the main Run entry points that do not touch storage.
func TestRun(t *testing.T) {
	t.Run("shows help with --help flag", func(t *testing.T) {
		e := newTestEnv(t)
		out := e.mustRun("--help")
		if !strings.Contains(out, "Commands:") {
			t.Errorf("expected usage, got %q", out)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		e := newTestEnv(t)
		out := e.mustRun("help")
		if !strings.Contains(out, "Global Options:") {
			t.Errorf("expected usage, got %q", out)
		}
	})

	t.Run("shows version", func(t *testing.T) {
		e := newTestEnv(t)
		for _, args := range [][]string{{"--version"}, {"-v"}, {"version"}} {
			out := e.mustRun(args...)
			if !strings.Contains(out, "taskflow version "+Version) {
				t.Errorf("%v: expected version line, got %q", args, out)
			}
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		e := newTestEnv(t)
		_, err := e.run("", "unknown-command")
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("invalid global flag value returns error", func(t *testing.T) {
		e := newTestEnv(t)
		_, err := e.run("", "--storage", "sqlite", "ls")
		if err == nil || !strings.Contains(err.Error(), "loading config") {
			t.Errorf("expected config error, got %v", err)
		}
	})

	t.Run("tui rejects arguments", func(t *testing.T) {
		e := newTestEnv(t)
		if _, err := e.run("", "tui", "extra"); err == nil {
			t.Error("expected error for extra tui arguments")
		}
	})
}

func TestTaskLifecycle(t *testing.T) {
	e := newTestEnv(t)

	out := e.mustRun("add", "-priority", "high", "-project", "website", "-due", "2099-01-01", "Buy", "milk")
	if !strings.Contains(out, "Task created successfully!") {
		t.Fatalf("add output = %q", out)
	}
	if !strings.Contains(out, "High Priority") || !strings.Contains(out, "Website Redesign") || !strings.Contains(out, "Due: 2099-01-01") {
		t.Errorf("add output missing task details: %q", out)
	}

	tasks := e.tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.Title != "Buy milk" || task.Priority != todo.PriorityHigh || task.Project != todo.ProjectWebsite || task.Completed {
		t.Fatalf("unexpected task: %+v", task)
	}

	out = e.mustRun("toggle", task.ID)
	if !strings.Contains(out, "marked as completed") {
		t.Errorf("toggle output = %q", out)
	}
	out = e.mustRun("ls", "-filter", "completed")
	if !strings.Contains(out, "[x] "+task.ID) {
		t.Errorf("completed filter should list the task, got %q", out)
	}
	if !strings.Contains(out, "Completed: 1") {
		t.Errorf("expected stats line, got %q", out)
	}
	out = e.mustRun("ls", "-filter", "pending")
	if !strings.Contains(out, "No tasks found.") {
		t.Errorf("pending filter should be empty, got %q", out)
	}

	out = e.mustRun("edit", task.ID, "Buy", "oat", "milk")
	if !strings.Contains(out, "Task updated successfully!") {
		t.Errorf("edit output = %q", out)
	}
	out = e.mustRun("edit", task.ID, "Buy oat milk")
	if !strings.Contains(out, "Title unchanged.") {
		t.Errorf("second edit output = %q", out)
	}
	if got := e.tasks()[0].Title; got != "Buy oat milk" {
		t.Errorf("title = %q, want %q", got, "Buy oat milk")
	}

	out, err := e.run("n\n", "rm", task.ID)
	if err != nil {
		t.Fatalf("rm: %v", err)
	}
	if !strings.Contains(out, "Are you sure you want to delete this task?") || !strings.Contains(out, "Cancelled.") {
		t.Errorf("declined rm output = %q", out)
	}
	if len(e.tasks()) != 1 {
		t.Fatal("declined rm should keep the task")
	}

	out, err = e.run("y\n", "rm", task.ID)
	if err != nil {
		t.Fatalf("rm: %v", err)
	}
	if !strings.Contains(out, "Task deleted successfully!") {
		t.Errorf("confirmed rm output = %q", out)
	}
	out = e.mustRun("ls")
	if !strings.Contains(out, "No tasks found.") || !strings.Contains(out, "Total: 0") {
		t.Errorf("ls after rm = %q", out)
	}
}

func TestListFilterAndSearch(t *testing.T) {
	e := newTestEnv(t)

	e.mustRun("add", "-priority", "low", "-description", "weekly groceries", "Shopping")
	// ids are millisecond timestamps
	time.Sleep(2 * time.Millisecond)
	e.mustRun("add", "-priority", "high", "Ship release")

	tasks := e.tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Ship release" {
		t.Errorf("ls should list most recent first, got %q first", tasks[0].Title)
	}

	out := e.mustRun("ls", "-filter", "high")
	if !strings.Contains(out, "Ship release") || strings.Contains(out, "Shopping") {
		t.Errorf("high filter output = %q", out)
	}

	out = e.mustRun("ls", "-search", "GROCERIES")
	if !strings.Contains(out, "Shopping") || strings.Contains(out, "Ship release") {
		t.Errorf("search output = %q", out)
	}

	out = e.mustRun("ls", "-filter", "high", "-search", "groceries")
	if !strings.Contains(out, "No tasks found.") {
		t.Errorf("filter and search should compose, got %q", out)
	}

	if _, err := e.run("", "ls", "-filter", "urgent"); err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing title", []string{"add"}, "title"},
		{"blank title", []string{"add", "   "}, "title"},
		{"bad due date", []string{"add", "-due", "tomorrow", "Task"}, "dueDate"},
		{"past due date", []string{"add", "-due", "2000-01-01", "Task"}, "dueDate"},
		{"bad priority", []string{"add", "-priority", "urgent", "Task"}, "invalid priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			_, err := e.run("", tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
			if n := len(e.tasks()); n != 0 {
				t.Errorf("invalid add stored %d tasks", n)
			}
		})
	}
}

func TestUnknownTaskID(t *testing.T) {
	e := newTestEnv(t)
	for _, args := range [][]string{
		{"toggle", "42"},
		{"edit", "42", "New title"},
		{"rm", "-y", "42"},
	} {
		_, err := e.run("", args...)
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("%v: expected not found error, got %v", args, err)
		}
	}
	if _, ok, _ := e.kv().Get(context.Background(), todo.DefaultKey); ok {
		t.Error("no-op commands should not write the task blob")
	}
}

func TestUsageErrors(t *testing.T) {
	e := newTestEnv(t)
	for _, args := range [][]string{
		{"toggle"},
		{"edit", "42"},
		{"rm"},
		{"ls", "extra"},
	} {
		if _, err := e.run("", args...); err == nil {
			t.Errorf("%v: expected usage error", args)
		}
	}
}

func TestDoctorCommand(t *testing.T) {
	t.Run("passes on a fresh task list", func(t *testing.T) {
		e := newTestEnv(t)
		out := e.mustRun("doctor", "-v")
		if !strings.Contains(out, "All checks passed!") {
			t.Errorf("doctor output = %q", out)
		}
		if !strings.Contains(out, "No saved tasks yet") {
			t.Errorf("expected empty task list note, got %q", out)
		}
		if !strings.Contains(out, "storage = file (flag)") {
			t.Errorf("verbose doctor should list sources, got %q", out)
		}
	})

	t.Run("reports counts and skipped entries", func(t *testing.T) {
		e := newTestEnv(t)
		blob := `[{"id":"1","title":"ok","completed":true},{"title":"no id"}]`
		if err := e.kv().Set(context.Background(), todo.DefaultKey, []byte(blob)); err != nil {
			t.Fatal(err)
		}
		out := e.mustRun("doctor")
		if !strings.Contains(out, "1 tasks (1 completed, 0 pending)") {
			t.Errorf("doctor output = %q", out)
		}
		if !strings.Contains(out, "Skipped") {
			t.Errorf("expected skipped entry, got %q", out)
		}
	})

	t.Run("fails on a corrupt blob without touching it", func(t *testing.T) {
		e := newTestEnv(t)
		kv := e.kv()
		ctx := context.Background()
		if err := kv.Set(ctx, todo.DefaultKey, []byte("not json")); err != nil {
			t.Fatal(err)
		}
		out, err := e.run("", "doctor")
		if err == nil || !strings.Contains(err.Error(), "doctor checks failed") {
			t.Fatalf("expected doctor failure, got %v", err)
		}
		if !strings.Contains(out, "Corrupt") {
			t.Errorf("doctor output = %q", out)
		}
		if _, ok, _ := kv.Get(ctx, todo.DefaultKey+".corrupt"); ok {
			t.Error("doctor should not back up the corrupt blob")
		}
	})
}

func TestCorruptBlobRecovery(t *testing.T) {
	e := newTestEnv(t)
	kv := e.kv()
	ctx := context.Background()
	if err := kv.Set(ctx, todo.DefaultKey, []byte("{broken")); err != nil {
		t.Fatal(err)
	}

	e.mustRun("add", "Fresh start")
	if n := len(e.tasks()); n != 1 {
		t.Fatalf("expected 1 task after recovery, got %d", n)
	}
	data, ok, err := kv.Get(ctx, todo.DefaultKey+".corrupt")
	if err != nil || !ok {
		t.Fatalf("corrupt blob backup missing: ok=%v err=%v", ok, err)
	}
	if string(data) != "{broken" {
		t.Errorf("backup = %q", data)
	}
}

func TestTailCommand(t *testing.T) {
	e := newTestEnv(t)

	out := e.mustRun("tail")
	if !strings.Contains(out, "No log files found.") {
		t.Errorf("tail with no logs = %q", out)
	}

	scope := filepath.Join(e.dataDir, todo.DefaultKey)
	runLog, err := logging.NewRunLogger(e.logDir, scope)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(runLog.Writer(), "line %d\n", i)
	}
	if err := runLog.Close(); err != nil {
		t.Fatal(err)
	}

	out = e.mustRun("tail", "-n", "2")
	if !strings.Contains(out, "Tailing: "+runLog.LogPath) {
		t.Errorf("tail header = %q", out)
	}
	if strings.Contains(out, "line 1") || !strings.Contains(out, "line 2\nline 3\n") {
		t.Errorf("tail -n 2 = %q", out)
	}
}

func TestConfigCommand(t *testing.T) {
	e := newTestEnv(t)

	out := e.mustRun("config")
	if !strings.Contains(out, "storage") || !strings.Contains(out, "# flag") {
		t.Errorf("config output = %q", out)
	}
	if !strings.Contains(out, "# default") {
		t.Errorf("config should show default sources, got %q", out)
	}

	out = e.mustRun("config", "-example")
	if !strings.Contains(out, "storage_key") {
		t.Errorf("example config = %q", out)
	}
}

func TestConfigFileSelectsStorage(t *testing.T) {
	e := newTestEnv(t)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	conf := "storage = \"memory\"\nstorage_key = \"from-file\"\n"
	if err := os.WriteFile(filepath.Join(wd, "taskflow.toml"), []byte(conf), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err = RunIO(context.Background(), []string{"--log-dir", e.logDir, "config"}, strings.NewReader(""), &out, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "from-file") || !strings.Contains(out.String(), "# project file") {
		t.Errorf("config output = %q", out.String())
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var out, errOut bytes.Buffer
	err := RunIO(ctx, []string{"--log-dir", e.logDir, "serve", "-addr", "127.0.0.1:0"}, strings.NewReader(""), &out, &errOut)
	if err != nil {
		t.Fatalf("serve: %v\n%s", err, errOut.String())
	}
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+), for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
