// Package cmd implements the CLI command structure for taskflow.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskflow/internal/config"
	"github.com/nibzard/taskflow/internal/logging"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries the resolved config and the streams a command talks to.
type app struct {
	cfg    *config.Config
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// Run executes the taskflow CLI on the process streams.
func Run(ctx context.Context, args []string) error {
	return RunIO(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

// RunIO executes the taskflow CLI with explicit streams.
func RunIO(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskflow", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		printUsage(fs, errOut)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a := &app{cfg: cfg, in: in, out: out, errOut: errOut}
	if *help {
		printUsage(fs, out)
		return nil
	}
	if *showVersion {
		return a.versionCommand()
	}

	// No args or a leading flag means the terminal UI
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "serve":
		return a.serveCommand(ctx, remainingArgs)
	case "ls", "list":
		return a.lsCommand(ctx, remainingArgs)
	case "add":
		return a.addCommand(ctx, remainingArgs)
	case "toggle", "done":
		return a.toggleCommand(ctx, remainingArgs)
	case "edit":
		return a.editCommand(ctx, remainingArgs)
	case "rm", "delete":
		return a.rmCommand(ctx, remainingArgs)
	case "doctor":
		return a.doctorCommand(ctx, remainingArgs)
	case "tail", "logs":
		return a.tailCommand(ctx, remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, out)
		return nil
	default:
		fmt.Fprintf(errOut, "Unknown command: %s\n", subcommand)
		printUsage(fs, errOut)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// logger builds a logger on w from the logging settings.
func (a *app) logger(w io.Writer) *log.Logger {
	return logging.New(w, logging.Options{
		Level:      a.cfg.LogLevel,
		Format:     a.cfg.LogFormat,
		Timestamps: a.cfg.LogTimestamps,
		Caller:     a.cfg.LogCaller,
		Prefix:     "taskflow",
	})
}

// newFlagSet returns a subcommand flag set that reports to stderr.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("taskflow "+name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) versionCommand() error {
	fmt.Fprintf(a.out, "taskflow version %s\n", Version)
	fmt.Fprintf(a.out, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(a.out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}

// configCommand prints the resolved configuration, or an example file.
func (a *app) configCommand(args []string) error {
	fs := a.newFlagSet("config")
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(a.out, config.ExampleConfig())
		return nil
	}
	for _, key := range config.Keys() {
		fmt.Fprintf(a.out, "%-15s = %-30s # %s\n", key, a.cfg.Value(key), a.cfg.Sources[key])
	}
	return nil
}

// printUsage prints usage information.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "TaskFlow - A keyboard-driven task manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskflow [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  serve               Serve the sample task endpoint over HTTP")
	fmt.Fprintln(w, "  ls                  List tasks (-filter, -search, -json)")
	fmt.Fprintln(w, "  add <title>         Create a task (-description, -due, -priority, -project)")
	fmt.Fprintln(w, "  toggle <id>         Flip a task between pending and completed")
	fmt.Fprintln(w, "  edit <id> <title>   Change a task title")
	fmt.Fprintln(w, "  rm <id>             Delete a task (-y skips the confirmation)")
	fmt.Fprintln(w, "  doctor              Check config, storage, and the saved task list")
	fmt.Fprintln(w, "  tail                Tail the latest terminal UI log (-f, -n)")
	fmt.Fprintln(w, "  config              Show the resolved config (-example prints a sample file)")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config files: ~/.taskflow/taskflow.toml, ~/.config/taskflow/taskflow.toml, ./taskflow.toml")
	fmt.Fprintln(w, "Environment:  TASKFLOW_<KEY>, e.g. TASKFLOW_STORAGE=redis")
}
