package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/glacierapp/glacier/internal/config"
	"github.com/glacierapp/glacier/internal/logging"
	"github.com/glacierapp/glacier/internal/version"
	"github.com/glacierapp/glacier/internal/webkit"
	"github.com/glacierapp/glacier/internal/window"
)

// The window system requires its event loop on the process's main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "version":
		os.Exit(runVersion(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: glacier <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  open                Open a window showing a URL, an HTML file or the demo page")
	fmt.Fprintln(w, "  version             Print library and web engine versions")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate a window config file")
	fmt.Fprintln(w, "  config print        Print the effective window options")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  GLACIER_LOG_LEVEL   debug, info, warn or error (default info)")
	fmt.Fprintln(w, "  GLACIER_LOG_DEV     true for development logging")
	fmt.Fprintln(w, "  GLACIER_CONFIG      window config file (default ~/.config/glacier/window.yaml)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'glacier <command> --help' for command-specific options.")
}

func runVersion(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: glacier version")
		if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
			return 0
		}
		return 2
	}
	fmt.Printf("glacier %s\n", version.Core())
	fmt.Printf("engine: %s\n", engineVersion(webkit.New(nil)))
	return 0
}

func engineVersion(backend interface{ EngineVersion() (string, error) }) string {
	v, err := backend.EngineVersion()
	if err != nil {
		return "unknown"
	}
	return v
}

// loadSettings reads GLACIER_* settings, falling back to defaults with a
// warning on stderr.
func loadSettings() *config.Settings {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
		return config.DefaultSettings()
	}
	return settings
}

func newLogger(settings *config.Settings) *zap.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = settings.LogLevel
	cfg.Development = settings.LogDev
	cfg.Console = term.IsTerminal(int(os.Stderr.Fd()))

	log, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using default logger)\n", err)
		return logging.NewDefault()
	}
	return log
}

// exitCode maps a Materialize error to the process exit status.
func exitCode(log *zap.Logger, err error) int {
	if err == nil {
		return 0
	}
	var cerr *window.ConstructionError
	if errors.As(err, &cerr) {
		log.Error("failed to create window", zap.String("stage", string(cerr.Stage)), zap.Error(cerr.Err))
		return 1
	}
	log.Error("window loop failed", zap.Error(err))
	return 1
}
