package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/glacierapp/glacier/internal/config"
	"github.com/glacierapp/glacier/internal/loop"
	"github.com/glacierapp/glacier/internal/version"
	"github.com/glacierapp/glacier/internal/webkit"
	"github.com/glacierapp/glacier/internal/window"
)

// openRequest is what `glacier open` was asked to show.
type openRequest struct {
	configPath string
	url        string
	htmlFile   string
	flags      config.Options
}

func newOpenFlagSet() (*flag.FlagSet, *openRequest, func()) {
	req := &openRequest{}
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: glacier open [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a window. Without --url or --html-file the demo page is shown.")
		fmt.Fprintln(os.Stderr, "Flags override values from the config file.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}

	fs.StringVar(&req.configPath, "config", "", "Window config file, YAML or TOML (default: $GLACIER_CONFIG or ~/.config/glacier/window.yaml)")
	fs.StringVar(&req.url, "url", "", "URL to navigate to")
	fs.StringVar(&req.htmlFile, "html-file", "", "HTML file to render inline")

	appName := fs.String("app-name", "", "Application name (selects the storage directory)")
	title := fs.String("title", "", "Window title")
	iconPath := fs.String("icon", "", "Window icon image")
	width := fs.Int("width", 0, "Window width")
	height := fs.Int("height", 0, "Window height")
	x := fs.Int("x", 0, "Window x position (needs --y)")
	y := fs.Int("y", 0, "Window y position (needs --x)")
	minWidth := fs.Int("min-width", 0, "Minimum window width")
	minHeight := fs.Int("min-height", 0, "Minimum window height")
	maxWidth := fs.Int("max-width", 0, "Maximum window width")
	maxHeight := fs.Int("max-height", 0, "Maximum window height")
	resizable := fs.Bool("resizable", true, "Allow resizing")
	frame := fs.Bool("frame", true, "Draw the window frame")
	show := fs.Bool("show", true, "Show the window")
	devtools := fs.Bool("devtools", false, "Enable the web inspector")

	// Only flags given on the command line override the config file.
	collect := func() {
		fs.Visit(func(f *flag.Flag) {
			o := &req.flags
			switch f.Name {
			case "app-name":
				o.AppName = config.String(*appName)
			case "title":
				o.Title = config.String(*title)
			case "icon":
				o.Icon = config.String(*iconPath)
			case "width":
				o.Width = config.Int(*width)
			case "height":
				o.Height = config.Int(*height)
			case "x":
				o.X = config.Int(*x)
			case "y":
				o.Y = config.Int(*y)
			case "min-width":
				o.MinWidth = config.Int(*minWidth)
			case "min-height":
				o.MinHeight = config.Int(*minHeight)
			case "max-width":
				o.MaxWidth = config.Int(*maxWidth)
			case "max-height":
				o.MaxHeight = config.Int(*maxHeight)
			case "resizable":
				o.Resizable = config.Bool(*resizable)
			case "frame":
				o.Frame = config.Bool(*frame)
			case "show":
				o.Show = config.Bool(*show)
			case "devtools":
				o.DevTools = config.Bool(*devtools)
			}
		})
	}
	return fs, req, collect
}

func parseOpenArgs(args []string) (*openRequest, error) {
	fs, req, collect := newOpenFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if req.url != "" && req.htmlFile != "" {
		return nil, fmt.Errorf("--url and --html-file are mutually exclusive")
	}
	collect()
	return req, nil
}

// loadOptions reads the config file (explicit path, then $GLACIER_CONFIG,
// then the default location) and overlays the command-line flags.
func loadOptions(path string, settings *config.Settings, flags *config.Options) (*config.Options, error) {
	if path == "" {
		path = settings.ConfigPath
	}

	var (
		opts *config.Options
		err  error
	)
	if path != "" {
		opts, err = config.LoadFile(path)
	} else {
		opts, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &config.Options{}
	}
	opts.Merge(flags)
	return opts, nil
}

func runOpen(args []string) int {
	req, err := parseOpenArgs(args)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	settings := loadSettings()
	log := newLogger(settings)
	defer log.Sync()

	opts, err := loadOptions(req.configPath, settings, &req.flags)
	if err != nil {
		log.Error("failed to load window config", zap.Error(err))
		return 1
	}
	for _, w := range config.Resolve(opts).Validate() {
		log.Warn("questionable window option", zap.String("option", w.Path), zap.String("problem", w.Message))
	}

	backend := webkit.New(log)
	win := window.New(backend, opts,
		window.WithLogger(log),
		window.WithEventObserver(func(ev loop.Event) {
			log.Debug("event", zap.Stringer("kind", ev.Kind))
		}))

	switch {
	case req.url != "":
		err = win.LoadURL(req.url)
	case req.htmlFile != "":
		var markup []byte
		markup, err = os.ReadFile(req.htmlFile)
		if err == nil {
			err = win.LoadHTML(string(markup))
		}
	default:
		err = win.LoadHTML(demoPage(version.Core(), engineVersion(backend)))
	}
	if err != nil {
		log.Error("failed to stage content", zap.Error(err))
		return 1
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	defer func() {
		signal.Stop(sigCh)
		close(done)
	}()
	go closeOnSignals(sigCh, done, win, log)

	err = win.Materialize(func(payload string) {
		log.Debug("message from page", zap.Int("bytes", len(payload)))
		fmt.Printf("IPC data: %s\n", payload)
	})
	return exitCode(log, err)
}

// closeOnSignals asks win to close for every signal received until done is
// closed. A signal that arrives before the window is live is remembered by
// the window itself.
func closeOnSignals(sigs <-chan os.Signal, done <-chan struct{}, win interface{ RequestClose() }, log *zap.Logger) {
	for {
		select {
		case sig := <-sigs:
			log.Info("signal received, closing window", zap.String("signal", sig.String()))
			win.RequestClose()
		case <-done:
			return
		}
	}
}
