// Package webkit is the platform backend built on the system web engine:
// WebKitGTK on linux (in a GtkWindow glacier creates and decorates through
// X11), WebKit on macOS and WebView2 on windows through webview_go.
package webkit

import (
	"errors"
	"fmt"
	"os"
	"sync"

	webview "github.com/webview/webview_go"
	"go.uber.org/zap"

	"github.com/glacierapp/glacier/internal/content"
	"github.com/glacierapp/glacier/internal/logging"
	"github.com/glacierapp/glacier/internal/loop"
	"github.com/glacierapp/glacier/internal/platform"
	"github.com/glacierapp/glacier/internal/storagepath"
)

// Backend implements platform.Backend.
type Backend struct {
	log *zap.Logger
}

var _ platform.Backend = (*Backend)(nil)

// New returns the native backend. A nil logger discards output.
func New(log *zap.Logger) *Backend {
	return &Backend{log: logging.OrNop(log).Named("webkit")}
}

// NewWindow creates the native window described by spec.
func (b *Backend) NewWindow(spec platform.WindowSpec) (platform.NativeWindow, error) {
	if err := exportStorageEnv(spec.StorageDir); err != nil {
		return nil, err
	}
	return newNativeWindow(spec, b.log)
}

// NewSurface embeds a web view in win, installs the message bridge and
// navigates to the initial content.
func (b *Backend) NewSurface(win platform.NativeWindow, spec platform.SurfaceSpec) (platform.Surface, error) {
	nw, ok := win.(*nativeWindow)
	if !ok {
		return nil, fmt.Errorf("window %d was not created by the webkit backend", win.ID())
	}

	wv, err := nw.embed(spec.DevTools)
	if err != nil {
		return nil, err
	}
	s := &surface{wv: wv, log: b.log}

	if spec.InitScript != "" {
		wv.Init(spec.InitScript)
	}
	if spec.BindingName != "" && spec.OnMessage != nil {
		onMessage := spec.OnMessage
		if err := wv.Bind(spec.BindingName, func(payload string) { onMessage(payload) }); err != nil {
			s.Destroy()
			return nil, fmt.Errorf("failed to bind %s: %w", spec.BindingName, err)
		}
	}
	if spec.Content != nil {
		if err := content.Navigate(s, *spec.Content); err != nil {
			s.Destroy()
			return nil, err
		}
	}
	return s, nil
}

// NewDriver returns the event loop for win. surface must come from the same
// backend.
func (b *Backend) NewDriver(win platform.NativeWindow, surf platform.Surface) (platform.Driver, error) {
	nw, ok := win.(*nativeWindow)
	if !ok {
		return nil, fmt.Errorf("window %d was not created by the webkit backend", win.ID())
	}
	s, ok := surf.(*surface)
	if !ok {
		return nil, errors.New("surface was not created by the webkit backend")
	}
	return &driver{win: nw, wv: s.wv, log: b.log}, nil
}

// EngineVersion reports the web engine's version.
func (b *Backend) EngineVersion() (string, error) {
	return engineVersion()
}

// exportStorageEnv points the engine's data and cache locations into dir.
// It must run before the toolkit initializes.
func exportStorageEnv(dir string) error {
	if dir == "" {
		return nil
	}
	for key, value := range storagepath.EngineEnv(dir) {
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

type surface struct {
	wv  webview.WebView
	log *zap.Logger

	destroyOnce sync.Once
}

func (s *surface) LoadURL(url string) error {
	if url == "" {
		return errors.New("empty url")
	}
	s.wv.Navigate(url)
	return nil
}

func (s *surface) LoadHTML(markup string) error {
	s.wv.SetHtml(markup)
	return nil
}

func (s *surface) Destroy() {
	s.destroyOnce.Do(s.wv.Destroy)
}

// driver runs the web view's main loop. Every callback into the runner
// happens on the loop thread: native events arrive there directly, and
// events from other goroutines go through Dispatch.
type driver struct {
	win *nativeWindow
	wv  webview.WebView
	log *zap.Logger

	handle  func(loop.Event) loop.ControlFlow
	exiting bool

	mu     sync.Mutex
	closed bool
}

func (d *driver) Run(handle func(loop.Event) loop.ControlFlow) error {
	d.handle = handle
	d.win.setCloseHandler(func() {
		d.deliver(loop.Event{Kind: loop.EventCloseRequested})
	})
	stopWatch := d.win.watch(func(ev loop.Event) {
		d.dispatch(func() { d.deliver(ev) })
	}, d.log)

	d.wv.Dispatch(func() { d.deliver(loop.Event{Kind: loop.EventInit}) })
	d.wv.Run()

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	stopWatch()
	d.win.setCloseHandler(nil)

	if !d.exiting {
		// The window went away without going through the runner.
		d.deliver(loop.Event{Kind: loop.EventCloseRequested})
	}
	return nil
}

func (d *driver) deliver(ev loop.Event) {
	if d.exiting {
		return
	}
	if d.handle(ev) == loop.Exit {
		d.exiting = true
		d.wv.Terminate()
	}
}

// dispatch schedules fn on the loop thread unless the loop has ended.
func (d *driver) dispatch(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.wv.Dispatch(fn)
}

func (d *driver) RequestClose() {
	d.dispatch(func() { d.deliver(loop.Event{Kind: loop.EventCloseRequested}) })
}
