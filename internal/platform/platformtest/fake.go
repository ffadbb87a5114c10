// Package platformtest provides an in-memory platform.Backend whose event
// loop is scripted, for testing window lifecycles without a display.
package platformtest

import (
	"errors"
	"sync"

	"github.com/glacierapp/glacier/internal/content"
	"github.com/glacierapp/glacier/internal/loop"
	"github.com/glacierapp/glacier/internal/platform"
)

// Backend is a fake platform.Backend. Set the Fail* fields to inject
// construction failures.
type Backend struct {
	FailWindow  error
	FailSurface error
	FailDriver  error
	Version     string

	// Script is played by every driver. When it runs out without a close
	// request the driver blocks until RequestClose.
	Script []loop.Event
	// OnEvent runs on the loop goroutine before each scripted event reaches
	// the runner, with the window and surface the driver belongs to.
	OnEvent func(ev loop.Event, win *Window, surface *Surface)

	mu       sync.Mutex
	Windows  []*Window
	Surfaces []*Surface
	Drivers  []*Driver
}

var _ platform.Backend = (*Backend)(nil)

// NewBackend returns a fake whose drivers deliver an init tick followed by a
// close request.
func NewBackend() *Backend {
	return &Backend{
		Version: "fake-engine 1.0",
		Script:  []loop.Event{{Kind: loop.EventInit}, {Kind: loop.EventCloseRequested}},
	}
}

func (b *Backend) NewWindow(spec platform.WindowSpec) (platform.NativeWindow, error) {
	if b.FailWindow != nil {
		return nil, b.FailWindow
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	w := &Window{id: platform.WindowID(len(b.Windows) + 1), Spec: spec, Titles: []string{spec.Title}}
	b.Windows = append(b.Windows, w)
	return w, nil
}

func (b *Backend) NewSurface(win platform.NativeWindow, spec platform.SurfaceSpec) (platform.Surface, error) {
	if b.FailSurface != nil {
		return nil, b.FailSurface
	}
	w, ok := win.(*Window)
	if !ok {
		return nil, errors.New("platformtest: foreign window")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &Surface{Window: w, Spec: spec}
	if spec.Content != nil {
		s.Initial = spec.Content
	}
	b.Surfaces = append(b.Surfaces, s)
	return s, nil
}

func (b *Backend) NewDriver(win platform.NativeWindow, surface platform.Surface) (platform.Driver, error) {
	if b.FailDriver != nil {
		return nil, b.FailDriver
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	d := &Driver{
		backend: b,
		win:     win.(*Window),
		surface: surface.(*Surface),
		script:  append([]loop.Event(nil), b.Script...),
		closeCh: make(chan struct{}, 1),
	}
	b.Drivers = append(b.Drivers, d)
	return d, nil
}

func (b *Backend) EngineVersion() (string, error) {
	if b.Version == "" {
		return "", platform.ErrUnsupported
	}
	return b.Version, nil
}

// LastWindow returns the most recently created window, or nil.
func (b *Backend) LastWindow() *Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.Windows) == 0 {
		return nil
	}
	return b.Windows[len(b.Windows)-1]
}

// LastSurface returns the most recently created surface, or nil.
func (b *Backend) LastSurface() *Surface {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.Surfaces) == 0 {
		return nil
	}
	return b.Surfaces[len(b.Surfaces)-1]
}

// Window is a fake native window.
type Window struct {
	id        platform.WindowID
	Spec      platform.WindowSpec
	Titles    []string
	TitleErr  error
	Destroyed bool
}

func (w *Window) ID() platform.WindowID { return w.id }

func (w *Window) SetTitle(title string) error {
	if w.TitleErr != nil {
		return w.TitleErr
	}
	w.Titles = append(w.Titles, title)
	return nil
}

// Title returns the current title.
func (w *Window) Title() string {
	if len(w.Titles) == 0 {
		return ""
	}
	return w.Titles[len(w.Titles)-1]
}

func (w *Window) Destroy() { w.Destroyed = true }

// Surface is a fake web surface. Initial is the content it was created with;
// Navigations records every later LoadURL/LoadHTML.
type Surface struct {
	Window      *Window
	Spec        platform.SurfaceSpec
	Initial     *content.Request
	Navigations []content.Request
	NavErr      error
	Destroyed   bool
}

func (s *Surface) LoadURL(url string) error {
	if s.NavErr != nil {
		return s.NavErr
	}
	s.Navigations = append(s.Navigations, content.URL(url))
	return nil
}

func (s *Surface) LoadHTML(markup string) error {
	if s.NavErr != nil {
		return s.NavErr
	}
	s.Navigations = append(s.Navigations, content.HTML(markup))
	return nil
}

// Emit raises a message from page content, as window.ipc.postMessage would.
func (s *Surface) Emit(payload string) {
	if s.Spec.OnMessage != nil {
		s.Spec.OnMessage(payload)
	}
}

func (s *Surface) Destroy() { s.Destroyed = true }

// Driver plays the backend's script on the goroutine that calls Run.
type Driver struct {
	backend *Backend
	win     *Window
	surface *Surface
	script  []loop.Event
	closeCh chan struct{}

	Delivered []loop.Event
}

func (d *Driver) Run(handle func(loop.Event) loop.ControlFlow) error {
	for _, ev := range d.script {
		if d.deliver(handle, ev) == loop.Exit {
			return nil
		}
	}
	for range d.closeCh {
		if d.deliver(handle, loop.Event{Kind: loop.EventCloseRequested}) == loop.Exit {
			return nil
		}
	}
	return nil
}

func (d *Driver) deliver(handle func(loop.Event) loop.ControlFlow, ev loop.Event) loop.ControlFlow {
	if d.backend.OnEvent != nil {
		d.backend.OnEvent(ev, d.win, d.surface)
	}
	d.Delivered = append(d.Delivered, ev)
	return handle(ev)
}

// RequestClose is safe to call from any goroutine.
func (d *Driver) RequestClose() {
	select {
	case d.closeCh <- struct{}{}:
	default:
	}
}
