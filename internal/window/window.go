// Package window stages configuration and content for a native window with an
// embedded web surface, then materializes both and runs the event loop that
// owns them.
package window

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/glacierapp/glacier/internal/bridge"
	"github.com/glacierapp/glacier/internal/config"
	"github.com/glacierapp/glacier/internal/content"
	"github.com/glacierapp/glacier/internal/loop"
	"github.com/glacierapp/glacier/internal/platform"
)

// State is the lifecycle position of a Window.
type State int

const (
	Unmaterialized State = iota
	Live
	Closed
)

func (s State) String() string {
	switch s {
	case Unmaterialized:
		return "unmaterialized"
	case Live:
		return "live"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Window owns a window configuration, the staged content, and once
// materialized, the native window and surface handles.
//
// Before Materialize every method may be called from any single goroutine.
// Materialize blocks its thread for the window's lifetime; afterwards
// SetTitle, LoadURL and LoadHTML must be called on that thread (typically
// from the message handler). RequestClose is the only method safe to call
// from other goroutines.
type Window struct {
	id      string
	backend platform.Backend
	log     *zap.Logger
	loopOps []loop.Option

	stager content.Stager
	bridge *bridge.Bridge

	mu      sync.Mutex
	opts    config.Options
	native  platform.NativeWindow
	claimed bool
	state   State
	driver  platform.Driver
	// closePending records a RequestClose that arrived while Materialize was
	// still constructing the driver.
	closePending bool
}

// Option configures a Window.
type Option func(*Window)

// WithLogger sets the logger. Log lines carry the window's id.
func WithLogger(l *zap.Logger) Option {
	return func(w *Window) {
		if l != nil {
			w.log = l
		}
	}
}

// WithEventObserver registers fn to see every event the loop delivers.
func WithEventObserver(fn func(loop.Event)) Option {
	return func(w *Window) {
		w.loopOps = append(w.loopOps, loop.WithObserver(fn))
	}
}

// New returns an unmaterialized window. Absent options resolve to
// config.Defaults now, not when the window is materialized.
func New(backend platform.Backend, opts *config.Options, options ...Option) *Window {
	w := &Window{
		id:      uuid.New().String(),
		backend: backend,
		log:     zap.NewNop(),
		opts:    config.Resolve(opts),
	}
	for _, opt := range options {
		opt(w)
	}
	w.log = w.log.With(zap.String("window", w.id))
	return w
}

// ID identifies the window in logs.
func (w *Window) ID() string { return w.id }

// Options returns a copy of the window's current options.
func (w *Window) Options() config.Options {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opts.Clone()
}

// Update mutates the options before materialization.
func (w *Window) Update(fn func(*config.Options)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.claimed {
		return ErrFrozen
	}
	fn(&w.opts)
	return nil
}

// State reports where the window is in its lifecycle.
func (w *Window) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Pending returns the content staged for materialization, if any.
func (w *Window) Pending() (content.Request, bool) {
	return w.stager.Pending()
}

// Bridge returns the message bridge, or nil before Materialize.
func (w *Window) Bridge() *bridge.Bridge { return w.bridge }

// SetTitle records title in the options. On a live window it is also
// applied to the native window immediately.
func (w *Window) SetTitle(title string) error {
	w.mu.Lock()
	w.opts.Title = config.String(title)
	native := w.native
	w.mu.Unlock()
	if native == nil {
		return nil
	}
	if err := native.SetTitle(title); err != nil {
		return fmt.Errorf("set title: %w", err)
	}
	return nil
}

// LoadURL stages url for materialization, replacing anything staged, or
// navigates the live surface to it. Only forwarding can fail; the error is a
// *content.NavigationError and the window stays live. Once the window has
// closed, or a Materialize attempt failed, it returns content.ErrClosed.
func (w *Window) LoadURL(url string) error {
	return w.stager.LoadURL(url)
}

// LoadHTML stages or renders inline markup, like LoadURL.
func (w *Window) LoadHTML(markup string) error {
	return w.stager.LoadHTML(markup)
}

// RequestClose asks a live window to close. The close request is delivered
// on the event-loop thread and Materialize returns once it is handled. A
// request made while Materialize is still building the window is delivered
// as soon as the loop exists. It does nothing before Materialize or after the
// window closed.
func (w *Window) RequestClose() {
	w.mu.Lock()
	driver := w.driver
	if driver == nil && w.claimed && w.state == Unmaterialized {
		w.closePending = true
	}
	w.mu.Unlock()
	if driver != nil {
		driver.RequestClose()
	}
}

// EngineVersion returns the version of the backend's rendering engine.
func EngineVersion(backend platform.Backend) (string, error) {
	return backend.EngineVersion()
}
