// Package platform is the contract between a window and the native toolkit
// that creates it, its web surface and its event loop.
package platform

import (
	"errors"

	"github.com/glacierapp/glacier/internal/content"
	"github.com/glacierapp/glacier/internal/loop"
)

// ErrUnsupported is returned for operations a backend cannot perform on the
// current platform.
var ErrUnsupported = errors.New("not supported on this platform")

// WindowID is a platform-neutral native window identifier (an X11 window id
// on linux, 0 where the platform has no numeric id).
type WindowID uint32

// Point is a position in logical screen coordinates.
type Point struct {
	X int
	Y int
}

// Size is a width/height pair in logical pixels.
type Size struct {
	Width  int
	Height int
}

// WindowSpec describes the native window to create. Values are passed
// through unvalidated; the window system decides what odd geometry means.
type WindowSpec struct {
	Title     string
	Size      Size
	Position  *Point
	MinSize   *Size
	MaxSize   *Size
	Resizable bool
	Visible   bool
	Frame     bool
	Icon      string

	// StorageDir is the storage context the window's surface will use.
	// Backends whose toolkit fixes data locations at init apply it here.
	StorageDir string
}

// SurfaceSpec describes the embedded web surface to attach to a window.
type SurfaceSpec struct {
	StorageDir string
	DevTools   bool

	// Content is navigated to once the surface exists. Nil shows a blank page.
	Content *content.Request

	// InitScript runs in every page before the page's own scripts.
	InitScript string
	// BindingName is the page-visible function that raises messages.
	BindingName string
	// OnMessage receives each message on the event-loop thread.
	OnMessage func(payload string)
}

// NativeWindow is a live native window.
type NativeWindow interface {
	ID() WindowID
	SetTitle(title string) error
	Destroy()
}

// Surface is a live embedded web surface. LoadURL and LoadHTML must be
// called on the event-loop thread.
type Surface interface {
	content.Navigator
	Destroy()
}

// Driver is a platform event loop bound to one window. RequestClose may be
// called from any goroutine; it delivers a close request on the loop thread.
type Driver interface {
	loop.Driver
	RequestClose()
}

// Backend creates native windows, surfaces and their event loop.
type Backend interface {
	NewWindow(spec WindowSpec) (NativeWindow, error)
	NewSurface(win NativeWindow, spec SurfaceSpec) (Surface, error)
	NewDriver(win NativeWindow, surface Surface) (Driver, error)
	// EngineVersion reports the rendering engine's version string.
	EngineVersion() (string, error)
}
