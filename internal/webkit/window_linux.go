package webkit

import (
	"fmt"
	"runtime/cgo"
	"unsafe"

	webview "github.com/webview/webview_go"
	"go.uber.org/zap"

	"github.com/glacierapp/glacier/internal/icon"
	"github.com/glacierapp/glacier/internal/loop"
	"github.com/glacierapp/glacier/internal/platform"
	"github.com/glacierapp/glacier/internal/x11"
)

// nativeWindow is a GtkWindow. On an X11 display its hints (frame, icon,
// size bounds, position) are applied through a dedicated X connection,
// which later carries the geometry and focus watch.
type nativeWindow struct {
	spec   platform.WindowSpec
	log    *zap.Logger
	gtk    unsafe.Pointer
	handle cgo.Handle
	xid    uint32
	conn   *x11.Connection

	onClose   func()
	destroyed bool
}

func newNativeWindow(spec platform.WindowSpec, log *zap.Logger) (*nativeWindow, error) {
	if err := gtkInit(); err != nil {
		return nil, err
	}

	w := &nativeWindow{spec: spec, log: log}
	w.handle = cgo.NewHandle(w)
	w.gtk = gtkWindowNew(spec.Title, spec.Size.Width, spec.Size.Height, spec.Resizable, w.handle)
	if w.gtk == nil {
		w.handle.Delete()
		return nil, fmt.Errorf("gtk_window_new returned no window")
	}

	w.xid = gtkWindowXID(w.gtk)
	if w.xid == 0 {
		log.Warn("display is not X11, window hints limited to what GTK offers")
		gtkWindowSetDecorated(w.gtk, spec.Frame)
		if spec.Icon != "" {
			log.Warn("window icon not supported on this display", zap.String("icon", spec.Icon))
		}
		return w, nil
	}

	conn, err := x11.NewConnection()
	if err != nil {
		log.Warn("failed to connect to X11, window hints skipped", zap.Error(err))
		gtkWindowSetDecorated(w.gtk, spec.Frame)
		return w, nil
	}
	w.conn = conn
	w.applyHints()
	return w, nil
}

// applyHints sets the properties the window manager reads when the window
// is mapped. Failures only cost the hint.
func (w *nativeWindow) applyHints() {
	if !w.spec.Frame {
		if err := w.conn.SetDecorated(w.xid, false); err != nil {
			w.log.Warn("failed to remove window frame", zap.Error(err))
		}
	}
	if w.spec.Icon != "" {
		if err := w.setIcon(w.spec.Icon); err != nil {
			w.log.Warn("failed to set window icon", zap.String("icon", w.spec.Icon), zap.Error(err))
		}
	}
	if err := w.conn.SetSizeHints(w.xid, toX11Size(w.spec.MinSize), toX11Size(w.spec.MaxSize)); err != nil {
		w.log.Warn("failed to set size bounds", zap.Error(err))
	}
}

func (w *nativeWindow) setIcon(path string) error {
	img, err := icon.Load(path)
	if err != nil {
		return err
	}
	return w.conn.SetIcon(w.xid, x11.Icon{Width: img.Width, Height: img.Height, ARGB: img.ARGB})
}

func toX11Size(s *platform.Size) *x11.Size {
	if s == nil {
		return nil
	}
	return &x11.Size{Width: s.Width, Height: s.Height}
}

func (w *nativeWindow) ID() platform.WindowID { return platform.WindowID(w.xid) }

func (w *nativeWindow) SetTitle(title string) error {
	if w.destroyed {
		return fmt.Errorf("window destroyed")
	}
	gtkWindowSetTitle(w.gtk, title)
	return nil
}

// embed creates the web view inside the window and applies the size, show
// and position settings. webview shows the window when it attaches.
func (w *nativeWindow) embed(devtools bool) (webview.WebView, error) {
	wv := webview.NewWindow(devtools, w.gtk)
	if wv == nil {
		return nil, fmt.Errorf("failed to create web view")
	}
	wv.SetSize(w.spec.Size.Width, w.spec.Size.Height, webview.HintNone)
	if !w.spec.Resizable {
		wv.SetSize(w.spec.Size.Width, w.spec.Size.Height, webview.HintFixed)
	} else {
		if s := w.spec.MinSize; s != nil {
			wv.SetSize(s.Width, s.Height, webview.HintMin)
		}
		if s := w.spec.MaxSize; s != nil {
			wv.SetSize(s.Width, s.Height, webview.HintMax)
		}
		if w.conn != nil && w.spec.MinSize != nil && w.spec.MaxSize != nil {
			// GTK keeps only the last geometry hint; publish both bounds again.
			if err := w.conn.SetSizeHints(w.xid, toX11Size(w.spec.MinSize), toX11Size(w.spec.MaxSize)); err != nil {
				w.log.Warn("failed to set size bounds", zap.Error(err))
			}
		}
	}

	if w.spec.Visible {
		gtkWidgetShow(w.gtk)
	} else {
		gtkWidgetHide(w.gtk)
	}
	w.move()
	return wv, nil
}

func (w *nativeWindow) move() {
	p := w.spec.Position
	if p == nil {
		return
	}
	if w.conn == nil {
		gtkWindowMove(w.gtk, p.X, p.Y)
		return
	}
	if err := w.conn.MoveWindow(w.xid, p.X, p.Y); err != nil {
		w.log.Warn("failed to position window", zap.Error(err))
	}
}

// watch forwards X11 geometry and focus events to emit until the returned
// stop function is called. The X connection is owned by the watcher from
// here on.
func (w *nativeWindow) watch(emit func(loop.Event), log *zap.Logger) func() {
	if w.conn == nil {
		return func() {}
	}
	conn := w.conn
	w.conn = nil
	watcher, err := conn.Watch(w.xid, emit)
	if err != nil {
		log.Warn("window events unavailable", zap.Error(err))
		conn.Close()
		return func() {}
	}
	return watcher.Stop
}

func (w *nativeWindow) setCloseHandler(fn func()) { w.onClose = fn }

// requestClose is the window manager's close button. It reports whether the
// request was taken over; if not, GTK destroys the window.
func (w *nativeWindow) requestClose() bool {
	if w.onClose == nil {
		return false
	}
	w.onClose()
	return true
}

// markDestroyed records that GTK destroyed the window. While the loop runs
// this ends it like a close request.
func (w *nativeWindow) markDestroyed() {
	w.destroyed = true
	if w.onClose != nil {
		w.onClose()
	}
}

func (w *nativeWindow) Destroy() {
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	if !w.destroyed {
		gtkWidgetDestroy(w.gtk)
	}
	if w.handle != 0 {
		w.handle.Delete()
		w.handle = 0
	}
}
