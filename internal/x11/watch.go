package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/glacierapp/glacier/internal/loop"
)

// Watcher forwards geometry and focus changes of one window as loop events.
type Watcher struct {
	conn *Connection
	win  xproto.Window

	geometry geometryTracker
	done     chan struct{}
	stopOnce sync.Once
}

// Watch subscribes to structure and focus events of windowID and runs the X
// event loop on its own goroutine. emit is called on that goroutine; callers
// that need events on their UI thread must marshal them there.
//
// The connection is dedicated to the watcher until Stop.
func (c *Connection) Watch(windowID uint32, emit func(loop.Event)) (*Watcher, error) {
	win := xproto.Window(windowID)
	err := xwindow.New(c.XUtil, win).Listen(
		xproto.EventMaskStructureNotify,
		xproto.EventMaskFocusChange,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on window %d: %w", windowID, err)
	}

	w := &Watcher{conn: c, win: win, done: make(chan struct{})}

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		for _, e := range w.geometry.update(int(ev.X), int(ev.Y), int(ev.Width), int(ev.Height)) {
			emit(e)
		}
	}).Connect(c.XUtil, win)

	xevent.FocusInFun(func(xu *xgbutil.XUtil, ev xevent.FocusInEvent) {
		if isFocusChange(ev.Mode, ev.Detail) {
			emit(loop.Event{Kind: loop.EventFocused})
		}
	}).Connect(c.XUtil, win)

	xevent.FocusOutFun(func(xu *xgbutil.XUtil, ev xevent.FocusOutEvent) {
		if isFocusChange(ev.Mode, ev.Detail) {
			emit(loop.Event{Kind: loop.EventUnfocused})
		}
	}).Connect(c.XUtil, win)

	go func() {
		defer close(w.done)
		c.EventLoop()
	}()
	return w, nil
}

// Stop detaches the callbacks and closes the connection, which ends the
// event loop. It waits for the loop goroutine to return.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		xevent.Quit(w.conn.XUtil)
		xevent.Detach(w.conn.XUtil, w.win)
		w.conn.Close()
		<-w.done
	})
}

// isFocusChange filters out the focus events X sends for keyboard grabs and
// pointer-root bookkeeping, which do not change which window is active.
func isFocusChange(mode, detail byte) bool {
	if mode == xproto.NotifyModeGrab || mode == xproto.NotifyModeUngrab {
		return false
	}
	return detail != xproto.NotifyDetailPointer
}

// geometryTracker turns ConfigureNotify snapshots into move/resize events.
// ConfigureNotify fires for stacking changes too, which produce no events.
type geometryTracker struct {
	seen                bool
	x, y, width, height int
}

func (g *geometryTracker) update(x, y, width, height int) []loop.Event {
	var events []loop.Event
	if !g.seen || width != g.width || height != g.height {
		events = append(events, loop.Event{Kind: loop.EventResized, X: x, Y: y, Width: width, Height: height})
	}
	if !g.seen || x != g.x || y != g.y {
		events = append(events, loop.Event{Kind: loop.EventMoved, X: x, Y: y, Width: width, Height: height})
	}
	g.seen = true
	g.x, g.y, g.width, g.height = x, y, width, height
	return events
}
