// Package x11 applies the window-manager hints glacier needs on top of a
// toolkit-created window (position, frame, icon, size bounds) and watches the
// window for geometry and focus changes.
package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection is one client connection to the display server. Hints are sent
// on it and a Watcher reads the window's events from it.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	closeOnce sync.Once
}

// NewConnection dials the display named by $DISPLAY.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X display: %w", err)
	}
	return &Connection{XUtil: xu, Root: xu.RootWin()}, nil
}

// EventLoop dispatches events to the callbacks connected on this connection
// until Close. It blocks.
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Close disconnects. It may be called more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() { c.XUtil.Conn().Close() })
}
