// Package bridge carries messages raised by page content inside the web
// surface to a single host-supplied handler.
package bridge

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/glacierapp/glacier/internal/logging"
)

// BindingName is the native function the page-side shim calls.
const BindingName = "__glacier_ipc"

// Script is injected into every page before its own scripts run. It exposes
// window.ipc.postMessage(msg), which stringifies msg and hands it to the
// host.
const Script = `(function () {
  if (window.ipc && window.ipc.__glacier) { return; }
  window.ipc = Object.freeze({
    __glacier: true,
    postMessage: function (msg) {
      return window.` + BindingName + `(String(msg));
    }
  });
})();`

// Handler receives one message payload. It runs on the event-loop thread and
// blocks surface processing until it returns.
type Handler func(payload string)

// Bridge is a single-slot message channel from surface to host.
//
// Deliver recovers handler panics and logs them, so a failing handler never
// takes the event loop down.
type Bridge struct {
	handler Handler
	log     *zap.Logger

	delivered atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
}

// New creates a bridge for handler. A nil handler drops every message.
func New(handler Handler, log *zap.Logger) *Bridge {
	return &Bridge{handler: handler, log: logging.OrNop(log)}
}

// Deliver invokes the handler with payload, synchronously, on the calling
// goroutine. Messages are delivered in the order the surface raises them.
func (b *Bridge) Deliver(payload string) {
	if b.handler == nil {
		b.dropped.Add(1)
		b.log.Debug("message dropped, no handler registered", zap.Int("bytes", len(payload)))
		return
	}
	if err := b.invoke(payload); err != nil {
		b.failed.Add(1)
		b.log.Error("message handler failed", zap.Error(err), zap.Int("bytes", len(payload)))
		return
	}
	b.delivered.Add(1)
}

func (b *Bridge) invoke(payload string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	b.handler(payload)
	return nil
}

// Delivered returns the number of messages the handler accepted.
func (b *Bridge) Delivered() uint64 { return b.delivered.Load() }

// Failed returns the number of messages whose handler panicked.
func (b *Bridge) Failed() uint64 { return b.failed.Load() }

// Dropped returns the number of messages received with no handler.
func (b *Bridge) Dropped() uint64 { return b.dropped.Load() }
