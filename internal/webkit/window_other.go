//go:build !linux

package webkit

import (
	"fmt"

	webview "github.com/webview/webview_go"
	"go.uber.org/zap"

	"github.com/glacierapp/glacier/internal/loop"
	"github.com/glacierapp/glacier/internal/platform"
)

// nativeWindow is the window webview_go creates for its view. Until the
// surface exists it only holds the spec.
type nativeWindow struct {
	spec platform.WindowSpec
	log  *zap.Logger
	wv   webview.WebView
}

func newNativeWindow(spec platform.WindowSpec, log *zap.Logger) (*nativeWindow, error) {
	return &nativeWindow{spec: spec, log: log}, nil
}

func (w *nativeWindow) ID() platform.WindowID { return 0 }

func (w *nativeWindow) SetTitle(title string) error {
	if w.wv == nil {
		w.spec.Title = title
		return nil
	}
	w.wv.SetTitle(title)
	return nil
}

func (w *nativeWindow) embed(devtools bool) (webview.WebView, error) {
	wv := webview.New(devtools)
	if wv == nil {
		return nil, fmt.Errorf("failed to create web view")
	}
	w.wv = wv

	wv.SetTitle(w.spec.Title)
	hint := webview.HintNone
	if !w.spec.Resizable {
		hint = webview.HintFixed
	}
	wv.SetSize(w.spec.Size.Width, w.spec.Size.Height, hint)
	if w.spec.Resizable {
		if s := w.spec.MinSize; s != nil {
			wv.SetSize(s.Width, s.Height, webview.HintMin)
		}
		if s := w.spec.MaxSize; s != nil {
			wv.SetSize(s.Width, s.Height, webview.HintMax)
		}
	}

	if w.spec.Position != nil {
		w.log.Warn("window position not supported on this platform")
	}
	if !w.spec.Frame {
		w.log.Warn("frameless windows not supported on this platform")
	}
	if w.spec.Icon != "" {
		w.log.Warn("window icon not supported on this platform", zap.String("icon", w.spec.Icon))
	}
	if !w.spec.Visible {
		w.log.Warn("hidden windows not supported on this platform")
	}
	return wv, nil
}

func (w *nativeWindow) watch(func(loop.Event), *zap.Logger) func() { return func() {} }

// The engine closes its own window; the driver sees Run return.
func (w *nativeWindow) setCloseHandler(func()) {}

func (w *nativeWindow) Destroy() { w.wv = nil }

func engineVersion() (string, error) {
	return "unknown", platform.ErrUnsupported
}
