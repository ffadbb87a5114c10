package window

import (
	"go.uber.org/zap"

	"github.com/glacierapp/glacier/internal/bridge"
	"github.com/glacierapp/glacier/internal/config"
	"github.com/glacierapp/glacier/internal/loop"
	"github.com/glacierapp/glacier/internal/platform"
	"github.com/glacierapp/glacier/internal/storagepath"
)

// Materialize creates the storage context, the native window and its
// surface, registers onMessage as the surface's message handler and runs the
// event loop. It blocks until the loop observes a close request, then tears
// the window and surface down.
//
// Construction failures are returned as *ConstructionError. A window can be
// materialized once; later calls return ErrAlreadyMaterialized.
func (w *Window) Materialize(onMessage bridge.Handler) error {
	w.mu.Lock()
	if w.claimed {
		w.mu.Unlock()
		return ErrAlreadyMaterialized
	}
	w.claimed = true
	opts := w.opts
	w.mu.Unlock()

	storageDir := storagepath.Dir(opts.GetAppName())
	if err := storagepath.Ensure(storageDir); err != nil {
		return w.fail(StageStorage, err)
	}

	native, err := w.backend.NewWindow(windowSpec(opts, storageDir))
	if err != nil {
		return w.fail(StageWindow, err)
	}

	w.bridge = bridge.New(onMessage, w.log)
	spec := platform.SurfaceSpec{
		StorageDir:  storageDir,
		DevTools:    opts.GetDevTools(),
		InitScript:  bridge.Script,
		BindingName: bridge.BindingName,
		OnMessage:   w.bridge.Deliver,
	}
	if req, ok := w.stager.Pending(); ok {
		spec.Content = &req
	}

	surface, err := w.backend.NewSurface(native, spec)
	if err != nil {
		native.Destroy()
		return w.fail(StageSurface, err)
	}
	if _, _, err := w.stager.Attach(surface); err != nil {
		surface.Destroy()
		native.Destroy()
		return w.fail(StageSurface, err)
	}

	driver, err := w.backend.NewDriver(native, surface)
	if err != nil {
		surface.Destroy()
		native.Destroy()
		return w.fail(StageDriver, err)
	}

	w.mu.Lock()
	w.native = native
	w.driver = driver
	w.state = Live
	closePending := w.closePending
	w.closePending = false
	w.mu.Unlock()
	if closePending {
		w.log.Debug("delivering close requested during construction")
		driver.RequestClose()
	}

	w.log.Info("window materialized",
		zap.String("title", opts.GetTitle()),
		zap.Int("width", opts.GetWidth()),
		zap.Int("height", opts.GetHeight()),
		zap.String("storage", storageDir),
		zap.Bool("devtools", opts.GetDevTools()))

	defer func() {
		w.stager.Detach()
		w.mu.Lock()
		w.driver = nil
		w.native = nil
		w.state = Closed
		w.mu.Unlock()
		surface.Destroy()
		native.Destroy()
		w.log.Info("window closed",
			zap.Uint64("messages", w.bridge.Delivered()),
			zap.Uint64("handler_failures", w.bridge.Failed()))
	}()

	runner := loop.NewRunner(driver, append([]loop.Option{loop.WithLogger(w.log)}, w.loopOps...)...)
	return runner.Run()
}

func (w *Window) fail(stage Stage, err error) error {
	w.stager.Detach()
	w.mu.Lock()
	w.state = Closed
	w.closePending = false
	w.mu.Unlock()
	w.log.Error("window construction failed", zap.String("stage", string(stage)), zap.Error(err))
	return &ConstructionError{Stage: stage, Err: err}
}

func windowSpec(opts config.Options, storageDir string) platform.WindowSpec {
	spec := platform.WindowSpec{
		Title:      opts.GetTitle(),
		Size:       platform.Size{Width: opts.GetWidth(), Height: opts.GetHeight()},
		Resizable:  opts.GetResizable(),
		Visible:    opts.GetShow(),
		Frame:      opts.GetFrame(),
		Icon:       opts.GetIcon(),
		StorageDir: storageDir,
	}
	if x, y, ok := opts.GetPosition(); ok {
		spec.Position = &platform.Point{X: x, Y: y}
	}
	if mw, mh, ok := opts.GetMinSize(); ok {
		spec.MinSize = &platform.Size{Width: mw, Height: mh}
	}
	if mw, mh, ok := opts.GetMaxSize(); ok {
		spec.MaxSize = &platform.Size{Width: mw, Height: mh}
	}
	return spec
}
