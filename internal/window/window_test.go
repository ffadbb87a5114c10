package window

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glacierapp/glacier/internal/bridge"
	"github.com/glacierapp/glacier/internal/config"
	"github.com/glacierapp/glacier/internal/content"
	"github.com/glacierapp/glacier/internal/loop"
	"github.com/glacierapp/glacier/internal/platform"
	"github.com/glacierapp/glacier/internal/platform/platformtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWindow(t *testing.T, opts *config.Options) (*Window, *platformtest.Backend) {
	t.Helper()
	t.Setenv("TMPDIR", t.TempDir())
	backend := platformtest.NewBackend()
	return New(backend, opts), backend
}

func TestMaterialize_DefaultSizeWhenAbsent(t *testing.T) {
	w, backend := newTestWindow(t, &config.Options{Title: config.String("no size")})

	require.NoError(t, w.Materialize(nil))

	spec := backend.LastWindow().Spec
	assert.Equal(t, platform.Size{Width: 800, Height: 600}, spec.Size)
}

func TestMaterialize_NilOptionsUseDefaults(t *testing.T) {
	w, backend := newTestWindow(t, nil)

	require.NoError(t, w.Materialize(nil))

	spec := backend.LastWindow().Spec
	assert.Equal(t, config.DefaultAppName, spec.Title)
	assert.Equal(t, platform.Size{Width: 800, Height: 600}, spec.Size)
	assert.True(t, spec.Resizable)
	assert.True(t, spec.Visible)
	assert.True(t, spec.Frame)
	assert.Nil(t, spec.Position)
	assert.False(t, backend.LastSurface().Spec.DevTools)
}

func TestMaterialize_PassesGeometryThrough(t *testing.T) {
	w, backend := newTestWindow(t, &config.Options{
		X:         config.Int(10),
		Y:         config.Int(20),
		MinWidth:  config.Int(900),
		MaxWidth:  config.Int(100),
		Resizable: config.Bool(false),
		Frame:     config.Bool(false),
		Show:      config.Bool(false),
		Icon:      config.String("/icons/app.png"),
	})

	require.NoError(t, w.Materialize(nil))

	spec := backend.LastWindow().Spec
	require.NotNil(t, spec.Position)
	assert.Equal(t, platform.Point{X: 10, Y: 20}, *spec.Position)
	require.NotNil(t, spec.MinSize)
	require.NotNil(t, spec.MaxSize)
	// min > max is not rejected.
	assert.Equal(t, 900, spec.MinSize.Width)
	assert.Equal(t, 100, spec.MaxSize.Width)
	assert.False(t, spec.Resizable)
	assert.False(t, spec.Frame)
	assert.False(t, spec.Visible)
	assert.Equal(t, "/icons/app.png", spec.Icon)
}

func TestStaging_LastWriteWins(t *testing.T) {
	t.Run("url then html", func(t *testing.T) {
		w, backend := newTestWindow(t, nil)
		require.NoError(t, w.LoadURL("https://example.com"))
		require.NoError(t, w.LoadHTML("<h1>hi</h1>"))

		req, ok := w.Pending()
		require.True(t, ok)
		assert.Equal(t, content.HTML("<h1>hi</h1>"), req)

		require.NoError(t, w.Materialize(nil))
		require.NotNil(t, backend.LastSurface().Initial)
		assert.Equal(t, content.HTML("<h1>hi</h1>"), *backend.LastSurface().Initial)
	})

	t.Run("html then url", func(t *testing.T) {
		w, backend := newTestWindow(t, nil)
		require.NoError(t, w.LoadHTML("<h1>hi</h1>"))
		require.NoError(t, w.LoadURL("https://example.com"))

		require.NoError(t, w.Materialize(nil))
		require.NotNil(t, backend.LastSurface().Initial)
		assert.Equal(t, content.URL("https://example.com"), *backend.LastSurface().Initial)
	})
}

func TestMaterialize_NoContentStaged(t *testing.T) {
	w, backend := newTestWindow(t, nil)

	require.NoError(t, w.Materialize(nil))
	assert.Nil(t, backend.LastSurface().Initial)
}

func TestSetTitle_BeforeMaterializeUsesLastValue(t *testing.T) {
	w, backend := newTestWindow(t, &config.Options{Title: config.String("constructor")})
	require.NoError(t, w.SetTitle("first"))
	require.NoError(t, w.SetTitle("second"))

	require.NoError(t, w.Materialize(nil))

	assert.Equal(t, "second", backend.LastWindow().Spec.Title)
	assert.Equal(t, []string{"second"}, backend.LastWindow().Titles)
}

func TestSetTitle_LiveForwardsToNativeWindow(t *testing.T) {
	w, backend := newTestWindow(t, nil)
	backend.OnEvent = func(ev loop.Event, win *platformtest.Window, _ *platformtest.Surface) {
		if ev.Kind == loop.EventInit {
			require.NoError(t, w.SetTitle("live title"))
		}
	}

	require.NoError(t, w.Materialize(nil))

	assert.Equal(t, "live title", backend.LastWindow().Title())
	assert.Equal(t, "live title", w.Options().GetTitle())
}

func TestSetTitle_LiveErrorIsReturned(t *testing.T) {
	w, backend := newTestWindow(t, nil)
	boom := errors.New("no title bar")
	var got error
	backend.OnEvent = func(ev loop.Event, win *platformtest.Window, _ *platformtest.Surface) {
		if ev.Kind == loop.EventInit {
			win.TitleErr = boom
			got = w.SetTitle("x")
		}
	}

	require.NoError(t, w.Materialize(nil))
	assert.True(t, errors.Is(got, boom))
}

func TestLoadURL_LiveNavigatesWithoutStaging(t *testing.T) {
	w, backend := newTestWindow(t, nil)
	require.NoError(t, w.LoadHTML("<p>initial</p>"))

	var pendingDuringLoop bool
	backend.OnEvent = func(ev loop.Event, _ *platformtest.Window, _ *platformtest.Surface) {
		if ev.Kind == loop.EventInit {
			require.NoError(t, w.LoadURL("https://example.com/next"))
			_, pendingDuringLoop = w.Pending()
		}
	}

	require.NoError(t, w.Materialize(nil))

	surface := backend.LastSurface()
	assert.Equal(t, []content.Request{content.URL("https://example.com/next")}, surface.Navigations)
	assert.Equal(t, content.HTML("<p>initial</p>"), *surface.Initial)
	assert.False(t, pendingDuringLoop)
}

func TestLoadHTML_LiveNavigationErrorIsRecoverable(t *testing.T) {
	w, backend := newTestWindow(t, nil)
	boom := errors.New("engine busy")

	var first, second error
	backend.OnEvent = func(ev loop.Event, _ *platformtest.Window, s *platformtest.Surface) {
		if ev.Kind == loop.EventInit {
			s.NavErr = boom
			first = w.LoadHTML("<p>a</p>")
			s.NavErr = nil
			second = w.LoadHTML("<p>b</p>")
		}
	}

	require.NoError(t, w.Materialize(nil))

	var navErr *content.NavigationError
	require.True(t, errors.As(first, &navErr))
	assert.True(t, errors.Is(first, boom))
	assert.NoError(t, second)
	assert.Equal(t, []content.Request{content.HTML("<p>b</p>")}, backend.LastSurface().Navigations)
}

func TestMaterialize_StorageDirIsPureFunctionOfAppName(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	backend := platformtest.NewBackend()
	first := New(backend, &config.Options{AppName: config.String("notes")})
	require.NoError(t, first.Materialize(nil))
	second := New(backend, &config.Options{AppName: config.String("notes"), Title: config.String("other")})
	require.NoError(t, second.Materialize(nil))

	require.Len(t, backend.Surfaces, 2)
	want := filepath.Join(tmp, "notes")
	assert.Equal(t, want, backend.Surfaces[0].Spec.StorageDir)
	assert.Equal(t, want, backend.Surfaces[1].Spec.StorageDir)
	assert.Equal(t, want, backend.Windows[0].Spec.StorageDir)
	assert.DirExists(t, want)
}

func TestMaterialize_TwiceFailsDeterministically(t *testing.T) {
	w, backend := newTestWindow(t, nil)
	require.NoError(t, w.Materialize(nil))

	err := w.Materialize(nil)
	assert.True(t, errors.Is(err, ErrAlreadyMaterialized))
	assert.Len(t, backend.Windows, 1, "second call must not touch the backend")
}

func TestMaterialize_ReentrantCallFromHandlerFails(t *testing.T) {
	w, backend := newTestWindow(t, nil)
	var inner error
	backend.OnEvent = func(ev loop.Event, _ *platformtest.Window, s *platformtest.Surface) {
		if ev.Kind == loop.EventInit {
			s.Emit("again")
		}
	}

	require.NoError(t, w.Materialize(func(string) { inner = w.Materialize(nil) }))
	assert.True(t, errors.Is(inner, ErrAlreadyMaterialized))
}

func TestMaterialize_ConstructionFailures(t *testing.T) {
	boom := errors.New("no display")
	for _, tc := range []struct {
		name  string
		setup func(b *platformtest.Backend)
		stage Stage
	}{
		{"window", func(b *platformtest.Backend) { b.FailWindow = boom }, StageWindow},
		{"surface", func(b *platformtest.Backend) { b.FailSurface = boom }, StageSurface},
		{"driver", func(b *platformtest.Backend) { b.FailDriver = boom }, StageDriver},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w, backend := newTestWindow(t, nil)
			tc.setup(backend)

			err := w.Materialize(nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConstruction))
			assert.True(t, errors.Is(err, boom))

			var cerr *ConstructionError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tc.stage, cerr.Stage)
			assert.Equal(t, Closed, w.State())

			for _, win := range backend.Windows {
				assert.True(t, win.Destroyed, "partially built window must be destroyed")
			}
			for _, s := range backend.Surfaces {
				assert.True(t, s.Destroyed, "partially built surface must be destroyed")
			}

			assert.True(t, errors.Is(w.Materialize(nil), ErrAlreadyMaterialized))
		})
	}
}

func TestMaterialize_StorageFailure(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)
	// A regular file where the storage directory should go.
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "blocked"), nil, 0644))

	backend := platformtest.NewBackend()
	w := New(backend, &config.Options{AppName: config.String("blocked/app")})

	err := w.Materialize(nil)
	var cerr *ConstructionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, StageStorage, cerr.Stage)
	assert.Empty(t, backend.Windows)
}

func TestMaterialize_MessagesReachHandlerInOrder(t *testing.T) {
	w, backend := newTestWindow(t, nil)
	backend.OnEvent = func(ev loop.Event, _ *platformtest.Window, s *platformtest.Surface) {
		if ev.Kind == loop.EventInit {
			s.Emit("ping")
			s.Emit("boom")
			s.Emit("pong")
		}
	}

	var got []string
	err := w.Materialize(func(payload string) {
		if payload == "boom" {
			panic("host bug")
		}
		got = append(got, payload)
	})

	require.NoError(t, err, "a panicking handler must not end the loop")
	assert.Equal(t, []string{"ping", "pong"}, got)
	assert.EqualValues(t, 2, w.Bridge().Delivered())
	assert.EqualValues(t, 1, w.Bridge().Failed())

	spec := backend.LastSurface().Spec
	assert.Equal(t, bridge.Script, spec.InitScript)
	assert.Equal(t, bridge.BindingName, spec.BindingName)
}

func TestMaterialize_TearsDownAfterLoop(t *testing.T) {
	w, backend := newTestWindow(t, nil)
	var during State
	backend.OnEvent = func(ev loop.Event, _ *platformtest.Window, _ *platformtest.Surface) {
		during = w.State()
	}

	require.NoError(t, w.Materialize(nil))

	assert.Equal(t, Live, during)
	assert.Equal(t, Closed, w.State())
	assert.True(t, backend.LastWindow().Destroyed)
	assert.True(t, backend.LastSurface().Destroyed)
}

func TestUpdate_FrozenAfterMaterialize(t *testing.T) {
	w, _ := newTestWindow(t, nil)
	require.NoError(t, w.Update(func(o *config.Options) { o.Width = config.Int(1024) }))
	assert.Equal(t, 1024, w.Options().GetWidth())

	require.NoError(t, w.Materialize(nil))
	assert.True(t, errors.Is(w.Update(func(o *config.Options) {}), ErrFrozen))
}

func TestRequestClose_BeforeMaterializeIsNoop(t *testing.T) {
	w, _ := newTestWindow(t, nil)
	assert.NotPanics(t, w.RequestClose)
	assert.Equal(t, Unmaterialized, w.State())
}

func TestRequestClose_FromAnotherGoroutine(t *testing.T) {
	w, backend := newTestWindow(t, nil)
	backend.Script = []loop.Event{{Kind: loop.EventInit}}

	live := make(chan struct{})
	backend.OnEvent = func(ev loop.Event, _ *platformtest.Window, _ *platformtest.Surface) {
		if ev.Kind == loop.EventInit {
			close(live)
		}
	}

	done := make(chan error, 1)
	go func() { done <- w.Materialize(nil) }()

	select {
	case <-live:
	case <-time.After(5 * time.Second):
		t.Fatal("loop never started")
	}
	w.RequestClose()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Materialize did not return after RequestClose")
	}
	assert.Equal(t, Closed, w.State())
}

func TestEndToEnd_TitledSizedMarkup(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	backend := platformtest.NewBackend()

	var events []loop.EventKind
	w := New(backend, &config.Options{
		Title:  config.String("T"),
		Width:  config.Int(640),
		Height: config.Int(480),
	}, WithEventObserver(func(ev loop.Event) { events = append(events, ev.Kind) }))
	require.NoError(t, w.LoadHTML("<h1>hi</h1>"))

	require.NoError(t, w.Materialize(nil))

	win := backend.LastWindow()
	assert.Equal(t, "T", win.Spec.Title)
	assert.Equal(t, platform.Size{Width: 640, Height: 480}, win.Spec.Size)
	require.NotNil(t, backend.LastSurface().Initial)
	assert.Equal(t, content.HTML("<h1>hi</h1>"), *backend.LastSurface().Initial)
	assert.Equal(t, []loop.EventKind{loop.EventInit, loop.EventCloseRequested}, events)
}

func TestEngineVersion(t *testing.T) {
	backend := platformtest.NewBackend()
	v, err := EngineVersion(backend)
	require.NoError(t, err)
	assert.Equal(t, "fake-engine 1.0", v)

	backend.Version = ""
	_, err = EngineVersion(backend)
	assert.True(t, errors.Is(err, platform.ErrUnsupported))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unmaterialized", Unmaterialized.String())
	assert.Equal(t, "live", Live.String())
	assert.Equal(t, "closed", Closed.String())
}

func TestLoad_AfterCloseReturnsErrClosed(t *testing.T) {
	w, backend := newTestWindow(t, nil)
	require.NoError(t, w.Materialize(nil))

	err := w.LoadURL("https://after.close")
	assert.True(t, errors.Is(err, content.ErrClosed))
	assert.True(t, errors.Is(w.LoadHTML("<p>late</p>"), content.ErrClosed))

	surface := backend.LastSurface()
	assert.True(t, surface.Destroyed)
	assert.Empty(t, surface.Navigations, "a destroyed surface must not be navigated")

	require.NoError(t, w.SetTitle("late"))
	assert.Equal(t, "late", w.Options().GetTitle())
	assert.NotContains(t, backend.LastWindow().Titles, "late")
}

func TestLoad_AfterFailedDriverReturnsErrClosed(t *testing.T) {
	w, backend := newTestWindow(t, nil)
	backend.FailDriver = errors.New("no loop")
	require.NoError(t, w.LoadURL("https://example.com"))

	var cerr *ConstructionError
	require.True(t, errors.As(w.Materialize(nil), &cerr))
	assert.Equal(t, StageDriver, cerr.Stage)

	assert.True(t, errors.Is(w.LoadURL("https://x"), content.ErrClosed))
	surface := backend.LastSurface()
	assert.True(t, surface.Destroyed)
	assert.Empty(t, surface.Navigations)
}

// constructionCloser asks the window to close while the native window is
// being built.
type constructionCloser struct {
	*platformtest.Backend
	win *Window
}

func (c *constructionCloser) NewWindow(spec platform.WindowSpec) (platform.NativeWindow, error) {
	c.win.RequestClose()
	return c.Backend.NewWindow(spec)
}

func TestRequestClose_DuringConstructionIsDelivered(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	fake := platformtest.NewBackend()
	fake.Script = []loop.Event{{Kind: loop.EventInit}}
	backend := &constructionCloser{Backend: fake}
	w := New(backend, nil)
	backend.win = w

	done := make(chan error, 1)
	go func() { done <- w.Materialize(nil) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("close requested during construction was lost")
	}
	assert.Equal(t, Closed, w.State())
	require.Len(t, fake.Drivers, 1)
	assert.Contains(t, fake.Drivers[0].Delivered, loop.Event{Kind: loop.EventCloseRequested})
}

func TestRequestClose_AfterFailedConstructionIsNoop(t *testing.T) {
	w, backend := newTestWindow(t, nil)
	backend.FailWindow = errors.New("no display")
	require.Error(t, w.Materialize(nil))

	assert.NotPanics(t, w.RequestClose)
	assert.Equal(t, Closed, w.State())
}
