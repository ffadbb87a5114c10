package loop

import (
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// State of a Runner.
type State int32

const (
	NotStarted State = iota
	Running
	Exiting
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Exiting:
		return "exiting"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ErrRunnerUsed is returned by Run on a runner that has already run.
var ErrRunnerUsed = errors.New("event loop runner already used")

// Runner turns a Driver's events into the NotStarted -> Running -> Exiting
// state machine. A close request is the only event that changes state; every
// other event is observed and ignored.
type Runner struct {
	driver   Driver
	log      *zap.Logger
	observer func(Event)

	state atomic.Int32
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithObserver registers fn to see every event before the runner acts on it.
func WithObserver(fn func(Event)) Option {
	return func(r *Runner) { r.observer = fn }
}

// NewRunner returns a runner that owns driver.
func NewRunner(driver Driver, opts ...Option) *Runner {
	r := &Runner{driver: driver, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current state. It is safe to call from any goroutine.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// Run blocks the calling thread until the loop exits. It may be called once.
func (r *Runner) Run() error {
	if !r.state.CompareAndSwap(int32(NotStarted), int32(Running)) {
		return ErrRunnerUsed
	}
	err := r.driver.Run(r.handle)
	if r.State() != Exiting {
		// The platform loop ended without a close request (window destroyed
		// underneath us).
		r.log.Debug("event loop ended without close request")
		r.state.Store(int32(Exiting))
	}
	if err != nil {
		return fmt.Errorf("event loop: %w", err)
	}
	return nil
}

func (r *Runner) handle(ev Event) ControlFlow {
	if r.observer != nil {
		r.observer(ev)
	}
	if r.State() == Exiting {
		return Exit
	}

	switch ev.Kind {
	case EventInit:
		r.log.Info("new window process started")
	case EventCloseRequested:
		r.log.Info("close requested, leaving event loop")
		r.state.Store(int32(Exiting))
		return Exit
	default:
		r.log.Debug("window event", zap.Stringer("kind", ev.Kind),
			zap.Int("x", ev.X), zap.Int("y", ev.Y),
			zap.Int("width", ev.Width), zap.Int("height", ev.Height))
	}
	return Wait
}
