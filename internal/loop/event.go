// Package loop drives the blocking dispatch loop that owns a window for its
// lifetime.
package loop

import "fmt"

// EventKind identifies a window-system event.
type EventKind int

const (
	// EventInit is delivered once, on the first tick of the loop.
	EventInit EventKind = iota
	// EventCloseRequested is the user (or RequestClose) asking the window to close.
	EventCloseRequested
	EventResized
	EventMoved
	EventFocused
	EventUnfocused
)

var eventKindNames = map[EventKind]string{
	EventInit:           "init",
	EventCloseRequested: "close-requested",
	EventResized:        "resized",
	EventMoved:          "moved",
	EventFocused:        "focused",
	EventUnfocused:      "unfocused",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is delivered to the runner on the loop thread. Geometry fields are
// set for EventResized and EventMoved.
type Event struct {
	Kind   EventKind
	X, Y   int
	Width  int
	Height int
}

// ControlFlow is the runner's decision after each event.
type ControlFlow int

const (
	// Wait blocks until the next event.
	Wait ControlFlow = iota
	// Exit stops the loop.
	Exit
)

func (c ControlFlow) String() string {
	if c == Exit {
		return "exit"
	}
	return "wait"
}

// Driver is the platform's dispatch loop. Run blocks, calling handle for
// every event on the calling thread, and returns once handle returns Exit
// or the platform loop ends on its own.
type Driver interface {
	Run(handle func(Event) ControlFlow) error
}
