// Package content stages what a web surface should show before the surface
// exists, and forwards navigation to the live surface afterwards.
package content

import (
	"errors"
	"fmt"
)

// Kind tags a Request.
type Kind int

const (
	KindURL Kind = iota
	KindHTML
)

func (k Kind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindHTML:
		return "html"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Request is either a URL to navigate to or inline markup to render.
type Request struct {
	Kind  Kind
	Value string
}

// URL returns a navigation request for url.
func URL(url string) Request { return Request{Kind: KindURL, Value: url} }

// HTML returns a request that renders markup directly.
func HTML(markup string) Request { return Request{Kind: KindHTML, Value: markup} }

// Navigator is the live surface's navigation path.
type Navigator interface {
	LoadURL(url string) error
	LoadHTML(markup string) error
}

// ErrAttached is returned when a Stager that already forwards to a live
// surface is attached again.
var ErrAttached = errors.New("content stager already attached to a surface")

// ErrClosed is returned for loads after the surface was torn down.
var ErrClosed = errors.New("web surface is closed")

// NavigationError reports a failed forward to the live surface. It is
// recoverable: the surface stays live and later requests are still forwarded.
type NavigationError struct {
	Request Request
	Err     error
}

func (e *NavigationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("load %s: %v", e.Request.Kind, e.Err)
}

func (e *NavigationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Navigate sends req to nav. Failures are returned as *NavigationError.
func Navigate(nav Navigator, req Request) error {
	var err error
	if req.Kind == KindHTML {
		err = nav.LoadHTML(req.Value)
	} else {
		err = nav.LoadURL(req.Value)
	}
	if err != nil {
		return &NavigationError{Request: req, Err: err}
	}
	return nil
}
