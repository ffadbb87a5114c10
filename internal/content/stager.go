package content

// state is staged (no surface yet), live (forwarding) or closed (the surface
// is gone).
type state interface {
	isState()
}

type staged struct {
	pending *Request
}

type live struct {
	nav Navigator
}

type closed struct{}

func (staged) isState() {}
func (live) isState()   {}
func (closed) isState() {}

// Stager holds at most one pending Request until a surface is attached,
// then forwards every request to it.
//
// The zero value is a Stager with nothing pending. Stager is not safe for
// concurrent use; once live it must be driven from the event-loop thread.
type Stager struct {
	st state
}

func (s *Stager) current() state {
	if s.st == nil {
		s.st = staged{}
	}
	return s.st
}

// LoadURL stages or forwards a URL navigation.
func (s *Stager) LoadURL(url string) error {
	return s.Load(URL(url))
}

// LoadHTML stages or forwards inline markup.
func (s *Stager) LoadHTML(markup string) error {
	return s.Load(HTML(markup))
}

// Load stages req, replacing any pending request of either kind, or forwards
// it when a surface is attached. Staging never fails. A detached Stager
// returns ErrClosed.
func (s *Stager) Load(req Request) error {
	switch st := s.current().(type) {
	case live:
		return Navigate(st.nav, req)
	case closed:
		return ErrClosed
	default:
		r := req
		s.st = staged{pending: &r}
		return nil
	}
}

// Pending returns the staged request, if any. A live Stager has none.
func (s *Stager) Pending() (Request, bool) {
	st, ok := s.current().(staged)
	if !ok || st.pending == nil {
		return Request{}, false
	}
	return *st.pending, true
}

// Live reports whether the Stager forwards to a surface.
func (s *Stager) Live() bool {
	_, ok := s.current().(live)
	return ok
}

// Attach switches to forwarding to nav and hands back the request that was
// pending, so the caller can apply it when the surface is built.
func (s *Stager) Attach(nav Navigator) (Request, bool, error) {
	switch s.current().(type) {
	case live:
		return Request{}, false, ErrAttached
	case closed:
		return Request{}, false, ErrClosed
	}
	req, ok := s.Pending()
	s.st = live{nav: nav}
	return req, ok, nil
}

// Detach drops the surface and any pending request. Every later load returns
// ErrClosed.
func (s *Stager) Detach() {
	s.st = closed{}
}

// Closed reports whether the Stager was detached.
func (s *Stager) Closed() bool {
	_, ok := s.current().(closed)
	return ok
}
