// Package disclosure models the open/closed state of a collapsible overlay
// such as the landing page mobile menu or the shell sidebar.
package disclosure

import (
	"net/url"
)

// Event is a user action that may change the state.
type Event uint8

const (
	// Toggle flips the state (hamburger / close button).
	Toggle Event = iota
	// Navigate is raised when any link inside the overlay is activated.
	Navigate
	// BackdropClick is raised when the inert backdrop is clicked.
	BackdropClick
)

// DefaultQueryKey is the query parameter carrying the open flag.
const DefaultQueryKey = "menu"

const openValue = "open"

// State is the disclosure state of one overlay. The zero value is Closed.
type State struct {
	open bool
}

// Closed returns a closed state.
func Closed() State {
	return State{}
}

// Opened returns an open state.
func Opened() State {
	return State{open: true}
}

// IsOpen reports whether the overlay is shown.
func (s State) IsOpen() bool {
	return s.open
}

// Toggle flips the state.
func (s *State) Toggle() {
	s.open = !s.open
}

// Close forces the state to closed.
func (s *State) Close() {
	s.open = false
}

// Apply returns the state after ev.
// Closed --Toggle--> Open --(Navigate|Toggle|BackdropClick)--> Closed
func (s State) Apply(ev Event) State {
	switch ev {
	case Toggle:
		return State{open: !s.open}
	case Navigate, BackdropClick:
		return Closed()
	default:
		return s
	}
}

// FromQuery reads the state from request query values.
func FromQuery(values url.Values, key string) State {
	return State{open: values.Get(key) == openValue}
}

// Links holds the hrefs a view needs to drive the overlay.
type Links struct {
	// Toggle leads to the page with the state flipped.
	Toggle string
	// Close leads to the page with the overlay closed (backdrop, close button).
	Close string
}

// LinksFor computes Links for the page at u in state s.
// Other query parameters are preserved; the fragment is dropped.
func LinksFor(u *url.URL, key string, s State) Links {
	return Links{
		Toggle: withState(u, key, s.Apply(Toggle)),
		Close:  withState(u, key, s.Apply(BackdropClick)),
	}
}

func withState(u *url.URL, key string, s State) string {
	q := u.Query()
	if s.open {
		q.Set(key, openValue)
	} else {
		q.Del(key)
	}
	out := url.URL{Path: u.Path, RawQuery: q.Encode()}
	if out.Path == "" {
		out.Path = "/"
	}
	return out.String()
}
