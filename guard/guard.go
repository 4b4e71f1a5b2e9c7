// Package guard decides whether a view may render for the current session.
// The decision is a pure function of session state and the view's
// requirement; it never performs network I/O, so it is safe to evaluate
// synchronously on every navigation.
package guard

import "github.com/myshop/go-shop-client/session"

// Decision is the outcome of evaluating a navigation.
type Decision int

const (
	// Allow renders the requested view.
	Allow Decision = iota
	// RedirectLogin sends the user to the login entry point.
	RedirectLogin
	// RedirectHome sends the user to the default landing view with a
	// visible denial notice.
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	}
	return "unknown"
}

// Requirement describes what a view demands of the session.
type Requirement struct {
	RequireAuth  bool
	RequireAdmin bool
}

// Public is the requirement of unguarded views.
var Public = Requirement{}

// Protected requires any authenticated session.
var Protected = Requirement{RequireAuth: true}

// AdminOnly requires an authenticated admin session.
var AdminOnly = Requirement{RequireAuth: true, RequireAdmin: true}

// Evaluate applies the requirement to the session.
func Evaluate(s session.Session, req Requirement) Decision {
	if !req.RequireAuth && !req.RequireAdmin {
		return Allow
	}
	if !s.Authenticated() {
		return RedirectLogin
	}
	if req.RequireAdmin && !s.User.IsAdmin() {
		return RedirectHome
	}
	return Allow
}

// Guard evaluates navigations against a live store.
type Guard struct {
	store *session.Store
}

// New creates a Guard reading from the given store.
func New(store *session.Store) *Guard {
	return &Guard{store: store}
}

// Check evaluates the requirement against the store's current session.
func (g *Guard) Check(req Requirement) Decision {
	return Evaluate(g.store.Session(), req)
}
