package nav

// SessionState is the read side of the session store.
type SessionState interface {
	IsActive() bool
}

// Gate decides which route is actually rendered for a requested one. It holds
// no state of its own, so a session cleared mid-visit is seen by the very next
// call.
type Gate struct {
	session SessionState
}

// NewGate creates a gate reading from session.
func NewGate(session SessionState) *Gate {
	return &Gate{session: session}
}

// Resolve returns the route to render for requested. Protected routes
// redirect to the entry route without a session; the requested destination
// is not remembered. Unknown routes fall back to the dashboard or the entry
// route depending on the session.
func (g *Gate) Resolve(requested Route) Route {
	active := g.session.IsActive()

	if !requested.Known() {
		if active {
			return RouteDashboard
		}
		return EntryRoute
	}

	if requested.Protected() && !active {
		return EntryRoute
	}
	return requested
}

// Allowed reports whether requested may be rendered as-is.
func (g *Gate) Allowed(requested Route) bool {
	return g.Resolve(requested) == requested
}
