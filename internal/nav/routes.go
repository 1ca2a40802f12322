// Package nav holds the client's routes, its navigation history and the
// access gate that keeps protected screens behind an active session.
package nav

// Route identifies a screen.
type Route string

// Known routes.
const (
	RouteLogin     Route = "/login"
	RouteRegister  Route = "/register"
	RouteDashboard Route = "/dashboard"
	RouteTransfer  Route = "/transfer"
	RouteHistory   Route = "/history"
	RouteProfile   Route = "/profile"
)

// EntryRoute is the unauthenticated entry point.
const EntryRoute = RouteLogin

// ProtectedRoutes lists the routes that require a session, in menu order.
var ProtectedRoutes = []Route{RouteDashboard, RouteTransfer, RouteHistory, RouteProfile}

// Protected reports whether the route requires an active session.
func (r Route) Protected() bool {
	for _, p := range ProtectedRoutes {
		if r == p {
			return true
		}
	}
	return false
}

// Known reports whether the route names a screen.
func (r Route) Known() bool {
	return r == RouteLogin || r == RouteRegister || r.Protected()
}

// Title is the human readable screen name.
func (r Route) Title() string {
	switch r {
	case RouteLogin:
		return "Login"
	case RouteRegister:
		return "Register"
	case RouteDashboard:
		return "Dashboard"
	case RouteTransfer:
		return "Transfer"
	case RouteHistory:
		return "History"
	case RouteProfile:
		return "Profile"
	default:
		return string(r)
	}
}
