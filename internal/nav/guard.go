// Package nav gates page access by authentication and role membership.
// The guard is a pure state machine: decisions are derived only from
// the requested route and the current session snapshot, so the UI layer
// re-resolves on every state change.
package nav

import (
	"strings"

	"github.com/pontodeaula/pontoaula/internal/users"
)

// Decision is the guard's verdict for a route request.
type Decision int

const (
	// DecisionLoading renders a loading affordance while the session
	// bootstrap is in flight. No navigation happens yet.
	DecisionLoading Decision = iota
	// DecisionRedirectLogin replaces the current location with the
	// public login route.
	DecisionRedirectLogin
	// DecisionDenied renders a visible access-denied page in place.
	DecisionDenied
	// DecisionRender renders the requested content.
	DecisionRender
)

// String returns the decision name for logs and test output.
func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionRedirectLogin:
		return "redirect-login"
	case DecisionDenied:
		return "denied"
	case DecisionRender:
		return "render"
	}
	return "unknown"
}

// Route declares one navigable page.
type Route struct {
	Path   string
	Public bool
	// AllowedRoles restricts an authenticated route to the listed
	// roles. Empty means any authenticated user.
	AllowedRoles []users.Role
}

// State is the session view the guard decides from. It is driven by
// exactly two external signals: bootstrap completion and resolved-user
// arrival or loss.
type State struct {
	Initializing bool
	User         *users.User
}

// Guard resolves route requests against the session state.
type Guard struct {
	routes []Route
}

// NewGuard returns a guard over the application route table.
func NewGuard() *Guard {
	return &Guard{routes: defaultRoutes()}
}

// NewGuardWith returns a guard over a custom route table.
func NewGuardWith(routes []Route) *Guard {
	return &Guard{routes: routes}
}

// Lookup finds the route matching path, supporting ":param" segments.
func (g *Guard) Lookup(path string) (Route, bool) {
	for _, route := range g.routes {
		if matchPath(route.Path, path) {
			return route, true
		}
	}
	return Route{}, false
}

// Resolve decides what to render for route given the session state.
func (g *Guard) Resolve(route Route, st State) Decision {
	if route.Public {
		return DecisionRender
	}
	if st.Initializing {
		return DecisionLoading
	}
	if st.User == nil {
		return DecisionRedirectLogin
	}
	if len(route.AllowedRoles) == 0 {
		return DecisionRender
	}
	for _, role := range route.AllowedRoles {
		if st.User.Role == role {
			return DecisionRender
		}
	}
	return DecisionDenied
}

// ResolvePath combines Lookup and Resolve; unknown paths deny.
func (g *Guard) ResolvePath(path string, st State) Decision {
	route, ok := g.Lookup(path)
	if !ok {
		return DecisionDenied
	}
	return g.Resolve(route, st)
}

func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(patternParts) != len(pathParts) {
		return false
	}
	for i, part := range patternParts {
		if strings.HasPrefix(part, ":") {
			if pathParts[i] == "" {
				return false
			}
			continue
		}
		if part != pathParts[i] {
			return false
		}
	}
	return true
}

// defaultRoutes mirrors the application page map. User management is
// restricted to the roles that may administer accounts.
func defaultRoutes() []Route {
	managers := []users.Role{users.RoleAdmin, users.RoleSecretary}
	return []Route{
		{Path: "/", Public: true},
		{Path: "/dashboard"},
		{Path: "/posts/mine"},
		{Path: "/posts/new"},
		{Path: "/posts/edit/:id"},
		{Path: "/posts/:id"},
		{Path: "/profile"},
		{Path: "/users", AllowedRoles: managers},
		{Path: "/users/new", AllowedRoles: managers},
		{Path: "/users/edit/:id", AllowedRoles: managers},
	}
}
