package session

import "time"

// Route is a screen of the client.
type Route string

const (
	RouteLogin    Route = "login"
	RouteRegister Route = "register"
	RouteGallery  Route = "gallery"
)

// Public reports whether r is reachable without signing in.
func (r Route) Public() bool {
	return r == RouteLogin || r == RouteRegister
}

// Decision is the outcome of Gate. When Allow is false the caller must show
// Redirect instead of the requested route.
type Decision struct {
	Allow    bool
	Redirect Route
}

// Gate decides whether route may be shown for s: signed-out users only see
// the login and register screens, signed-in users never see them.
func Gate(route Route, s *Session) Decision {
	return GateAt(route, s, time.Now())
}

// GateAt is Gate with an explicit clock.
func GateAt(route Route, s *Session, now time.Time) Decision {
	authed := s.Authenticated(now)
	switch {
	case !authed && !route.Public():
		return Decision{Redirect: RouteLogin}
	case authed && route.Public():
		return Decision{Redirect: RouteGallery}
	default:
		return Decision{Allow: true}
	}
}
