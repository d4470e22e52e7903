package auth

// RouteAccess classifies a route for the guard.
type RouteAccess int

const (
	// AccessOpen routes render regardless of session state (health checks, static assets).
	AccessOpen RouteAccess = iota
	// AccessProtected routes require an authenticated session.
	AccessProtected
	// AccessPublicOnly routes are for signed-out users only (login, signup).
	AccessPublicOnly
)

// Default locations the guard redirects to.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// SessionView is the only input the guard reads from a session.
type SessionView struct {
	IsLoading       bool
	IsAuthenticated bool
}

// GuardAction is the outcome kind of a guard evaluation.
type GuardAction int

const (
	GuardRender GuardAction = iota
	GuardLoading
	GuardRedirect
)

func (a GuardAction) String() string {
	switch a {
	case GuardRender:
		return "render"
	case GuardLoading:
		return "loading"
	case GuardRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of Guard. Location is set only for GuardRedirect.
type Decision struct {
	Action   GuardAction
	Location string
}

// Guard decides what to do with a navigation. It holds no state and must be
// re-run on every session transition.
func Guard(access RouteAccess, v SessionView) Decision {
	if access == AccessOpen {
		return Decision{Action: GuardRender}
	}
	if v.IsLoading {
		return Decision{Action: GuardLoading}
	}
	switch access {
	case AccessProtected:
		if !v.IsAuthenticated {
			return Decision{Action: GuardRedirect, Location: LoginPath}
		}
	case AccessPublicOnly:
		if v.IsAuthenticated {
			return Decision{Action: GuardRedirect, Location: DashboardPath}
		}
	}
	return Decision{Action: GuardRender}
}
