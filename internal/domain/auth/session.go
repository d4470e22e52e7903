package auth

// Status is the authoritative authentication status of a session.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticating  Status = "authenticating"
	StatusAuthenticated   Status = "authenticated"
	StatusFailed          Status = "failed"
)

// DefaultLoginError is shown when a rejected login carries no usable message.
const DefaultLoginError = "Login failed. Please check your credentials."

// State is the in-memory session. It is a value type: every transition
// produces a new State through Reduce.
//
// Invariant: Tokens is non-empty only while Status is authenticated (or
// authenticating on behalf of an existing pair during bootstrap).
type State struct {
	Status Status `json:"status"`
	User   *User  `json:"user,omitempty"`
	Tokens Tokens `json:"-"`
	Error  string `json:"error,omitempty"`
}

// Initial returns the state a session starts in.
func Initial() State {
	return State{Status: StatusUnauthenticated}
}

// IsLoading reports whether an authentication attempt is in flight.
func (s State) IsLoading() bool { return s.Status == StatusAuthenticating }

// IsAuthenticated reports whether the session holds a verified user.
func (s State) IsAuthenticated() bool { return s.Status == StatusAuthenticated }

// View returns the guard-facing projection of the state.
func (s State) View() SessionView {
	return SessionView{IsLoading: s.IsLoading(), IsAuthenticated: s.IsAuthenticated()}
}

// Clone returns a copy that shares no mutable data with s.
func (s State) Clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}

// Action is a transition request applied by Reduce.
type Action interface{ isAction() }

// AuthStart marks the beginning of a login or bootstrap attempt.
type AuthStart struct {
	// Tokens, when set, are the persisted pair being validated during bootstrap.
	Tokens Tokens
}

// AuthSuccess records a verified user and the pair that authorized it.
type AuthSuccess struct {
	User   User
	Tokens Tokens
}

// AuthFailure records a rejected login with a user-facing message.
type AuthFailure struct {
	Message string
}

// TokenRefreshed swaps in a new access token (and a rotated refresh token when issued).
type TokenRefreshed struct {
	Access  string
	Refresh string
}

// Logout resets the session to its initial state.
type Logout struct{}

// UpdateUser replaces the profile without touching status or tokens.
type UpdateUser struct {
	User User
}

// ClearError drops the last failure message.
type ClearError struct{}

func (AuthStart) isAction()      {}
func (AuthSuccess) isAction()    {}
func (AuthFailure) isAction()    {}
func (TokenRefreshed) isAction() {}
func (Logout) isAction()         {}
func (UpdateUser) isAction()     {}
func (ClearError) isAction()     {}

// Reduce is the pure transition function of the session state machine.
// Unknown actions leave the state unchanged.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case AuthStart:
		return State{Status: StatusAuthenticating, User: s.User, Tokens: act.Tokens}
	case AuthSuccess:
		u := act.User
		return State{Status: StatusAuthenticated, User: &u, Tokens: act.Tokens}
	case AuthFailure:
		msg := act.Message
		if msg == "" {
			msg = DefaultLoginError
		}
		return State{Status: StatusUnauthenticated, Error: msg}
	case TokenRefreshed:
		out := s.Clone()
		out.Tokens.Access = act.Access
		if act.Refresh != "" {
			out.Tokens.Refresh = act.Refresh
		}
		return out
	case Logout:
		return Initial()
	case UpdateUser:
		out := s.Clone()
		u := act.User
		out.User = &u
		return out
	case ClearError:
		out := s.Clone()
		out.Error = ""
		return out
	default:
		return s
	}
}
