package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	apperrors "github.com/intego360/intego-ui/internal/errors"
	"github.com/intego360/intego-ui/internal/ports"
)

// ErrSessionEnded is returned to callers holding a token the session no longer
// vouches for.
var ErrSessionEnded = ports.ErrSessionEnded

var _ ports.SessionTokens = (*SessionService)(nil)

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Identity ports.IdentityAPI
	Tokens   *TokenStore
	Logger   *slog.Logger
}

// SessionService is the single writer of one authentication session. Every
// transition goes through domainauth.Reduce while holding mu, and token writes
// happen under the same lock so the store and the in-memory state agree.
//
// gen identifies the latest attempt. Login and Logout bump it; a network
// result that comes back for an older gen is discarded.
type SessionService struct {
	identity ports.IdentityAPI
	tokens   *TokenStore
	logger   *slog.Logger

	mu           sync.Mutex
	state        domainauth.State
	gen          uint64
	bootstrapped bool // boot sequence started or superseded by Login/Logout
	bootDone     bool
	closed       bool
	subs         map[uint64]chan domainauth.State
	nextSub      uint64

	flight singleflight.Group
}

// NewSessionService constructs a SessionService in the initial unauthenticated state.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		identity: opts.Identity,
		tokens:   opts.Tokens,
		logger:   logger.With("component", "session"),
		state:    domainauth.Initial(),
		subs:     make(map[uint64]chan domainauth.State),
	}
}

// Snapshot returns a copy of the current state.
func (s *SessionService) Snapshot() domainauth.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// AccessToken returns the bearer token Views should send, or "" when the
// session is not authenticated.
func (s *SessionService) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsAuthenticated() {
		return ""
	}
	return s.state.Tokens.Access
}

// Bootstrap restores the session from persisted tokens. Only the first call
// does any work; concurrent callers wait for it and later callers return the
// current snapshot immediately. The returned error is only ever ctx.Err().
func (s *SessionService) Bootstrap(ctx context.Context) (domainauth.State, error) {
	s.mu.Lock()
	done := s.bootDone
	s.mu.Unlock()
	if done {
		return s.Snapshot(), nil
	}

	// The boot sequence runs at most once, so it must not die with the
	// request that happened to trigger it.
	runCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan("bootstrap", func() (any, error) {
		s.bootstrap(runCtx)
		s.mu.Lock()
		s.bootDone = true
		s.mu.Unlock()
		return nil, nil
	})
	select {
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	case <-ch:
		return s.Snapshot(), nil
	}
}

func (s *SessionService) bootstrap(ctx context.Context) {
	s.mu.Lock()
	if s.bootstrapped {
		s.mu.Unlock()
		return
	}
	s.bootstrapped = true
	gen := s.gen
	s.mu.Unlock()

	stored := s.tokens.Tokens(ctx)
	if stored.Access == "" || stored.Refresh == "" {
		if !stored.Empty() {
			s.mu.Lock()
			if gen == s.gen {
				s.logger.InfoContext(ctx, "discarding incomplete token pair")
				s.tokens.ClearAll(ctx)
			}
			s.mu.Unlock()
		}
		return
	}

	if !s.transition(gen, domainauth.AuthStart{Tokens: stored}) {
		return
	}

	user, err := s.identity.CurrentUser(ctx, stored.Access)
	if err == nil {
		s.transition(gen, domainauth.AuthSuccess{User: user, Tokens: stored})
		return
	}
	s.logger.DebugContext(ctx, "stored access token rejected; refreshing", "error", err)

	res, err := s.identity.Refresh(ctx, stored.Refresh)
	if err != nil {
		s.logger.InfoContext(ctx, "session restore failed", "error", err)
		s.endSession(ctx, gen)
		return
	}

	// Persist before the retried lookup so a crash in between keeps the new token.
	current, ok := s.persistRefresh(ctx, gen, res)
	if !ok {
		return
	}

	user, err = s.identity.CurrentUser(ctx, current.Access)
	if err != nil {
		s.logger.InfoContext(ctx, "session restore failed after refresh", "error", err)
		s.endSession(ctx, gen)
		return
	}
	s.transition(gen, domainauth.AuthSuccess{User: user, Tokens: current})
}

// Login authenticates with the Identity API. Rejections become a failed
// transition with a user-facing message in State.Error; the returned error is
// only ever ctx.Err().
func (s *SessionService) Login(ctx context.Context, in ports.LoginInput) (domainauth.State, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.bootstrapped = true
	s.apply(ctx, domainauth.AuthStart{})
	s.mu.Unlock()

	res, err := s.identity.Login(ctx, in)
	if err != nil {
		s.logger.InfoContext(ctx, "login rejected", "username", in.Username, "error", err)
		s.transition(gen, domainauth.AuthFailure{Message: loginErrorMessage(err)})
		return s.Snapshot(), ctx.Err()
	}

	s.mu.Lock()
	if gen == s.gen {
		s.tokens.SetTokens(context.WithoutCancel(ctx), res.Tokens)
		s.apply(ctx, domainauth.AuthSuccess{User: res.User, Tokens: res.Tokens})
		s.logger.InfoContext(ctx, "login succeeded", "username", res.User.Username, "role", string(res.User.Role))
	} else {
		s.logger.DebugContext(ctx, "discarding superseded login result", "username", in.Username)
	}
	snap := s.state.Clone()
	s.mu.Unlock()
	return snap, nil
}

// Logout clears both persisted tokens and resets the session. Any attempt
// still in flight is discarded when it resolves.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.bootstrapped = true
	s.tokens.ClearAll(context.WithoutCancel(ctx))
	s.apply(ctx, domainauth.Logout{})
}

// UpdateUser replaces the profile without touching status or tokens.
func (s *SessionService) UpdateUser(user domainauth.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(context.Background(), domainauth.UpdateUser{User: user})
}

// ClearError drops the last login failure message.
func (s *SessionService) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Error == "" {
		return
	}
	s.apply(context.Background(), domainauth.ClearError{})
}

// HandleUnauthorized is called by a View whose request carrying rejected was
// answered with 401. It returns the token to retry with. When another caller
// already refreshed, that token is returned without a network call. Otherwise
// exactly one refresh is attempted for rejected; if it fails the session ends
// and ErrSessionEnded is returned.
func (s *SessionService) HandleUnauthorized(ctx context.Context, rejected string) (string, error) {
	if current, _, _, err := s.refreshTarget(rejected); err != nil || current != "" {
		return current, err
	}

	runCtx := context.WithoutCancel(ctx)
	v, err, _ := s.flight.Do("refresh:"+rejected, func() (any, error) {
		// Re-check: a flight for rejected may have finished since the fast path.
		current, gen, refresh, err := s.refreshTarget(rejected)
		if err != nil || current != "" {
			return current, err
		}
		res, err := s.identity.Refresh(runCtx, refresh)
		if err != nil {
			s.logger.InfoContext(runCtx, "token refresh failed; ending session", "error", err)
			s.endSession(runCtx, gen)
			return "", ErrSessionEnded
		}
		tokens, ok := s.persistRefresh(runCtx, gen, res)
		if !ok {
			return "", ErrSessionEnded
		}
		return tokens.Access, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// refreshTarget inspects the state for HandleUnauthorized. It returns the
// current access token when it already differs from rejected, or the
// generation and refresh token to use for a refresh.
func (s *SessionService) refreshTarget(rejected string) (current string, gen uint64, refresh string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsAuthenticated() || s.state.Tokens.Refresh == "" {
		return "", 0, "", ErrSessionEnded
	}
	if s.state.Tokens.Access != rejected {
		return s.state.Tokens.Access, 0, "", nil
	}
	return "", s.gen, s.state.Tokens.Refresh, nil
}

// Subscribe returns a channel that receives the current state and then every
// subsequent transition. Delivery is latest-wins: a slow reader only misses
// intermediate states. The channel is closed by cancel or Close.
func (s *SessionService) Subscribe() (<-chan domainauth.State, func()) {
	ch := make(chan domainauth.State, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.state.Clone()
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Close ends all subscriptions. The session keeps working but no longer publishes.
func (s *SessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// transition applies a if gen is still current and reports whether it did.
func (s *SessionService) transition(gen uint64, a domainauth.Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.apply(context.Background(), a)
	return true
}

// persistRefresh stores a refreshed access token (and a rotated refresh token)
// and records it in the state. It returns the resulting pair.
func (s *SessionService) persistRefresh(ctx context.Context, gen uint64, res ports.RefreshResult) (domainauth.Tokens, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return domainauth.Tokens{}, false
	}
	s.tokens.Set(ctx, domainauth.TokenAccess, res.Access)
	if res.Refresh != "" {
		s.tokens.Set(ctx, domainauth.TokenRefresh, res.Refresh)
	}
	s.apply(ctx, domainauth.TokenRefreshed{Access: res.Access, Refresh: res.Refresh})
	return s.state.Tokens, true
}

// endSession clears both slots and resets the state, unless gen is stale.
func (s *SessionService) endSession(ctx context.Context, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.gen++
	s.tokens.ClearAll(ctx)
	s.apply(ctx, domainauth.Logout{})
}

// apply must be called with mu held.
func (s *SessionService) apply(ctx context.Context, a domainauth.Action) {
	prev := s.state.Status
	s.state = domainauth.Reduce(s.state, a)
	s.logger.DebugContext(ctx, "session transition",
		"from", string(prev),
		"status", string(s.state.Status),
		"action", actionName(a),
	)
	s.publish()
}

// publish must be called with mu held; mu makes it the only sender.
func (s *SessionService) publish() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.state.Clone()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func actionName(a domainauth.Action) string {
	switch a.(type) {
	case domainauth.AuthStart:
		return "auth_start"
	case domainauth.AuthSuccess:
		return "auth_success"
	case domainauth.AuthFailure:
		return "auth_failure"
	case domainauth.TokenRefreshed:
		return "token_refreshed"
	case domainauth.Logout:
		return "logout"
	case domainauth.UpdateUser:
		return "update_user"
	case domainauth.ClearError:
		return "clear_error"
	default:
		return "unknown"
	}
}

// loginErrorMessage picks the server's reason for a rejected login. Transport
// failures and reasonless rejections yield "" so the reducer uses its default.
func loginErrorMessage(err error) string {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return ""
	}
	if appErr.Status != 0 {
		return appErr.Message
	}
	switch appErr.Code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeUnauthorized, apperrors.ErrCodeForbidden:
		return appErr.Message
	default:
		return ""
	}
}
