package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
)

// LoginInput carries credentials for POST /auth/login/.
type LoginInput struct {
	Username   string
	Password   string
	RememberMe bool
}

// LoginResult is the Identity API's answer to a successful login.
type LoginResult struct {
	Tokens domainauth.Tokens
	User   domainauth.User
}

// RefreshResult is the answer to a successful refresh. Refresh is set only
// when the Identity API rotates refresh tokens.
type RefreshResult struct {
	Access  string
	Refresh string
}

// IdentityAPI is the remote collaborator that issues and validates tokens.
// Errors are *apperrors.AppError values; Validation carries the server's
// human-readable reason.
type IdentityAPI interface {
	Login(ctx context.Context, in LoginInput) (LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (RefreshResult, error)
	CurrentUser(ctx context.Context, accessToken string) (domainauth.User, error)
}

// ProfileUpdater edits the current user's profile (PATCH /auth/users/update_profile/).
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, accessToken string, fields map[string]any) (domainauth.User, error)
}

// ErrTokenNotFound is returned by TokenBackend.Load for an empty slot.
var ErrTokenNotFound = errors.New("token not found")

// TokenBackend is durable storage for the two token slots of one namespace.
type TokenBackend interface {
	// Load returns the stored value or ErrTokenNotFound.
	Load(ctx context.Context, kind domainauth.TokenKind) (string, error)
	// Store overwrites the slot.
	Store(ctx context.Context, kind domainauth.TokenKind, value string) error
	// Remove deletes the given slots; removing an empty slot is not an error.
	Remove(ctx context.Context, kinds ...domainauth.TokenKind) error
}

// TokenBackendFactory opens the backend for a namespace (one per browser client).
type TokenBackendFactory interface {
	ForNamespace(namespace string) TokenBackend
}

// TokenBackendFactoryFunc adapts a function to TokenBackendFactory.
type TokenBackendFactoryFunc func(namespace string) TokenBackend

// ForNamespace implements TokenBackendFactory.
func (f TokenBackendFactoryFunc) ForNamespace(namespace string) TokenBackend { return f(namespace) }

// ErrSessionEnded is returned to callers holding a token the session no longer
// vouches for: the refresh after a 401 failed, or the user logged out.
var ErrSessionEnded = errors.New("session ended")

// SessionTokens is what a View needs from the session: the current bearer and
// a way to report that it was rejected.
type SessionTokens interface {
	// AccessToken returns "" when the session is not authenticated.
	AccessToken() string
	// HandleUnauthorized returns the token to retry with, or ErrSessionEnded.
	HandleUnauthorized(ctx context.Context, rejected string) (string, error)
}
