package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	apperrors "github.com/intego360/intego-ui/internal/errors"
	"github.com/intego360/intego-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityAPI    = (*FakeIdentityAPI)(nil)
	_ ports.ProfileUpdater = (*FakeIdentityAPI)(nil)
	_ ports.TokenBackend   = (*FailingTokenBackend)(nil)
)

// Default credentials and tokens understood by FakeIdentityAPI.
const (
	ValidUsername = "mayor_gasabo"
	ValidPassword = "correct-horse"
	AccessToken   = "access-1"
	RefreshToken  = "refresh-1"
)

// DefaultUser is the profile FakeIdentityAPI returns.
func DefaultUser() domainauth.User {
	return domainauth.User{
		ID:          1,
		Username:    ValidUsername,
		FullName:    "Jean Uwimana",
		Role:        domainauth.RoleMayor,
		RoleLabel:   "District Mayor",
		District:    "Gasabo",
		Permissions: domainauth.PermissionsForRole(domainauth.RoleMayor),
	}
}

// FakeIdentityAPI simulates the Identity API. Without overrides it accepts
// ValidUsername/ValidPassword, treats every token in Valid as live, and
// refreshes RefreshToken into "access-2", "access-3", ...
type FakeIdentityAPI struct {
	LoginFunc         func(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error)
	RefreshFunc       func(ctx context.Context, refresh string) (ports.RefreshResult, error)
	CurrentUserFunc   func(ctx context.Context, access string) (domainauth.User, error)
	UpdateProfileFunc func(ctx context.Context, access string, fields map[string]any) (domainauth.User, error)

	mu       sync.Mutex
	valid    map[string]bool
	calls    []string
	refreshN int
	user     domainauth.User
}

// NewFakeIdentityAPI creates a FakeIdentityAPI where AccessToken is live.
func NewFakeIdentityAPI() *FakeIdentityAPI {
	return &FakeIdentityAPI{
		valid: map[string]bool{AccessToken: true},
		user:  DefaultUser(),
	}
}

// Revoke makes access tokens fail CurrentUser.
func (f *FakeIdentityAPI) Revoke(tokens ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range tokens {
		delete(f.valid, t)
	}
}

// Calls returns the ordered list of endpoint names invoked so far.
func (f *FakeIdentityAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many times name was invoked.
func (f *FakeIdentityAPI) CallCount(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *FakeIdentityAPI) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *FakeIdentityAPI) Login(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
	f.record("login")
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, in)
	}
	if in.Username != ValidUsername || in.Password != ValidPassword {
		return ports.LoginResult{}, apperrors.Validation("Invalid credentials")
	}
	return ports.LoginResult{
		Tokens: domainauth.Tokens{Access: AccessToken, Refresh: RefreshToken},
		User:   f.user,
	}, nil
}

func (f *FakeIdentityAPI) Refresh(ctx context.Context, refresh string) (ports.RefreshResult, error) {
	f.record("refresh")
	if f.RefreshFunc != nil {
		return f.RefreshFunc(ctx, refresh)
	}
	if refresh != RefreshToken {
		return ports.RefreshResult{}, apperrors.Unauthorized("Token is invalid or expired")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshN++
	access := fmt.Sprintf("access-%d", f.refreshN+1)
	f.valid[access] = true
	return ports.RefreshResult{Access: access}, nil
}

func (f *FakeIdentityAPI) CurrentUser(ctx context.Context, access string) (domainauth.User, error) {
	f.record("current_user")
	if f.CurrentUserFunc != nil {
		return f.CurrentUserFunc(ctx, access)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.valid[access] {
		return domainauth.User{}, apperrors.Unauthorized("Given token not valid for any token type")
	}
	return f.user, nil
}

func (f *FakeIdentityAPI) UpdateProfile(ctx context.Context, access string, fields map[string]any) (domainauth.User, error) {
	f.record("update_profile")
	if f.UpdateProfileFunc != nil {
		return f.UpdateProfileFunc(ctx, access, fields)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.valid[access] {
		return domainauth.User{}, apperrors.Unauthorized("Given token not valid for any token type")
	}
	if v, ok := fields["full_name"].(string); ok {
		f.user.FullName = v
	}
	if v, ok := fields["preferred_language"].(string); ok {
		f.user.PreferredLanguage = v
	}
	return f.user, nil
}

// ErrStorageUnavailable is returned by FailingTokenBackend.
var ErrStorageUnavailable = errors.New("storage unavailable")

// FailingTokenBackend fails every operation, simulating a storage outage.
type FailingTokenBackend struct{}

func (FailingTokenBackend) Load(context.Context, domainauth.TokenKind) (string, error) {
	return "", ErrStorageUnavailable
}

func (FailingTokenBackend) Store(context.Context, domainauth.TokenKind, string) error {
	return ErrStorageUnavailable
}

func (FailingTokenBackend) Remove(context.Context, ...domainauth.TokenKind) error {
	return ErrStorageUnavailable
}
