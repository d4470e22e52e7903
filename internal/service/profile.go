package service

import (
	"context"
	"errors"
	"fmt"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	apperrors "github.com/intego360/intego-ui/internal/errors"
	"github.com/intego360/intego-ui/internal/ports"
)

// Editable profile fields accepted by the Identity API.
var profileFields = map[string]bool{
	"first_name":         true,
	"last_name":          true,
	"email":              true,
	"phone_number":       true,
	"preferred_language": true,
}

// ProfileService edits the signed-in user's profile and feeds the result back
// into the session.
type ProfileService struct {
	updater ports.ProfileUpdater
}

// NewProfileService constructs a ProfileService.
func NewProfileService(updater ports.ProfileUpdater) *ProfileService {
	return &ProfileService{updater: updater}
}

// Update sends fields to the Identity API. On success the session's user is
// replaced; status and tokens are untouched.
func (p *ProfileService) Update(ctx context.Context, session *SessionService, fields map[string]any) (domainauth.User, error) {
	for k := range fields {
		if !profileFields[k] {
			return domainauth.User{}, apperrors.Validation(fmt.Sprintf("field %q cannot be changed", k))
		}
	}

	var user domainauth.User
	err := WithAccessToken(ctx, session, func(ctx context.Context, token string) error {
		u, err := p.updater.UpdateProfile(ctx, token, fields)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return domainauth.User{}, err
	}
	session.UpdateUser(user)
	return user, nil
}

// WithAccessToken runs call with the session's bearer token. If the call is
// rejected as unauthorized the session is asked for a new token and call is
// retried exactly once. With no token, call is never invoked.
func WithAccessToken(ctx context.Context, tokens ports.SessionTokens, call func(ctx context.Context, token string) error) error {
	token := tokens.AccessToken()
	if token == "" {
		return ErrSessionEnded
	}

	err := call(ctx, token)
	if !apperrors.IsUnauthorized(err) {
		return err
	}

	next, refreshErr := tokens.HandleUnauthorized(ctx, token)
	if refreshErr != nil {
		return errors.Join(ErrSessionEnded, err)
	}
	return call(ctx, next)
}
