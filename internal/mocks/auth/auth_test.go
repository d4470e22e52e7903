package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	apperrors "github.com/intego360/intego-ui/internal/errors"
	"github.com/intego360/intego-ui/internal/ports"
)

func TestFakeIdentityAPI_Login(t *testing.T) {
	api := NewFakeIdentityAPI()
	ctx := context.Background()

	res, err := api.Login(ctx, ports.LoginInput{Username: ValidUsername, Password: ValidPassword})
	require.NoError(t, err)
	assert.Equal(t, domainauth.Tokens{Access: AccessToken, Refresh: RefreshToken}, res.Tokens)
	assert.Equal(t, ValidUsername, res.User.Username)

	_, err = api.Login(ctx, ports.LoginInput{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "Invalid credentials", apperrors.Message(err))
}

func TestFakeIdentityAPI_RefreshIssuesLiveTokens(t *testing.T) {
	api := NewFakeIdentityAPI()
	ctx := context.Background()
	api.Revoke(AccessToken)

	_, err := api.CurrentUser(ctx, AccessToken)
	require.True(t, apperrors.IsUnauthorized(err))

	res, err := api.Refresh(ctx, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "access-2", res.Access)

	_, err = api.CurrentUser(ctx, res.Access)
	require.NoError(t, err)

	_, err = api.Refresh(ctx, "bogus")
	assert.True(t, apperrors.IsUnauthorized(err))

	assert.Equal(t, []string{"current_user", "refresh", "current_user", "refresh"}, api.Calls())
	assert.Equal(t, 2, api.CallCount("refresh"))
}

func TestFakeIdentityAPI_UpdateProfile(t *testing.T) {
	api := NewFakeIdentityAPI()
	u, err := api.UpdateProfile(context.Background(), AccessToken, map[string]any{"full_name": "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", u.FullName)
}

func TestFailingTokenBackend(t *testing.T) {
	var b FailingTokenBackend
	ctx := context.Background()
	_, err := b.Load(ctx, domainauth.TokenAccess)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, b.Store(ctx, domainauth.TokenAccess, "x"), ErrStorageUnavailable)
	assert.ErrorIs(t, b.Remove(ctx), ErrStorageUnavailable)
}
