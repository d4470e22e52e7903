package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/intego360/intego-ui/internal/adapters/memory"
	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	apperrors "github.com/intego360/intego-ui/internal/errors"
	"github.com/intego360/intego-ui/internal/mocks"
	fakes "github.com/intego360/intego-ui/internal/mocks/auth"
	"github.com/intego360/intego-ui/internal/ports"
)

func TestProfileService_UpdateReplacesSessionUser(t *testing.T) {
	api := fakes.NewFakeIdentityAPI()
	sess := newTestSession(api, memory.NewTokenStore())
	_, err := sess.Login(context.Background(), validLogin())
	require.NoError(t, err)

	svc := NewProfileService(api)
	u, err := svc.Update(context.Background(), sess, map[string]any{"preferred_language": "fr"})
	require.NoError(t, err)
	assert.Equal(t, "fr", u.PreferredLanguage)
	assert.Equal(t, "fr", sess.Snapshot().User.PreferredLanguage)
	assert.True(t, sess.Snapshot().IsAuthenticated())
}

func TestProfileService_RejectsUnknownFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	updater := mocks.NewMockProfileUpdater(ctrl)
	svc := NewProfileService(updater)

	_, err := svc.Update(context.Background(), newTestSession(fakes.NewFakeIdentityAPI(), memory.NewTokenStore()),
		map[string]any{"role": "admin"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestWithAccessToken_NoTokenMakesNoCall(t *testing.T) {
	sess := newTestSession(fakes.NewFakeIdentityAPI(), memory.NewTokenStore())
	called := false
	err := WithAccessToken(context.Background(), sess, func(context.Context, string) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrSessionEnded)
	assert.False(t, called)
}

func TestWithAccessToken_RetriesOnceAfterRefresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	updater := mocks.NewMockProfileUpdater(ctrl)
	api := fakes.NewFakeIdentityAPI()
	sess := newTestSession(api, memory.NewTokenStore())
	_, err := sess.Login(context.Background(), validLogin())
	require.NoError(t, err)

	gomock.InOrder(
		updater.EXPECT().UpdateProfile(gomock.Any(), fakes.AccessToken, gomock.Any()).
			Return(domainauth.User{}, apperrors.Unauthorized("expired")),
		updater.EXPECT().UpdateProfile(gomock.Any(), "access-2", gomock.Any()).
			Return(fakes.DefaultUser(), nil),
	)

	_, err = NewProfileService(updater).Update(context.Background(), sess, map[string]any{"first_name": "Jean"})
	require.NoError(t, err)
	assert.Equal(t, 1, api.CallCount("refresh"))
}

func TestWithAccessToken_RefreshFailureEndsSessionWithoutRetry(t *testing.T) {
	api := fakes.NewFakeIdentityAPI()
	api.RefreshFunc = func(context.Context, string) (ports.RefreshResult, error) {
		return ports.RefreshResult{}, apperrors.Unauthorized("blacklisted")
	}
	backend := memory.NewTokenStore()
	sess := newTestSession(api, backend)
	_, err := sess.Login(context.Background(), validLogin())
	require.NoError(t, err)

	calls := 0
	err = WithAccessToken(context.Background(), sess, func(context.Context, string) error {
		calls++
		return apperrors.Unauthorized("expired")
	})
	require.ErrorIs(t, err, ErrSessionEnded)
	assert.Equal(t, 1, calls)
	assert.False(t, sess.Snapshot().IsAuthenticated())
	assert.True(t, storedTokens(backend).Empty())

	err = WithAccessToken(context.Background(), sess, func(context.Context, string) error {
		calls++
		return nil
	})
	require.ErrorIs(t, err, ErrSessionEnded)
	assert.Equal(t, 1, calls)
}
