package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	"github.com/intego360/intego-ui/internal/ports"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	s := NewTokenStore()
	ctx := context.Background()

	_, err := s.Load(ctx, domainauth.TokenAccess)
	require.ErrorIs(t, err, ports.ErrTokenNotFound)

	require.NoError(t, s.Store(ctx, domainauth.TokenAccess, "a"))
	got, err := s.Load(ctx, domainauth.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	require.NoError(t, s.Remove(ctx, domainauth.TokenAccess, domainauth.TokenRefresh))
	require.NoError(t, s.Remove(ctx, domainauth.TokenAccess))
	_, err = s.Load(ctx, domainauth.TokenAccess)
	assert.ErrorIs(t, err, ports.ErrTokenNotFound)
}

func TestTokenStore_StoreEmptyRemoves(t *testing.T) {
	s := NewTokenStore()
	ctx := context.Background()
	require.NoError(t, s.Store(ctx, domainauth.TokenRefresh, "r"))
	require.NoError(t, s.Store(ctx, domainauth.TokenRefresh, ""))
	_, err := s.Load(ctx, domainauth.TokenRefresh)
	assert.ErrorIs(t, err, ports.ErrTokenNotFound)
}

func TestFactory_SharesDataAcrossViews(t *testing.T) {
	f := NewFactory()
	ctx := context.Background()

	require.NoError(t, f.ForNamespace("c1").Store(ctx, domainauth.TokenAccess, "x"))

	got, err := f.ForNamespace("c1").Load(ctx, domainauth.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	_, err = f.ForNamespace("c2").Load(ctx, domainauth.TokenAccess)
	assert.ErrorIs(t, err, ports.ErrTokenNotFound)
}
