package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	"github.com/intego360/intego-ui/internal/ports"
)

func TestTokenStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.yaml")
	ctx := context.Background()

	s := NewTokenStore(path)
	require.NoError(t, s.Store(ctx, domainauth.TokenAccess, "acc"))
	require.NoError(t, s.Store(ctx, domainauth.TokenRefresh, "ref"))

	reopened := NewTokenStore(path)
	got, err := reopened.Load(ctx, domainauth.TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, "ref", got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]string
	require.NoError(t, yaml.Unmarshal(raw, &decoded))
	assert.Equal(t, map[string]string{"access_token": "acc", "refresh_token": "ref"}, decoded)
}

func TestTokenStore_RemoveAllDeletesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	ctx := context.Background()
	s := NewTokenStore(path)

	require.NoError(t, s.Store(ctx, domainauth.TokenAccess, "acc"))
	require.NoError(t, s.Remove(ctx, domainauth.TokenKinds...))
	require.NoError(t, s.Remove(ctx, domainauth.TokenKinds...))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	_, err = s.Load(ctx, domainauth.TokenAccess)
	assert.ErrorIs(t, err, ports.ErrTokenNotFound)
}

func TestTokenStore_RemoveOneKeepsOther(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	ctx := context.Background()
	s := NewTokenStore(path)

	require.NoError(t, s.Store(ctx, domainauth.TokenAccess, "acc"))
	require.NoError(t, s.Store(ctx, domainauth.TokenRefresh, "ref"))
	require.NoError(t, s.Remove(ctx, domainauth.TokenAccess))

	_, err := s.Load(ctx, domainauth.TokenAccess)
	require.ErrorIs(t, err, ports.ErrTokenNotFound)
	got, err := s.Load(ctx, domainauth.TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, "ref", got)
}

func TestTokenStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("access_token: [unterminated"), 0o600))

	_, err := NewTokenStore(path).Load(context.Background(), domainauth.TokenAccess)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrTokenNotFound)
}
