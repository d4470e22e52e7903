package service

import (
	"context"
	"errors"
	"log/slog"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	"github.com/intego360/intego-ui/internal/ports"
)

// TokenStore is the session's view of durable token storage. Its operations
// never fail from the caller's point of view: a failed read is reported as an
// absent slot and a failed write is logged and dropped. A storage outage can
// therefore lose a write; the next login or refresh rewrites the slot.
type TokenStore struct {
	backend ports.TokenBackend
	logger  *slog.Logger
}

// TokenStoreOptions groups dependencies for TokenStore.
type TokenStoreOptions struct {
	Backend ports.TokenBackend
	Logger  *slog.Logger
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(opts TokenStoreOptions) *TokenStore {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenStore{
		backend: opts.Backend,
		logger:  logger.With("component", "token_store"),
	}
}

// Get returns the stored token for kind, if any.
func (s *TokenStore) Get(ctx context.Context, kind domainauth.TokenKind) (string, bool) {
	v, err := s.backend.Load(ctx, kind)
	if err != nil {
		if !errors.Is(err, ports.ErrTokenNotFound) {
			s.logger.WarnContext(ctx, "token store read failed", "kind", string(kind), "error", err)
		}
		return "", false
	}
	return v, v != ""
}

// Tokens reads both slots.
func (s *TokenStore) Tokens(ctx context.Context) domainauth.Tokens {
	access, _ := s.Get(ctx, domainauth.TokenAccess)
	refresh, _ := s.Get(ctx, domainauth.TokenRefresh)
	return domainauth.Tokens{Access: access, Refresh: refresh}
}

// Set overwrites the slot for kind.
func (s *TokenStore) Set(ctx context.Context, kind domainauth.TokenKind, value string) {
	if err := s.backend.Store(ctx, kind, value); err != nil {
		s.logger.ErrorContext(ctx, "token store write failed", "kind", string(kind), "error", err)
	}
}

// SetTokens writes both slots.
func (s *TokenStore) SetTokens(ctx context.Context, t domainauth.Tokens) {
	s.Set(ctx, domainauth.TokenAccess, t.Access)
	s.Set(ctx, domainauth.TokenRefresh, t.Refresh)
}

// Clear removes the slot for kind. Clearing an empty slot is a no-op.
func (s *TokenStore) Clear(ctx context.Context, kind domainauth.TokenKind) {
	if err := s.backend.Remove(ctx, kind); err != nil {
		s.logger.ErrorContext(ctx, "token store clear failed", "kind", string(kind), "error", err)
	}
}

// ClearAll removes both slots.
func (s *TokenStore) ClearAll(ctx context.Context) {
	if err := s.backend.Remove(ctx, domainauth.TokenKinds...); err != nil {
		s.logger.ErrorContext(ctx, "token store clear failed", "kind", "all", "error", err)
	}
}
