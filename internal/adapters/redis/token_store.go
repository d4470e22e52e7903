package redis

// Package redis provides Redis-based adapters for the Intego360 UI.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	"github.com/intego360/intego-ui/internal/ports"
)

// DefaultTokenPrefix is the key prefix used when none is configured.
const DefaultTokenPrefix = "tokens:"

// TokenStore is a Redis-backed token backend for one namespace.
// Keys are laid out as <prefix><namespace>:<kind>.
type TokenStore struct {
	client    redis.UniversalClient
	prefix    string
	namespace string
	ttl       time.Duration
}

var _ ports.TokenBackend = (*TokenStore)(nil)

// TokenStoreOptions configures NewTokenStore.
type TokenStoreOptions struct {
	Prefix    string
	Namespace string
	// TTL expires slots that have not been rewritten; zero keeps them forever.
	TTL time.Duration
}

// NewTokenStore creates a Redis token backend.
func NewTokenStore(client redis.UniversalClient, opts TokenStoreOptions) *TokenStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultTokenPrefix
	}
	return &TokenStore{
		client:    client,
		prefix:    prefix,
		namespace: opts.Namespace,
		ttl:       opts.TTL,
	}
}

// NewTokenStoreFactory returns a factory producing one backend per namespace over a shared client.
func NewTokenStoreFactory(client redis.UniversalClient, prefix string, ttl time.Duration) ports.TokenBackendFactory {
	return ports.TokenBackendFactoryFunc(func(namespace string) ports.TokenBackend {
		return NewTokenStore(client, TokenStoreOptions{Prefix: prefix, Namespace: namespace, TTL: ttl})
	})
}

func (s *TokenStore) key(kind domainauth.TokenKind) string {
	if s.namespace == "" {
		return s.prefix + string(kind)
	}
	return s.prefix + s.namespace + ":" + string(kind)
}

func (s *TokenStore) Load(ctx context.Context, kind domainauth.TokenKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("invalid token kind %q", kind)
	}

	val, err := s.client.Get(ctx, s.key(kind)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrTokenNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	if val == "" {
		return "", ports.ErrTokenNotFound
	}
	return val, nil
}

func (s *TokenStore) Store(ctx context.Context, kind domainauth.TokenKind, value string) error {
	if !kind.Valid() {
		return fmt.Errorf("invalid token kind %q", kind)
	}
	if value == "" {
		return s.Remove(ctx, kind)
	}
	if err := s.client.Set(ctx, s.key(kind), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *TokenStore) Remove(ctx context.Context, kinds ...domainauth.TokenKind) error {
	if len(kinds) == 0 {
		return nil
	}
	keys := make([]string, 0, len(kinds))
	for _, k := range kinds {
		keys = append(keys, s.key(k))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
