// Package memory provides in-process adapters used in development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	"github.com/intego360/intego-ui/internal/ports"
)

// TokenStore keeps token slots in a map. All namespaces created through the
// same Factory share one map, so state survives per-client eviction just like
// a durable backend would within the process lifetime.
type TokenStore struct {
	mu        *sync.RWMutex
	data      map[string]string
	namespace string
}

var _ ports.TokenBackend = (*TokenStore)(nil)

// NewTokenStore returns an empty standalone store.
func NewTokenStore() *TokenStore {
	return &TokenStore{mu: &sync.RWMutex{}, data: make(map[string]string)}
}

// Factory hands out namespaced views over one shared map.
type Factory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewFactory creates a Factory.
func NewFactory() *Factory {
	return &Factory{data: make(map[string]string)}
}

// ForNamespace implements ports.TokenBackendFactory.
func (f *Factory) ForNamespace(namespace string) ports.TokenBackend {
	return &TokenStore{mu: &f.mu, data: f.data, namespace: namespace}
}

func (s *TokenStore) key(kind domainauth.TokenKind) string {
	return s.namespace + "/" + string(kind)
}

func (s *TokenStore) Load(_ context.Context, kind domainauth.TokenKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("invalid token kind %q", kind)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[s.key(kind)]
	if !ok || v == "" {
		return "", ports.ErrTokenNotFound
	}
	return v, nil
}

func (s *TokenStore) Store(_ context.Context, kind domainauth.TokenKind, value string) error {
	if !kind.Valid() {
		return fmt.Errorf("invalid token kind %q", kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.data, s.key(kind))
		return nil
	}
	s.data[s.key(kind)] = value
	return nil
}

func (s *TokenStore) Remove(_ context.Context, kinds ...domainauth.TokenKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range kinds {
		delete(s.data, s.key(k))
	}
	return nil
}
