// Package filestore persists tokens in a YAML credentials file. It backs the
// command-line client, where the whole process is a single namespace.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	"github.com/intego360/intego-ui/internal/ports"
)

// credentialsFile is the on-disk layout.
type credentialsFile struct {
	Access  string `yaml:"access_token,omitempty"`
	Refresh string `yaml:"refresh_token,omitempty"`
}

func (c *credentialsFile) slot(kind domainauth.TokenKind) *string {
	if kind == domainauth.TokenAccess {
		return &c.Access
	}
	return &c.Refresh
}

// TokenStore reads and rewrites the credentials file on every call.
type TokenStore struct {
	mu   sync.Mutex
	path string
}

var _ ports.TokenBackend = (*TokenStore)(nil)

// NewTokenStore creates a store over path. The file is created on first write.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// DefaultPath returns ~/.config/intego360/credentials.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "intego360", "credentials.yaml"), nil
}

// Path returns the backing file.
func (s *TokenStore) Path() string { return s.path }

func (s *TokenStore) read() (credentialsFile, error) {
	var creds credentialsFile
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return creds, nil
		}
		return creds, fmt.Errorf("read credentials: %w", err)
	}
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return creds, fmt.Errorf("parse credentials: %w", err)
	}
	return creds, nil
}

// write replaces the file atomically with mode 0600.
func (s *TokenStore) write(creds credentialsFile) error {
	if creds.Access == "" && creds.Refresh == "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove credentials: %w", err)
		}
		return nil
	}

	data, err := yaml.Marshal(&creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod credentials: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close credentials: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}

func (s *TokenStore) Load(_ context.Context, kind domainauth.TokenKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("invalid token kind %q", kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.read()
	if err != nil {
		return "", err
	}
	if v := *creds.slot(kind); v != "" {
		return v, nil
	}
	return "", ports.ErrTokenNotFound
}

func (s *TokenStore) Store(_ context.Context, kind domainauth.TokenKind, value string) error {
	if !kind.Valid() {
		return fmt.Errorf("invalid token kind %q", kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.read()
	if err != nil {
		return err
	}
	*creds.slot(kind) = value
	return s.write(creds)
}

func (s *TokenStore) Remove(_ context.Context, kinds ...domainauth.TokenKind) error {
	if len(kinds) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.read()
	if err != nil {
		return err
	}
	for _, k := range kinds {
		if k.Valid() {
			*creds.slot(k) = ""
		}
	}
	return s.write(creds)
}
