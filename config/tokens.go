package config

import (
	"fmt"
	"strings"
	"time"
)

// TokenBackend selects where access and refresh tokens are persisted.
type TokenBackend string

const (
	TokenBackendMemory   TokenBackend = "memory"
	TokenBackendRedis    TokenBackend = "redis"
	TokenBackendPostgres TokenBackend = "postgres"
	TokenBackendFile     TokenBackend = "file"
)

// UnmarshalText implements encoding.TextUnmarshaler for TokenBackend.
func (b *TokenBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch TokenBackend(v) {
	case TokenBackendMemory, TokenBackendRedis, TokenBackendPostgres, TokenBackendFile:
		*b = TokenBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid TokenBackend: %q (valid options: memory, redis, postgres, file)", v)
	}
}

// TokenStoreConfig configures the token store backend.
type TokenStoreConfig struct {
	Backend TokenBackend `env:"TOKEN_STORE_BACKEND" envDefault:"memory"`

	// Prefix namespaces Redis keys.
	Prefix string `env:"TOKEN_STORE_PREFIX" envDefault:"intego360:tokens:"`

	// TTL expires idle Redis token keys. Zero keeps them until logout.
	TTL time.Duration `env:"TOKEN_STORE_TTL" envDefault:"0s"`

	// File is the credentials file used by the file backend. Empty uses the
	// per-user config directory.
	File string `env:"TOKEN_STORE_FILE"`

	// PurgeAfter removes Postgres token rows not written for this long.
	PurgeAfter time.Duration `env:"TOKEN_STORE_PURGE_AFTER" envDefault:"720h"`

	// PurgeInterval is how often the token janitor runs.
	PurgeInterval time.Duration `env:"TOKEN_STORE_PURGE_INTERVAL" envDefault:"1h"`
}

// Sanitize clamps durations.
func (c *TokenStoreConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = TokenBackendMemory
	}
	if c.TTL < 0 {
		c.TTL = 0
	}
	if c.PurgeAfter <= 0 {
		c.PurgeAfter = 720 * time.Hour
	}
	if c.PurgeInterval < time.Minute {
		c.PurgeInterval = time.Minute
	}
	c.File = strings.TrimSpace(c.File)
}
