package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/intego360/intego-ui/config"
	"github.com/intego360/intego-ui/internal/adapters/filestore"
	"github.com/intego360/intego-ui/internal/adapters/memory"
	redisadapter "github.com/intego360/intego-ui/internal/adapters/redis"
	"github.com/intego360/intego-ui/internal/data"
	httpx "github.com/intego360/intego-ui/internal/http"
	"github.com/intego360/intego-ui/internal/ports"
)

// TokenBackendConfig contains dependencies for building the token backend.
type TokenBackendConfig struct {
	Tokens      config.TokenStoreConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildTokenBackends returns the namespaced token backend selected by
// TOKEN_STORE_BACKEND.
//
//nolint:ireturn // the concrete backend is chosen at runtime.
func BuildTokenBackends(cfg TokenBackendConfig) (ports.TokenBackendFactory, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Tokens.Backend {
	case config.TokenBackendRedis:
		if cfg.RedisClient == nil {
			return nil, errors.New("redis token backend requires a redis client")
		}
		logger.Info("token store backend", "backend", "redis", "prefix", cfg.Tokens.Prefix, "ttl", cfg.Tokens.TTL)
		return redisadapter.NewTokenStoreFactory(cfg.RedisClient, cfg.Tokens.Prefix, cfg.Tokens.TTL), nil
	case config.TokenBackendPostgres:
		if cfg.DB == nil {
			return nil, errors.New("postgres token backend requires a database")
		}
		logger.Info("token store backend", "backend", "postgres")
		return data.NewTokenRepo(cfg.DB), nil
	case config.TokenBackendFile:
		dir, err := clientFileDir(cfg.Tokens.File)
		if err != nil {
			return nil, err
		}
		logger.Info("token store backend", "backend", "file", "dir", dir)
		return ports.TokenBackendFactoryFunc(func(namespace string) ports.TokenBackend {
			return filestore.NewTokenStore(filepath.Join(dir, namespace+".yaml"))
		}), nil
	case config.TokenBackendMemory, "":
		logger.Info("token store backend", "backend", "memory")
		return memory.NewFactory(), nil
	default:
		return nil, fmt.Errorf("unknown token backend %q", cfg.Tokens.Backend)
	}
}

// clientFileDir places one credentials file per client next to the configured file.
func clientFileDir(file string) (string, error) {
	if file == "" {
		def, err := filestore.DefaultPath()
		if err != nil {
			return "", err
		}
		file = def
	}
	return filepath.Join(filepath.Dir(file), "clients"), nil
}

// BuildHealthChecks returns /healthz probes for the infrastructure in use.
func BuildHealthChecks(db *sql.DB, redisClient redis.UniversalClient) map[string]httpx.HealthCheck {
	checks := make(map[string]httpx.HealthCheck)
	if db != nil {
		checks["postgres"] = db.PingContext
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}
