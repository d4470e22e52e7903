package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/intego360/intego-ui/config"
	"github.com/intego360/intego-ui/internal/migrate"
)

const connectTimeout = 5 * time.Second

// DatabaseConfig contains configuration for database connections.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectDB opens the token database through the pgx stdlib bridge and pings it.
func ConnectDB(cfg DatabaseConfig) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(cfg.DBConfig.URL())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	db := stdlib.OpenDB(*connCfg)

	db.SetMaxOpenConns(cfg.DBConfig.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DBConfig.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if pingErr := db.PingContext(ctx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close database connection: %w", closeErr))
		}
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("database connected",
			"host", cfg.DBConfig.Host,
			"port", cfg.DBConfig.Port,
			"database", cfg.DBConfig.Name,
		)
	}
	return db, nil
}

// redisTarget is a resolved connection plan. cluster forces a cluster client
// even when only one seed address is known.
type redisTarget struct {
	opts    *redis.UniversalOptions
	desc    string
	cluster bool
}

func (t redisTarget) client() redis.UniversalClient { //nolint:ireturn // mode is decided at runtime.
	if t.cluster {
		return redis.NewClusterClient(t.opts.Cluster())
	}
	return redis.NewUniversalClient(t.opts)
}

// redisOptions maps REDIS_* settings onto one UniversalOptions value.
func redisOptions(cfg config.RedisConfig) (redisTarget, error) {
	switch {
	case cfg.UseSentinel:
		nodes := normalizeAddrs(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return redisTarget{}, errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		return redisTarget{
			opts: &redis.UniversalOptions{
				Addrs:            nodes,
				MasterName:       cfg.SentinelMasterName,
				Password:         cfg.Password,
				SentinelPassword: cfg.SentinelPassword,
			},
			desc: "sentinel:" + cfg.SentinelMasterName,
		}, nil

	case cfg.UseCluster:
		opts := &redis.UniversalOptions{Addrs: normalizeAddrs(cfg.ClusterNodes), Password: cfg.Password}
		if len(opts.Addrs) == 0 {
			single, err := singleNodeOptions(cfg)
			if err != nil {
				return redisTarget{}, err
			}
			opts.Addrs = []string{single.Addr}
			opts.Username = single.Username
			opts.Password = single.Password
			opts.TLSConfig = single.TLSConfig
		}
		return redisTarget{opts: opts, desc: "cluster:" + strings.Join(opts.Addrs, ","), cluster: true}, nil

	default:
		single, err := singleNodeOptions(cfg)
		if err != nil {
			return redisTarget{}, err
		}
		return redisTarget{
			opts: &redis.UniversalOptions{
				Addrs:     []string{single.Addr},
				Username:  single.Username,
				Password:  single.Password,
				DB:        single.DB,
				TLSConfig: single.TLSConfig,
			},
			desc: single.Addr,
		}, nil
	}
}

// singleNodeOptions accepts REDIS_URI either as host:port or as a redis:// URL.
func singleNodeOptions(cfg config.RedisConfig) (*redis.Options, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, errors.New("redis configuration requires a URI")
	}
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		return &redis.Options{Addr: uri, Password: cfg.Password}, nil
	}
	opt, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opt.Password == "" {
		opt.Password = cfg.Password
	}
	return opt, nil
}

// ConnectRedis connects to a single node, a sentinel group, or a cluster and pings it.
//
//nolint:ireturn // returning redis.UniversalClient lets us pick single, sentinel, or cluster clients at runtime.
func ConnectRedis(cfg DatabaseConfig) (redis.UniversalClient, error) {
	target, err := redisOptions(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}
	client := target.client()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("redis connected", "addr", target.desc)
	}
	return client, nil
}

func normalizeAddrs(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// RunMigrations applies the embedded schema.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "database migrations completed")
	}
	return nil
}
