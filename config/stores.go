package config

import (
	"net"
	"net/url"
	"strconv"
)

// DBConfig locates the Postgres database that backs TOKEN_STORE_BACKEND=postgres
// and the token janitor. Variables carry the DB_ prefix.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"intego360"`
	Password string `env:"PASSWORD" envDefault:"intego360"`
	Name     string `env:"NAME"     envDefault:"intego360"`
	// SSLMode is passed through to libpq semantics; use require outside local dev.
	SSLMode string `env:"SSL_MODE" envDefault:"disable"`

	MaxOpenConns int `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int `env:"MAX_IDLE_CONNS" envDefault:"2"`

	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// URL renders the connection string. Credentials are escaped.
func (c DBConfig) URL() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// RedisConfig locates Redis for TOKEN_STORE_BACKEND=redis. Variables carry the
// REDIS_ prefix. URI is host:port or a redis:// URL; sentinel and cluster
// modes use their node lists instead.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`

	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"`

	UseCluster   bool     `env:"USE_CLUSTER"   envDefault:"false"`
	ClusterNodes []string `env:"CLUSTER_NODES"`
}
