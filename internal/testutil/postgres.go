// Package testutil connects integration tests to the Postgres and Redis
// instances from the docker-compose test profile. Tests skip when the
// infrastructure is absent unless TEST_REQUIRE_INFRA (or the per-store
// TEST_REQUIRE_DB / TEST_REQUIRE_REDIS) is set.
package testutil

import (
	"context"
	"database/sql"
	"net"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/intego360/intego-ui/internal/migrate"
)

const pingTimeout = 2 * time.Second

// PostgresURL returns the test database URL. The local compose profile
// publishes Postgres on 55432; CI overrides TEST_DB_PORT.
func PostgresURL() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(env("TEST_DB_USER", "intego360"), env("TEST_DB_PASSWORD", "intego360")),
		Host:   net.JoinHostPort(env("TEST_DB_HOST", "localhost"), env("TEST_DB_PORT", "55432")),
		Path:   "/" + env("TEST_DB_NAME", "intego360"),
	}
	q := u.Query()
	q.Set("sslmode", env("DB_SSL_MODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

func openPostgres(tb testing.TB, searchPath string) *sql.DB {
	tb.Helper()
	cfg, err := pgx.ParseConfig(PostgresURL())
	if err != nil {
		tb.Fatalf("parse test database url: %v", err)
	}
	if searchPath != "" {
		if cfg.RuntimeParams == nil {
			cfg.RuntimeParams = map[string]string{}
		}
		cfg.RuntimeParams["search_path"] = searchPath
	}
	return stdlib.OpenDB(*cfg)
}

// SkipIfNoTestDB skips tb when the test database does not answer a ping.
func SkipIfNoTestDB(tb testing.TB) {
	tb.Helper()
	db := openPostgres(tb, "")
	defer closeQuietly(tb, "probe db", db)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		unavailable(tb, required("TEST_REQUIRE_DB"), "test database not available: %v", err)
	}
}

// SetupTestDB returns a connection bound to a fresh schema with every
// migration applied. The schema is dropped when tb finishes.
func SetupTestDB(tb testing.TB) *sql.DB {
	tb.Helper()
	SkipIfNoTestDB(tb)

	schema := "t_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	admin := openPostgres(tb, "")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+pgx.Identifier{schema}.Sanitize()); err != nil {
		closeQuietly(tb, "admin db", admin)
		tb.Fatalf("create schema %s: %v", schema, err)
	}

	db := openPostgres(tb, schema)
	tb.Cleanup(func() {
		closeQuietly(tb, "schema db", db)
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dropCancel()
		if _, err := admin.ExecContext(dropCtx, "DROP SCHEMA IF EXISTS "+pgx.Identifier{schema}.Sanitize()+" CASCADE"); err != nil {
			tb.Logf("drop schema %s: %v", schema, err)
		}
		closeQuietly(tb, "admin db", admin)
	})

	if err := migrate.Run(ctx, db); err != nil {
		tb.Fatalf("migrate schema %s: %v", schema, err)
	}
	return db
}

// WithAutoDB runs fn against a migrated, isolated schema.
func WithAutoDB(tb testing.TB, fn func(*sql.DB)) {
	tb.Helper()
	fn(SetupTestDB(tb))
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func truthy(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func required(key string) bool { return truthy(key) || truthy("TEST_REQUIRE_INFRA") }

func unavailable(tb testing.TB, fatal bool, format string, args ...any) {
	tb.Helper()
	if fatal {
		tb.Fatalf(format, args...)
	}
	tb.Skipf(format, args...)
}

func closeQuietly(tb testing.TB, name string, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		tb.Logf("close %s: %v", name, err)
	}
}
