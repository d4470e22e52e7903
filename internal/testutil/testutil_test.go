package testutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresURL_Defaults(t *testing.T) {
	for _, key := range []string{"TEST_DB_HOST", "TEST_DB_PORT", "TEST_DB_USER", "TEST_DB_PASSWORD", "TEST_DB_NAME", "DB_SSL_MODE"} {
		t.Setenv(key, "")
	}

	u, err := url.Parse(PostgresURL())
	require.NoError(t, err)
	assert.Equal(t, "localhost:55432", u.Host)
	assert.Equal(t, "intego360", u.User.Username())
	assert.Equal(t, "/intego360", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}

func TestPostgresURL_CIOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "postgres")
	t.Setenv("TEST_DB_PORT", "5432")
	t.Setenv("TEST_DB_PASSWORD", "s3cr/t")

	u, err := url.Parse(PostgresURL())
	require.NoError(t, err)
	assert.Equal(t, "postgres:5432", u.Host)
	pw, _ := u.User.Password()
	assert.Equal(t, "s3cr/t", pw)
}

func TestRequired(t *testing.T) {
	t.Setenv("TEST_REQUIRE_INFRA", "")
	t.Setenv("TEST_REQUIRE_DB", "yes")
	assert.True(t, required("TEST_REQUIRE_DB"))
	assert.False(t, required("TEST_REQUIRE_REDIS"))

	t.Setenv("TEST_REQUIRE_INFRA", "1")
	assert.True(t, required("TEST_REQUIRE_REDIS"))
}
