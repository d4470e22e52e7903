package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// IdentityConfig points at the Intego360 REST API.
type IdentityConfig struct {
	// APIURL is the API root that serves /auth/login/, /auth/refresh/ and /auth/users/me/.
	APIURL string `env:"IDENTITY_API_URL" envDefault:"http://localhost:8000/api/v1"`

	// DataAPIURL serves the sector endpoints. Defaults to APIURL.
	DataAPIURL string `env:"DATA_API_URL"`

	// Timeout bounds every outbound API call.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
}

// Sanitize normalises URLs and enforces a positive timeout.
func (c *IdentityConfig) Sanitize() {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	c.DataAPIURL = strings.TrimRight(strings.TrimSpace(c.DataAPIURL), "/")
	if c.DataAPIURL == "" {
		c.DataAPIURL = c.APIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
}

// Validate checks that both API roots are absolute http(s) URLs.
func (c *IdentityConfig) Validate() error {
	for name, raw := range map[string]string{"IDENTITY_API_URL": c.APIURL, "DATA_API_URL": c.DataAPIURL} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
		}
	}
	return nil
}
