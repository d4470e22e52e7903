package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieDomain is the domain for client and CSRF cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// ClientIdleTTL evicts a browser's in-memory session after this much inactivity.
	ClientIdleTTL time.Duration `env:"CLIENT_IDLE_TTL" envDefault:"30m"`

	// BootstrapWait is how long a navigation blocks on session restore before
	// the loading page is served instead.
	BootstrapWait time.Duration `env:"HTTP_BOOTSTRAP_WAIT" envDefault:"3s"`
	// LoadingRetryAfter is advertised on the bootstrap loading page.
	LoadingRetryAfter time.Duration `env:"HTTP_LOADING_RETRY_AFTER" envDefault:"1s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.CookieDomain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h.CookieDomain)), ".")
	if h.ClientIdleTTL < time.Minute {
		h.ClientIdleTTL = time.Minute
	}
	if h.BootstrapWait < 0 {
		h.BootstrapWait = 0
	}
	if h.LoadingRetryAfter < time.Second {
		h.LoadingRetryAfter = time.Second
	}
}

// Validate rejects a cookie domain that is itself a public suffix; browsers
// drop such cookies.
func (h *HTTPConfig) Validate() error {
	if h.CookieDomain == "" || h.CookieDomain == "localhost" {
		return nil
	}
	suffix, _ := publicsuffix.PublicSuffix(h.CookieDomain)
	if suffix == h.CookieDomain {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q is a public suffix", h.CookieDomain)
	}
	return nil
}
