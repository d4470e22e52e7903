package httpx

import (
	"context"
	"net/http"

	"github.com/intego360/intego-ui/internal/service"
)

// ClientSource resolves a client id to its hosted session. *service.ClientRegistry
// implements it.
type ClientSource interface {
	Get(id string) *service.Client
}

var _ ClientSource = (*service.ClientRegistry)(nil)

type clientKey struct{}

// WithClient returns a child context carrying client. A nil client leaves ctx unchanged.
func WithClient(ctx context.Context, client *service.Client) context.Context {
	if client == nil {
		return ctx
	}
	return context.WithValue(ctx, clientKey{}, client)
}

// ClientFromContext returns the browser client resolved by ClientIdentity.
func ClientFromContext(ctx context.Context) (*service.Client, bool) {
	c, ok := ctx.Value(clientKey{}).(*service.Client)
	return c, ok && c != nil
}

// ClientConfig configures ClientIdentity.
type ClientConfig struct {
	Clients      ClientSource
	CookieDomain string
}

// ClientIdentity attaches the browser's client record to the request context.
// A missing or malformed client_id cookie is replaced with a fresh id, which
// starts an unauthenticated session.
func ClientIdentity(cfg ClientConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(ClientCookieName); err == nil && service.ValidClientID(c.Value) {
				id = c.Value
			}
			if id == "" {
				id = service.NewClientID()
				setClientCookie(w, r, cfg.CookieDomain, id)
			}

			client := cfg.Clients.Get(id)
			next.ServeHTTP(w, r.WithContext(WithClient(r.Context(), client)))
		})
	}
}

func setClientCookie(w http.ResponseWriter, r *http.Request, domain, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookieName,
		Value:    id,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(clientCookieMaxAge.Seconds()),
	})
}
