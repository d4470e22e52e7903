package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/intego360/intego-ui/internal/adapters/memory"
	authmocks "github.com/intego360/intego-ui/internal/mocks/auth"
	"github.com/intego360/intego-ui/internal/ports"
	"github.com/intego360/intego-ui/internal/service"
)

const testCSRFToken = "test-csrf-token"

// TestApp is a fully wired router backed by fakes, for handler tests.
type TestApp struct {
	Handler  http.Handler
	Registry *service.ClientRegistry
	Identity *authmocks.FakeIdentityAPI
	Backends *memory.Factory
	ClientID string
}

// TestAppOptions customizes NewTestApp.
type TestAppOptions struct {
	Data          ports.SectorDataAPI
	Identity      *authmocks.FakeIdentityAPI
	HealthChecks  map[string]HealthCheck
	BootstrapWait time.Duration
}

// NewTestApp builds the router with an in-memory token backend and a fake
// Identity API. Requests made through Do belong to one browser client.
func NewTestApp(t *testing.T, opts TestAppOptions) *TestApp {
	t.Helper()
	identity := opts.Identity
	if identity == nil {
		identity = authmocks.NewFakeIdentityAPI()
	}
	backends := memory.NewFactory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := service.NewClientRegistry(service.ClientRegistryOptions{
		Identity: identity,
		Backends: backends,
		IdleTTL:  time.Hour,
		Logger:   logger,
	})
	t.Cleanup(registry.Close)

	handler, err := NewRouter(RouterServices{
		Clients:           registry,
		Data:              opts.Data,
		Profiles:          service.NewProfileService(identity),
		HealthChecks:      opts.HealthChecks,
		BootstrapWait:     opts.BootstrapWait,
		LoadingRetryAfter: time.Second,
		Logger:            logger,
	})
	require.NoError(t, err)

	return &TestApp{
		Handler:  handler,
		Registry: registry,
		Identity: identity,
		Backends: backends,
		ClientID: service.NewClientID(),
	}
}

// Client returns the hosted state of the test browser.
func (a *TestApp) Client() *service.Client { return a.Registry.Get(a.ClientID) }

// SignIn logs the test browser in with the fake's valid credentials.
func (a *TestApp) SignIn(t *testing.T) {
	t.Helper()
	state, err := a.Client().Session.Login(context.Background(), ports.LoginInput{
		Username: authmocks.ValidUsername,
		Password: authmocks.ValidPassword,
	})
	require.NoError(t, err)
	require.True(t, state.IsAuthenticated())
}

// Request describes one request made by the test browser.
type Request struct {
	Method string
	Path   string
	Form   url.Values
	Accept string
	HTMX   bool
}

// Do sends req with the client and CSRF cookies attached.
func (a *TestApp) Do(req Request) *httptest.ResponseRecorder {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}
	r := httptest.NewRequest(req.Method, req.Path, body)
	if req.Form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	accept := req.Accept
	if accept == "" {
		accept = "text/html"
	}
	r.Header.Set("Accept", accept)
	if req.HTMX {
		r.Header.Set("Hx-Request", "true")
	}
	r.AddCookie(&http.Cookie{Name: ClientCookieName, Value: a.ClientID})
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	r.Header.Set(DefaultCSRFHeaderName, testCSRFToken)

	w := httptest.NewRecorder()
	a.Handler.ServeHTTP(w, r)
	return w
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func newFormRequest(req Request) *http.Request {
	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}
	r := httptest.NewRequest(req.Method, req.Path, body)
	if req.Form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	r.Header.Set("Accept", "text/html")
	return r
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}
