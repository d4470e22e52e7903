// Package identityapi is the HTTP client for the Intego360 Identity API
// (the /auth endpoints of the REST backend).
package identityapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	apperrors "github.com/intego360/intego-ui/internal/errors"
	"github.com/intego360/intego-ui/internal/ports"
)

// MessageExpression selects the human-readable reason from an error body.
const MessageExpression = "detail || message || error || non_field_errors[0]"

const maxBodyBytes = 1 << 20

// Config configures the client.
type Config struct {
	// BaseURL is the API root, e.g. https://api.intego360.rw/api/v1.
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// Client talks to the Identity API.
type Client struct {
	base   *url.URL
	client *http.Client
}

var (
	_ ports.IdentityAPI    = (*Client)(nil)
	_ ports.ProfileUpdater = (*Client)(nil)
)

// NewClient validates cfg and builds a client.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("identity api base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse identity api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("identity api base url must be http or https, got %q", base.Scheme)
	}
	if _, err := jmespath.Compile(MessageExpression); err != nil {
		return nil, fmt.Errorf("compile message expression: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{base: base, client: hc}, nil
}

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me,omitempty"`
}

type loginResponse struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    domainauth.User `json:"user"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login calls POST /auth/login/.
func (c *Client) Login(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
	var out loginResponse
	body := loginRequest{Username: in.Username, Password: in.Password, RememberMe: in.RememberMe}
	if err := c.do(ctx, request{method: http.MethodPost, path: "auth/login/", body: body}, &out); err != nil {
		return ports.LoginResult{}, err
	}
	if out.Access == "" || out.Refresh == "" {
		return ports.LoginResult{}, apperrors.Internal("identity api login response is missing tokens")
	}
	return ports.LoginResult{
		Tokens: domainauth.Tokens{Access: out.Access, Refresh: out.Refresh},
		User:   out.User,
	}, nil
}

// Refresh calls POST /auth/refresh/.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (ports.RefreshResult, error) {
	var out refreshResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "auth/refresh/", body: refreshRequest{Refresh: refreshToken}}, &out); err != nil {
		return ports.RefreshResult{}, err
	}
	if out.Access == "" {
		return ports.RefreshResult{}, apperrors.Internal("identity api refresh response is missing the access token")
	}
	return ports.RefreshResult{Access: out.Access, Refresh: out.Refresh}, nil
}

// CurrentUser calls GET /auth/users/me/.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (domainauth.User, error) {
	var out domainauth.User
	err := c.do(ctx, request{method: http.MethodGet, path: "auth/users/me/", bearer: accessToken}, &out)
	return out, err
}

// UpdateProfile calls PATCH /auth/users/update_profile/.
func (c *Client) UpdateProfile(ctx context.Context, accessToken string, fields map[string]any) (domainauth.User, error) {
	var out domainauth.User
	err := c.do(ctx, request{method: http.MethodPatch, path: "auth/users/update_profile/", bearer: accessToken, body: fields}, &out)
	return out, err
}

type request struct {
	method string
	path   string
	bearer string
	body   any
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var reader io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", r.path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.base.JoinPath(r.path).String(), reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.Unavailable("identity api unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apperrors.Unavailable("read identity api response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ResponseError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode identity api response")
	}
	return nil
}

// ResponseError converts a non-2xx answer into an AppError whose Message is
// the server's reason (empty when the body carries none).
func ResponseError(status int, body []byte) *apperrors.AppError {
	code := apperrors.ErrCodeValidation
	switch {
	case status == http.StatusUnauthorized:
		code = apperrors.ErrCodeUnauthorized
	case status == http.StatusForbidden:
		code = apperrors.ErrCodeForbidden
	case status == http.StatusNotFound:
		code = apperrors.ErrCodeNotFound
	case status >= 500:
		code = apperrors.ErrCodeUnavailable
	}
	return &apperrors.AppError{
		Code:    code,
		Message: ExtractMessage(body),
		Status:  status,
		Cause:   fmt.Errorf("identity api returned status %d", status),
	}
}

// ExtractMessage evaluates MessageExpression against a JSON error body.
func ExtractMessage(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}
	v, err := jmespath.Search(MessageExpression, doc)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
