// Package restapi reads sector data from the Intego360 REST API on behalf of
// an authenticated session.
package restapi

import (
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
	"golang.org/x/oauth2"

	"github.com/intego360/intego-ui/internal/domain/sector"
	apperrors "github.com/intego360/intego-ui/internal/errors"
	"github.com/intego360/intego-ui/internal/ports"
)

const maxBodyBytes = 4 << 20

// Config configures the client.
type Config struct {
	// BaseURL is the API root, e.g. https://api.intego360.rw/api/v1.
	BaseURL string
	Timeout time.Duration
	// Transport is the base round tripper; nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// Client fetches read-only sector data.
type Client struct {
	base      *url.URL
	timeout   time.Duration
	transport http.RoundTripper
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("rest api base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse rest api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("rest api base url must be http or https, got %q", base.Scheme)
	}
	for _, s := range sector.All {
		for _, m := range s.Metrics() {
			if _, err := jmespath.Compile(m.Expr); err != nil {
				return nil, fmt.Errorf("compile metric %q: %w", m.Expr, err)
			}
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{base: base, timeout: timeout, transport: transport}, nil
}

var _ ports.SectorDataAPI = (*Client)(nil)

// Overview fetches GET /<sector>/dashboard/overview/.
func (c *Client) Overview(ctx context.Context, session ports.SessionTokens, s sector.Sector) (ports.Overview, error) {
	if !s.Valid() {
		return ports.Overview{}, apperrors.Validation(fmt.Sprintf("unknown sector %q", s))
	}
	var raw map[string]any
	if err := c.get(ctx, session, s.Path()+"/dashboard/overview/", nil, &raw); err != nil {
		return ports.Overview{}, err
	}

	out := ports.Overview{Sector: s, Raw: raw}
	for _, m := range s.Metrics() {
		v, err := jmespath.Search(m.Expr, raw)
		if err != nil {
			v = nil
		}
		out.Metrics = append(out.Metrics, ports.MetricValue{Label: m.Label, Value: v})
	}
	return out, nil
}

// List fetches GET /<sector>/<resource>/. Both paginated ({count, next,
// results}) and bare-array answers are accepted.
func (c *Client) List(ctx context.Context, session ports.SessionTokens, s sector.Sector, resource string, page int) (ports.Page, error) {
	if !s.HasResource(resource) {
		return ports.Page{}, apperrors.NotFoundf("%s has no resource %q", s, resource)
	}
	query := url.Values{}
	if page > 1 {
		query.Set("page", fmt.Sprint(page))
	}

	var raw json.RawMessage
	if err := c.get(ctx, session, s.Path()+"/"+resource+"/", query, &raw); err != nil {
		return ports.Page{}, err
	}
	return decodePage(raw)
}

func decodePage(raw json.RawMessage) (ports.Page, error) {
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err == nil {
		return ports.Page{Count: len(rows), Results: rows}, nil
	}
	var paged struct {
		Count   int              `json:"count"`
		Next    *string          `json:"next"`
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(raw, &paged); err != nil {
		return ports.Page{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode rest api list")
	}
	p := ports.Page{Count: paged.Count, Results: paged.Results}
	if paged.Next != nil {
		p.Next = *paged.Next
	}
	return p, nil
}

// get issues an authorized GET. A 401 is reported to the session once and the
// request is retried with the token it returns. Without a token nothing is sent.
func (c *Client) get(ctx context.Context, session ports.SessionTokens, path string, query url.Values, out any) error {
	token := session.AccessToken()
	if token == "" {
		return ports.ErrSessionEnded
	}

	err := c.fetch(ctx, token, path, query, out)
	if !apperrors.IsUnauthorized(err) {
		return err
	}

	next, refreshErr := session.HandleUnauthorized(ctx, token)
	if refreshErr != nil {
		return errors.Join(ports.ErrSessionEnded, err)
	}
	return c.fetch(ctx, next, path, query, out)
}

func (c *Client) fetch(ctx context.Context, token, path string, query url.Values, out any) error {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	hc := &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.transport,
		},
	}
	resp, err := hc.Do(req)
	if err != nil {
		return apperrors.Unavailable("rest api unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apperrors.Unavailable("read rest api response", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &apperrors.AppError{Code: apperrors.ErrCodeUnauthorized, Message: "access token rejected", Status: resp.StatusCode}
	case resp.StatusCode == http.StatusForbidden:
		return &apperrors.AppError{Code: apperrors.ErrCodeForbidden, Message: "not permitted", Status: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		return &apperrors.AppError{Code: apperrors.ErrCodeNotFound, Message: "not found", Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeUnavailable,
			Message: fmt.Sprintf("rest api returned status %d", resp.StatusCode),
			Status:  resp.StatusCode,
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode rest api response")
	}
	return nil
}
