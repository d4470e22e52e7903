package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intego360/intego-ui/internal/domain/sector"
	apperrors "github.com/intego360/intego-ui/internal/errors"
	"github.com/intego360/intego-ui/internal/ports"
)

type fakeSession struct {
	token     string
	next      string
	err       error
	refreshes int
}

func (f *fakeSession) AccessToken() string { return f.token }

func (f *fakeSession) HandleUnauthorized(_ context.Context, rejected string) (string, error) {
	f.refreshes++
	if f.err != nil {
		f.token = ""
		return "", f.err
	}
	if rejected == f.token {
		f.token = f.next
	}
	return f.token, nil
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL + "/api/v1"})
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
	_, err = NewClient(Config{BaseURL: "file:///tmp"})
	require.Error(t, err)
}

func TestClient_Overview(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/health/dashboard/overview/", r.URL.Path)
		assert.Equal(t, "Bearer acc-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"overview_stats": {"total_facilities": 12, "total_beds": 340, "active_alerts": 2}}`))
	})

	ov, err := c.Overview(context.Background(), &fakeSession{token: "acc-1"}, sector.Health)
	require.NoError(t, err)
	assert.Equal(t, sector.Health, ov.Sector)
	require.Len(t, ov.Metrics, len(sector.Health.Metrics()))
	assert.Equal(t, "Facilities", ov.Metrics[0].Label)
	assert.EqualValues(t, 12, ov.Metrics[0].Value)
	assert.EqualValues(t, 340, ov.Metrics[1].Value)
	assert.Nil(t, ov.Metrics[2].Value)
}

func TestClient_NoTokenSendsNothing(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	_, err := c.Overview(context.Background(), &fakeSession{}, sector.Agriculture)
	require.ErrorIs(t, err, ports.ErrSessionEnded)
	assert.Zero(t, hits.Load())
}

func TestClient_RetriesOnceAfterRefresh(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer acc-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id": 1, "name": "Koperative Abahuzamugambi"}]`))
	})

	sess := &fakeSession{token: "acc-1", next: "acc-2"}
	page, err := c.List(context.Background(), sess, sector.Agriculture, "cooperatives", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.refreshes)
	assert.EqualValues(t, 2, hits.Load())
	require.Len(t, page.Results, 1)
	assert.Equal(t, 1, page.Count)
}

func TestClient_RefreshFailureEndsSession(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	sess := &fakeSession{token: "acc-1", err: ports.ErrSessionEnded}
	_, err := c.Overview(context.Background(), sess, sector.Education)
	require.ErrorIs(t, err, ports.ErrSessionEnded)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.EqualValues(t, 1, hits.Load())
}

func TestClient_ListPaginated(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/education/schools/", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"count": 41, "next": "http://x/?page=3", "results": [{"id": 21}, {"id": 22}]}`))
	})

	page, err := c.List(context.Background(), &fakeSession{token: "t"}, sector.Education, "schools", 2)
	require.NoError(t, err)
	assert.Equal(t, 41, page.Count)
	assert.Equal(t, "http://x/?page=3", page.Next)
	assert.Len(t, page.Results, 2)
}

func TestClient_ListUnknownResource(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Fail(t, "unexpected request")
	})
	_, err := c.List(context.Background(), &fakeSession{token: "t"}, sector.Health, "schools", 1)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusForbidden, apperrors.IsForbidden},
		{http.StatusNotFound, apperrors.IsNotFound},
		{http.StatusBadGateway, apperrors.IsUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := c.Overview(context.Background(), &fakeSession{token: "t"}, sector.Agriculture)
			require.Error(t, err)
			assert.True(t, tt.check(err))
			assert.False(t, errors.Is(err, ports.ErrSessionEnded))
		})
	}
}
