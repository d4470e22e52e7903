package identityapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	apperrors "github.com/intego360/intego-ui/internal/errors"
	"github.com/intego360/intego-ui/internal/ports"
)

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
	_, err = NewClient(Config{BaseURL: "ftp://example.com"})
	require.Error(t, err)
	_, err = NewClient(Config{BaseURL: "https://api.example.com/api/v1"})
	require.NoError(t, err)
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mayor_gasabo", body["username"])
		assert.Equal(t, true, body["remember_me"])

		_, _ = w.Write([]byte(`{
			"access": "acc", "refresh": "ref",
			"user": {"id": 1, "username": "mayor_gasabo", "full_name": "Jean Uwimana",
				"role": "mayor", "role_verbose": "District Mayor", "district": "Gasabo",
				"permissions": {"can_view_health": true}, "preferred_language": "en"}
		}`))
	})

	res, err := c.Login(context.Background(), ports.LoginInput{Username: "mayor_gasabo", Password: "pw", RememberMe: true})
	require.NoError(t, err)
	assert.Equal(t, domainauth.Tokens{Access: "acc", Refresh: "ref"}, res.Tokens)
	assert.Equal(t, "Gasabo", res.User.District)
	assert.True(t, res.User.Permissions.Has(domainauth.PermViewHealth))
	assert.False(t, res.User.Permissions.Has(domainauth.PermViewAgriculture))
}

func TestClient_LoginRejectedMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   apperrors.ErrorCode
		want   string
	}{
		{"non field errors", 400, `{"non_field_errors": ["Invalid credentials"]}`, apperrors.ErrCodeValidation, "Invalid credentials"},
		{"detail wins", 401, `{"detail": "No active account", "message": "other"}`, apperrors.ErrCodeUnauthorized, "No active account"},
		{"message", 400, `{"message": "Account locked"}`, apperrors.ErrCodeValidation, "Account locked"},
		{"error", 500, `{"error": "Internal server error"}`, apperrors.ErrCodeUnavailable, "Internal server error"},
		{"field errors only", 400, `{"username": ["This field is required."]}`, apperrors.ErrCodeValidation, ""},
		{"html body", 502, `<html>bad gateway</html>`, apperrors.ErrCodeUnavailable, ""},
		{"empty body", 403, ``, apperrors.ErrCodeForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Login(context.Background(), ports.LoginInput{Username: "alice", Password: "wrong"})
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.Status)
			assert.Equal(t, tt.want, appErr.Message)
		})
	}
}

func TestClient_LoginMissingTokens(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"user": {"username": "x"}}`))
	})
	_, err := c.Login(context.Background(), ports.LoginInput{Username: "x", Password: "y"})
	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
}

func TestClient_Refresh(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/refresh/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["refresh"] != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "Token is invalid or expired", "code": "token_not_valid"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access": "new-access"}`))
	})

	res, err := c.Refresh(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, ports.RefreshResult{Access: "new-access"}, res)

	_, err = c.Refresh(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestClient_CurrentUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/auth/users/me/", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer live" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "Given token not valid for any token type"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id": 3, "username": "hofficer", "first_name": "Grace", "last_name": "Mukamana",
			"role": "health_officer", "district": 4, "district_name": "Kicukiro"}`))
	})

	u, err := c.CurrentUser(context.Background(), "live")
	require.NoError(t, err)
	assert.Equal(t, "Grace Mukamana", u.FullName)
	assert.Equal(t, "Kicukiro", u.District)
	assert.True(t, u.Permissions.Has(domainauth.PermViewHealth))

	_, err = c.CurrentUser(context.Background(), "stale")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestClient_UpdateProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/auth/users/update_profile/", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"username": "u", "preferred_language": "` + body["preferred_language"].(string) + `"}`))
	})

	u, err := c.UpdateProfile(context.Background(), "tok", map[string]any{"preferred_language": "rw"})
	require.NoError(t, err)
	assert.Equal(t, "rw", u.PreferredLanguage)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Login(context.Background(), ports.LoginInput{Username: "a", Password: "b"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Zero(t, appErr.Status)
}

func TestExtractMessage(t *testing.T) {
	assert.Equal(t, "x", ExtractMessage([]byte(`{"error": "x"}`)))
	assert.Equal(t, "", ExtractMessage([]byte(`{"detail": ["not", "a", "string"]}`)))
	assert.Equal(t, "", ExtractMessage([]byte(`[]`)))
	assert.Equal(t, "", ExtractMessage(nil))
}
