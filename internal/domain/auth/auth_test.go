package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce_LoginLifecycle(t *testing.T) {
	alice := User{ID: 7, Username: "alice", Role: RoleMayor}
	pair := Tokens{Access: "a1", Refresh: "r1"}

	s := Initial()
	assert.Equal(t, StatusUnauthenticated, s.Status)
	assert.False(t, s.IsLoading())

	s = Reduce(s, AuthStart{})
	assert.True(t, s.IsLoading())
	assert.False(t, s.IsAuthenticated())

	s = Reduce(s, AuthSuccess{User: alice, Tokens: pair})
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, pair, s.Tokens)
	require.NotNil(t, s.User)
	assert.Equal(t, "alice", s.User.Username)
	assert.Empty(t, s.Error)

	s = Reduce(s, Logout{})
	assert.Equal(t, Initial(), s)
}

func TestReduce_FailureClearsTokensAndSetsMessage(t *testing.T) {
	s := Reduce(Initial(), AuthStart{Tokens: Tokens{Access: "a", Refresh: "r"}})
	s = Reduce(s, AuthFailure{Message: "Invalid credentials"})

	assert.Equal(t, StatusUnauthenticated, s.Status)
	assert.True(t, s.Tokens.Empty())
	assert.Nil(t, s.User)
	assert.Equal(t, "Invalid credentials", s.Error)

	s = Reduce(s, AuthFailure{})
	assert.Equal(t, DefaultLoginError, s.Error)

	s = Reduce(s, ClearError{})
	assert.Empty(t, s.Error)
	assert.Equal(t, StatusUnauthenticated, s.Status)
}

func TestReduce_StartClearsPreviousError(t *testing.T) {
	s := Reduce(Initial(), AuthFailure{Message: "nope"})
	s = Reduce(s, AuthStart{})
	assert.Empty(t, s.Error)
}

func TestReduce_TokenRefreshedKeepsUser(t *testing.T) {
	alice := User{Username: "alice"}
	s := Reduce(Initial(), AuthSuccess{User: alice, Tokens: Tokens{Access: "old", Refresh: "r1"}})

	s = Reduce(s, TokenRefreshed{Access: "new"})
	assert.Equal(t, Tokens{Access: "new", Refresh: "r1"}, s.Tokens)
	assert.True(t, s.IsAuthenticated())

	s = Reduce(s, TokenRefreshed{Access: "newer", Refresh: "r2"})
	assert.Equal(t, Tokens{Access: "newer", Refresh: "r2"}, s.Tokens)
}

func TestReduce_UpdateUserDoesNotAlias(t *testing.T) {
	s := Reduce(Initial(), AuthSuccess{User: User{Username: "alice"}, Tokens: Tokens{Access: "a", Refresh: "r"}})
	before := s

	s = Reduce(s, UpdateUser{User: User{Username: "alice", FullName: "Alice Uwase"}})
	assert.Equal(t, "Alice Uwase", s.User.FullName)
	assert.Empty(t, before.User.FullName)
	assert.Equal(t, before.Tokens, s.Tokens)
	assert.Equal(t, before.Status, s.Status)
}

func TestGuard(t *testing.T) {
	loading := SessionView{IsLoading: true}
	anon := SessionView{}
	authed := SessionView{IsAuthenticated: true}

	tests := []struct {
		name   string
		access RouteAccess
		view   SessionView
		want   Decision
	}{
		{"protected loading", AccessProtected, loading, Decision{Action: GuardLoading}},
		{"public loading", AccessPublicOnly, loading, Decision{Action: GuardLoading}},
		{"protected anon", AccessProtected, anon, Decision{Action: GuardRedirect, Location: LoginPath}},
		{"protected authed", AccessProtected, authed, Decision{Action: GuardRender}},
		{"public anon", AccessPublicOnly, anon, Decision{Action: GuardRender}},
		{"public authed", AccessPublicOnly, authed, Decision{Action: GuardRedirect, Location: DashboardPath}},
		{"open loading", AccessOpen, loading, Decision{Action: GuardRender}},
		{"open anon", AccessOpen, anon, Decision{Action: GuardRender}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Guard(tt.access, tt.view))
		})
	}
}

func TestUser_UnmarshalLoginPayload(t *testing.T) {
	raw := `{
		"id": 1, "username": "mayor_gasabo", "full_name": "John Doe",
		"role": "mayor", "role_verbose": "District Mayor", "district": "Gasabo",
		"permissions": {"can_view_agriculture": true, "can_view_health": false},
		"preferred_language": "rw"
	}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	assert.Equal(t, "Gasabo", u.District)
	assert.True(t, u.Permissions.Has(PermViewAgriculture))
	assert.False(t, u.Permissions.Has(PermViewHealth))
	assert.Equal(t, "rw", u.PreferredLanguage)
}

func TestUser_UnmarshalProfilePayload(t *testing.T) {
	raw := `{
		"id": 3, "username": "hofficer", "first_name": "Grace", "last_name": "Mukamana",
		"role": "health_officer", "role_verbose": "Health Officer",
		"district": 4, "district_name": "Kicukiro"
	}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	assert.Equal(t, "Grace Mukamana", u.FullName)
	assert.Equal(t, "Kicukiro", u.District)
	assert.Equal(t, PermissionsForRole(RoleHealthOfficer), u.Permissions)
	assert.True(t, u.Permissions.Has(PermViewHealth))
	assert.False(t, u.Permissions.Has(PermViewEducation))
}

func TestUser_JSONRoundTrip(t *testing.T) {
	in := User{ID: 9, Username: "x", Role: RoleViewer, District: "Nyarugenge", Permissions: Permissions{ExportData: true}}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out User
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestPermissionsForRole(t *testing.T) {
	assert.True(t, PermissionsForRole(RoleAdmin).Has(PermManageUsers))
	assert.False(t, PermissionsForRole(RoleMayor).Has(PermManageUsers))
	assert.True(t, PermissionsForRole(RoleMayor).Has(PermManageAlerts))
	assert.False(t, PermissionsForRole(RoleDataAnalyst).Has(PermManageAlerts))
	assert.True(t, PermissionsForRole(RoleDataAnalyst).Has(PermExportData))
	assert.Equal(t, Permissions{}, PermissionsForRole(RoleViewer))
	assert.False(t, Permissions{}.Has(Permission("bogus")))
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "bob", User{Username: "bob"}.DisplayName())
	assert.Equal(t, "Bob K", User{Username: "bob", FullName: "Bob K"}.DisplayName())
}
