package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"encoding/json"
	"strings"
)

// Role is the Identity API role of a user. Kept as the wire string.
type Role string

const (
	RoleAdmin              Role = "admin"
	RoleMayor              Role = "mayor"
	RoleViceMayor          Role = "vice_mayor"
	RoleSectorCoordinator  Role = "sector_coordinator"
	RoleAgricultureOfficer Role = "agriculture_officer"
	RoleHealthOfficer      Role = "health_officer"
	RoleEducationOfficer   Role = "education_officer"
	RoleDataAnalyst        Role = "data_analyst"
	RoleViewer             Role = "viewer"
)

// TokenKind names one of the two persisted credential slots.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// TokenKinds lists every persisted slot in a stable order.
var TokenKinds = []TokenKind{TokenAccess, TokenRefresh}

// Valid reports whether k is a known slot.
func (k TokenKind) Valid() bool { return k == TokenAccess || k == TokenRefresh }

// Tokens is the bearer pair issued by the Identity API.
// Both fields are set together or both are empty.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Empty reports whether no token is held.
func (t Tokens) Empty() bool { return t.Access == "" && t.Refresh == "" }

// Permissions is the capability set the Identity API grants a user.
type Permissions struct {
	ViewAgriculture bool `json:"can_view_agriculture"`
	ViewHealth      bool `json:"can_view_health"`
	ViewEducation   bool `json:"can_view_education"`
	ManageUsers     bool `json:"can_manage_users"`
	GenerateReports bool `json:"can_generate_reports"`
	ManageAlerts    bool `json:"can_manage_alerts"`
	ExportData      bool `json:"can_export_data"`
}

// Permission names a single capability flag.
type Permission string

const (
	PermViewAgriculture Permission = "view-agriculture"
	PermViewHealth      Permission = "view-health"
	PermViewEducation   Permission = "view-education"
	PermManageUsers     Permission = "manage-users"
	PermGenerateReports Permission = "generate-reports"
	PermManageAlerts    Permission = "manage-alerts"
	PermExportData      Permission = "export-data"
)

// Has reports whether the named capability is granted.
func (p Permissions) Has(perm Permission) bool {
	switch perm {
	case PermViewAgriculture:
		return p.ViewAgriculture
	case PermViewHealth:
		return p.ViewHealth
	case PermViewEducation:
		return p.ViewEducation
	case PermManageUsers:
		return p.ManageUsers
	case PermGenerateReports:
		return p.GenerateReports
	case PermManageAlerts:
		return p.ManageAlerts
	case PermExportData:
		return p.ExportData
	default:
		return false
	}
}

// PermissionsForRole mirrors the Identity API's role rules. It is used when a
// profile payload arrives without an explicit permission set (GET /auth/users/me/).
func PermissionsForRole(role Role) Permissions {
	switch role {
	case RoleAdmin:
		return Permissions{
			ViewAgriculture: true, ViewHealth: true, ViewEducation: true,
			ManageUsers: true, GenerateReports: true, ManageAlerts: true, ExportData: true,
		}
	case RoleMayor, RoleViceMayor:
		return Permissions{
			ViewAgriculture: true, ViewHealth: true, ViewEducation: true,
			GenerateReports: true, ManageAlerts: true, ExportData: true,
		}
	case RoleDataAnalyst:
		return Permissions{
			ViewAgriculture: true, ViewHealth: true, ViewEducation: true,
			GenerateReports: true, ExportData: true,
		}
	case RoleAgricultureOfficer:
		return Permissions{ViewAgriculture: true}
	case RoleHealthOfficer:
		return Permissions{ViewHealth: true}
	case RoleEducationOfficer:
		return Permissions{ViewEducation: true}
	default:
		return Permissions{}
	}
}

// User is the profile record of the authenticated principal.
type User struct {
	ID                int         `json:"id"`
	Username          string      `json:"username"`
	FullName          string      `json:"full_name"`
	Role              Role        `json:"role"`
	RoleLabel         string      `json:"role_verbose"`
	District          string      `json:"district,omitempty"`
	Permissions       Permissions `json:"permissions"`
	PreferredLanguage string      `json:"preferred_language"`
}

// userWire accepts both login-response and users/me payload shapes.
type userWire struct {
	ID                int             `json:"id"`
	Username          string          `json:"username"`
	FullName          string          `json:"full_name"`
	FirstName         string          `json:"first_name"`
	LastName          string          `json:"last_name"`
	Role              Role            `json:"role"`
	RoleLabel         string          `json:"role_verbose"`
	District          json.RawMessage `json:"district"`
	DistrictName      string          `json:"district_name"`
	Permissions       *Permissions    `json:"permissions"`
	PreferredLanguage string          `json:"preferred_language"`
}

// UnmarshalJSON decodes a profile from either the login response (district name,
// explicit permissions) or GET /auth/users/me/ (district id plus district_name,
// no permissions).
func (u *User) UnmarshalJSON(data []byte) error {
	var w userWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*u = User{
		ID:                w.ID,
		Username:          w.Username,
		FullName:          w.FullName,
		Role:              w.Role,
		RoleLabel:         w.RoleLabel,
		PreferredLanguage: w.PreferredLanguage,
	}
	if u.FullName == "" {
		u.FullName = strings.TrimSpace(w.FirstName + " " + w.LastName)
	}

	var name string
	if len(w.District) > 0 && json.Unmarshal(w.District, &name) == nil {
		u.District = name
	}
	if u.District == "" {
		u.District = w.DistrictName
	}

	if w.Permissions != nil {
		u.Permissions = *w.Permissions
	} else {
		u.Permissions = PermissionsForRole(w.Role)
	}
	return nil
}

// DisplayName returns the full name, falling back to the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
