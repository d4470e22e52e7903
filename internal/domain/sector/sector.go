// Package sector models the three government service sectors the dashboard covers.
package sector

import (
	"fmt"
	"strings"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
)

// Sector is one of the dashboard's service sectors.
type Sector string

const (
	Agriculture Sector = "agriculture"
	Health      Sector = "health"
	Education   Sector = "education"
)

// Default is the sector selected before the user picks one.
const Default = Agriculture

// All lists sectors in navigation order.
var All = []Sector{Agriculture, Health, Education}

// Parse converts user input into a Sector. Matching is case-insensitive.
func Parse(s string) (Sector, error) {
	switch v := Sector(strings.ToLower(strings.TrimSpace(s))); v {
	case Agriculture, Health, Education:
		return v, nil
	default:
		return "", fmt.Errorf("unknown sector %q (valid: agriculture, health, education)", s)
	}
}

// Valid reports whether s is a known sector.
func (s Sector) Valid() bool {
	switch s {
	case Agriculture, Health, Education:
		return true
	default:
		return false
	}
}

// Title is the display name.
func (s Sector) Title() string {
	switch s {
	case Agriculture:
		return "Agriculture"
	case Health:
		return "Health"
	case Education:
		return "Education"
	default:
		return string(s)
	}
}

// Path is the overview route of the sector.
func (s Sector) Path() string { return "/" + string(s) }

// Permission is the capability required to view the sector.
func (s Sector) Permission() domainauth.Permission {
	switch s {
	case Agriculture:
		return domainauth.PermViewAgriculture
	case Health:
		return domainauth.PermViewHealth
	case Education:
		return domainauth.PermViewEducation
	default:
		return ""
	}
}

// FromPath infers the sector a route belongs to. The farmers page lives at
// /farmers but belongs to agriculture.
func FromPath(path string) (Sector, bool) {
	switch {
	case strings.HasPrefix(path, "/agriculture"), path == "/farmers":
		return Agriculture, true
	case strings.HasPrefix(path, "/health"):
		return Health, true
	case strings.HasPrefix(path, "/education"):
		return Education, true
	default:
		return "", false
	}
}

// NavLink is one sidebar entry.
type NavLink struct {
	Name string
	Href string
}

// Nav returns the sidebar links for a sector.
func (s Sector) Nav() []NavLink {
	switch s {
	case Agriculture:
		return []NavLink{
			{Name: "Overview", Href: "/agriculture"},
			{Name: "Farmers", Href: "/agriculture/farmers"},
			{Name: "Crops", Href: "/agriculture/crops"},
			{Name: "Cooperatives", Href: "/agriculture/cooperatives"},
		}
	case Health:
		return []NavLink{
			{Name: "Overview", Href: "/health"},
			{Name: "Facilities", Href: "/health/facilities"},
			{Name: "Diseases", Href: "/health/diseases"},
			{Name: "Vaccination", Href: "/health/vaccination-campaigns"},
		}
	case Education:
		return []NavLink{
			{Name: "Overview", Href: "/education"},
			{Name: "Schools", Href: "/education/schools"},
			{Name: "Students", Href: "/education/students"},
			{Name: "Teachers", Href: "/education/teachers"},
		}
	default:
		return nil
	}
}

// Resources lists the read-only collections a sector exposes through the REST API.
func (s Sector) Resources() []string {
	switch s {
	case Agriculture:
		return []string{
			"farmers", "cooperatives", "crops", "seasons", "productions",
			"extensions", "market-prices", "alerts", "targets",
		}
	case Health:
		return []string{"facilities", "diseases", "disease-cases", "vaccination-campaigns", "alerts"}
	case Education:
		return []string{"schools", "students", "teachers"}
	default:
		return nil
	}
}

// HasResource reports whether resource is catalogued for the sector.
func (s Sector) HasResource(resource string) bool {
	for _, r := range s.Resources() {
		if r == resource {
			return true
		}
	}
	return false
}

// Metric is a headline number on a sector overview. Expr is a JMESPath
// expression evaluated against the overview response.
type Metric struct {
	Label string
	Expr  string
}

// Metrics returns the headline numbers shown for a sector.
func (s Sector) Metrics() []Metric {
	switch s {
	case Agriculture:
		return []Metric{
			{Label: "Farmers", Expr: "overview_stats.total_farmers"},
			{Label: "Active cooperatives", Expr: "overview_stats.total_cooperatives"},
			{Label: "Crops", Expr: "overview_stats.total_crops"},
			{Label: "Production this season", Expr: "overview_stats.total_production_current_season"},
			{Label: "Active alerts", Expr: "overview_stats.active_alerts"},
		}
	case Health:
		return []Metric{
			{Label: "Facilities", Expr: "overview_stats.total_facilities"},
			{Label: "Beds", Expr: "overview_stats.total_beds"},
			{Label: "Staff", Expr: "overview_stats.total_staff"},
			{Label: "Vaccination coverage", Expr: "overview_stats.vaccination_coverage"},
			{Label: "Active alerts", Expr: "overview_stats.active_alerts"},
		}
	case Education:
		return []Metric{
			{Label: "Schools", Expr: "overview_stats.total_schools"},
			{Label: "Students", Expr: "overview_stats.total_students"},
			{Label: "Teachers", Expr: "overview_stats.total_teachers"},
			{Label: "Pass rate", Expr: "overview_stats.pass_rate"},
		}
	default:
		return nil
	}
}
