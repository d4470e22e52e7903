package httpx

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	"github.com/intego360/intego-ui/internal/domain/sector"
	"github.com/intego360/intego-ui/internal/http/ui/viewmodel"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request and the
// client's session.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}
	if layout.PageTitle == "" {
		layout.PageTitle = meta.Title
	}

	client, ok := ClientFromContext(r.Context())
	if !ok {
		return layout
	}

	state := client.Session.Snapshot()
	if state.IsAuthenticated() && state.User != nil {
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{
			Name:      state.User.DisplayName(),
			Username:  state.User.Username,
			RoleLabel: state.User.RoleLabel,
			District:  state.User.District,
		}
	}

	current := client.Sector.Current()
	if allowed := permittedSectors(state.User); len(allowed) > 0 && !slices.Contains(allowed, current) {
		current = allowed[0]
	}
	layout.CurrentSector = string(current)
	for _, link := range current.Nav() {
		layout.Nav = append(layout.Nav, viewmodel.NavLink{
			Name:   link.Name,
			Href:   link.Href,
			Active: link.Href == r.URL.Path,
		})
	}
	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"CurrentSector":   layout.CurrentSector,
		"Nav":             layout.Nav,
		"Sectors":         visibleSectors(r),
		"CSRFToken":       layout.CSRFToken,
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// SectorChoice is one entry of the sector switcher.
type SectorChoice struct {
	Value    string
	Title    string
	Href     string
	Selected bool
}

// visibleSectors lists the sectors the signed-in user may open.
func visibleSectors(r *http.Request) []SectorChoice {
	client, ok := ClientFromContext(r.Context())
	if !ok {
		return nil
	}
	user := client.Session.Snapshot().User
	if user == nil {
		return nil
	}
	current := client.Sector.Current()
	var out []SectorChoice
	for _, s := range permittedSectors(user) {
		out = append(out, SectorChoice{Value: string(s), Title: s.Title(), Href: s.Path(), Selected: s == current})
	}
	return out
}

// permittedSectors returns the sectors whose view permission user holds, in navigation order.
func permittedSectors(user *domainauth.User) []sector.Sector {
	if user == nil {
		return nil
	}
	var out []sector.Sector
	for _, s := range sector.All {
		if user.Permissions.Has(s.Permission()) {
			out = append(out, s)
		}
	}
	return out
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithPagination adds page navigation for a resource list. hasNext mirrors the
// upstream "next" link.
func (b *TemplateDataBuilder) WithPagination(page, count int, hasNext bool) *TemplateDataBuilder {
	b.data["Pagination"] = viewmodel.NewPagination(page, count, hasNext, func(n int) string {
		return buildPageURL(b.r.URL.Path, b.r.URL.Query(), n)
	})
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

func buildPageURL(basePath string, q url.Values, page int) string {
	qq := url.Values{}
	for k, vs := range q {
		if k == "page" {
			continue
		}
		qq[k] = vs
	}
	if page > 1 {
		qq.Set("page", strconv.Itoa(page))
	}
	if enc := qq.Encode(); enc != "" {
		return basePath + "?" + enc
	}
	return basePath
}
