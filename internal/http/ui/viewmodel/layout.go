// Package viewmodel holds the typed data shared by page templates.
package viewmodel

// User is the signed-in user as templates see it.
type User struct {
	Name      string
	Username  string
	RoleLabel string
	District  string
}

// NavLink is one sidebar entry.
type NavLink struct {
	Name   string
	Href   string
	Active bool
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	User            *User
	CurrentSector   string
	Nav             []NavLink
}

// Pagination is the pager under a sector resource table. URLs are empty when
// the matching direction is unavailable.
type Pagination struct {
	Page    int
	Count   int
	PrevURL string
	NextURL string
}

// NewPagination builds the pager for page. urlFor renders the link to another page.
func NewPagination(page, count int, hasNext bool, urlFor func(int) string) Pagination {
	p := Pagination{Page: page, Count: count}
	if page > 1 {
		p.PrevURL = urlFor(page - 1)
	}
	if hasNext {
		p.NextURL = urlFor(page + 1)
	}
	return p
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.PrevURL != "" }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.NextURL != "" }
