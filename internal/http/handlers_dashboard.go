package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/intego360/intego-ui/internal/domain/sector"
	corefuncs "github.com/intego360/intego-ui/internal/http/templates/core"
	"github.com/intego360/intego-ui/internal/ports"
	"github.com/intego360/intego-ui/internal/service"
)

// overviewCard is one sector panel on the dashboard.
type overviewCard struct {
	Sector  string
	Title   string
	Href    string
	Metrics []ports.MetricValue
	Error   string
}

// Index sends / to the dashboard.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Dashboard shows the headline metrics of every sector the user may view.
// Overviews load concurrently; a failing sector only blanks its own card.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}

	sectors := permittedSectors(client.Session.Snapshot().User)
	cards, err := h.loadOverviews(r.Context(), client, sectors)
	if err != nil {
		h.dataError(w, r, err)
		return
	}

	data := NewTemplateData(r, PageMeta{Title: "Dashboard", CurrentPage: PageDashboard}).
		With("Cards", cards).
		Build()
	h.page(w, r, http.StatusOK, data)
}

func (h *UIHandlers) loadOverviews(ctx context.Context, client *service.Client, sectors []sector.Sector) ([]overviewCard, error) {
	cards := make([]overviewCard, len(sectors))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range sectors {
		cards[i] = overviewCard{Sector: string(s), Title: s.Title(), Href: s.Path()}
		g.Go(func() error {
			ov, err := h.Data.Overview(gctx, client.Session, s)
			switch {
			case errors.Is(err, service.ErrSessionEnded):
				return err
			case err != nil:
				h.logger().Warn("sector overview failed", "sector", string(s), "error", err)
				cards[i].Error = UserMessage(err)
			default:
				cards[i].Metrics = ov.Metrics
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cards, nil
}

// SectorOverview renders one sector's overview and makes it the selection.
func (h *UIHandlers) SectorOverview(s sector.Sector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, ok := h.client(w, r)
		if !ok {
			return
		}
		client.Sector.Follow(r.URL.Path)

		ov, err := h.Data.Overview(r.Context(), client.Session, s)
		if err != nil {
			h.dataError(w, r, err)
			return
		}

		data := NewTemplateData(r, PageMeta{Title: s.Title(), PageTitle: s.Title() + " overview", CurrentPage: PageSector}).
			With("Sector", s).
			With("Metrics", ov.Metrics).
			With("Resources", s.Nav()[1:]).
			Build()
		h.page(w, r, http.StatusOK, data)
	}
}

// SectorResource renders one page of a sector collection as a table.
func (h *UIHandlers) SectorResource(s sector.Sector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, ok := h.client(w, r)
		if !ok {
			return
		}
		resource := r.PathValue("resource")
		if !s.HasResource(resource) {
			h.NotFound(w, r)
			return
		}
		client.Sector.Follow(r.URL.Path)

		pageNum := pageParam(r)
		page, err := h.Data.List(r.Context(), client.Session, s, resource, pageNum)
		if err != nil {
			h.dataError(w, r, err)
			return
		}

		title := humanizeResource(resource)
		data := NewTemplateData(r, PageMeta{Title: title, PageTitle: s.Title() + " · " + title, CurrentPage: PageResource}).
			WithPagination(pageNum, page.Count, page.Next != "").
			With("Sector", s).
			With("Resource", resource).
			With("Rows", page.Results).
			Build()
		h.page(w, r, http.StatusOK, data)
	}
}

// SelectSector changes the sector selection from the switcher form. Unknown
// values are rejected and the current selection is kept.
func (h *UIHandlers) SelectSector(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	s, err := sector.Parse(r.FormValue("sector"))
	if err == nil {
		err = client.Sector.Select(s)
	}
	if err != nil {
		h.Pages.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !IsBrowserRequest(r) {
		WriteJSON(w, http.StatusOK, map[string]string{"sector": string(s)})
		return
	}
	redirect(w, r, s.Path())
}

// FarmersAlias serves the legacy /farmers path.
func (h *UIHandlers) FarmersAlias(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, sector.Agriculture.Path()+"/farmers", http.StatusMovedPermanently)
}

func humanizeResource(resource string) string {
	for _, s := range sector.All {
		for _, link := range s.Nav() {
			if link.Href == s.Path()+"/"+resource {
				return link.Name
			}
		}
	}
	return corefuncs.Humanize(resource)
}

// pageParam reads the 1-based ?page= value; anything unusable means page 1.
func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
