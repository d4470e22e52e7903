package httpx

import (
	"bytes"
	"embed"
	"errors"
	"html"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	corefuncs "github.com/intego360/intego-ui/internal/http/templates/core"
)

//go:embed templates/*.tmpl templates/pages/*.tmpl
var embeddedTemplates embed.FS

// TemplatePathFromRoot is where templates live on disk for dev-mode reloading.
const TemplatePathFromRoot = "internal/http/templates"

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	// TemplateFS contains *.tmpl and pages/*.tmpl. Nil uses the embedded set.
	TemplateFS fs.FS
	Logger     *slog.Logger
}

// NewTemplateRenderer parses the template set.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	fsys := cfg.TemplateFS
	if fsys == nil {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := &TemplateRenderer{logger: logger}
	var t *template.Template
	funcs := corefuncs.Funcs(corefuncs.Deps{Template: &t, ContentTemplateFor: ContentTemplateFor})
	t, err := template.New("root").Funcs(funcs).ParseFS(fsys, "*.tmpl", "pages/*.tmpl")
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err), slog.String("phase", "initialization"))
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

// NewDevTemplateRenderer reads templates from disk so edits show up on restart
// without rebuilding; it falls back to the embedded set.
func NewDevTemplateRenderer(logger *slog.Logger) (*TemplateRenderer, error) {
	if _, err := os.Stat(TemplatePathFromRoot); err == nil {
		return NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(TemplatePathFromRoot), Logger: logger})
	}
	return NewTemplateRenderer(TemplateRendererConfig{Logger: logger})
}

// Render executes the named template into w with an implicit 200.
func (r *TemplateRenderer) Render(w http.ResponseWriter, name string, data any) error {
	return r.RenderStatus(w, 0, name, data)
}

// RenderStatus executes the named template and, only if that succeeds, writes
// status and the output. A zero status leaves the status line to net/http.
func (r *TemplateRenderer) RenderStatus(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("template execution failed", slog.String("template", name), slog.Any("error", err))
		return err
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	if status != 0 {
		w.WriteHeader(status)
	}
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template", slog.String("template", name), slog.Any("error", err))
		return err
	}
	return nil
}

// PageRenderer renders dashboard pages with HTMX partial support and error pages.
type PageRenderer struct {
	T      *TemplateRenderer
	IsDev  bool
	Logger *slog.Logger
}

func (p *PageRenderer) logger() *slog.Logger {
	if p != nil && p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Page renders data with the full layout, or only the content block plus the
// document title for HTMX requests.
func (p *PageRenderer) Page(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if p == nil || p.T == nil {
		http.Error(w, "renderer not configured", http.StatusInternalServerError)
		return
	}
	if status == 0 {
		status = http.StatusOK
	}

	if !WantsPartial(r) {
		var buf bytes.Buffer
		if err := p.T.t.ExecuteTemplate(&buf, "layout", data); err != nil {
			p.renderTemplateError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = buf.WriteTo(w)
		return
	}

	page, _ := data["CurrentPage"].(string)
	title, _ := data["Title"].(string)
	pageTitle, _ := data["PageTitle"].(string)
	var buf bytes.Buffer
	buf.WriteString(`<title>` + html.EscapeString(title) + ` · Intego360</title>`)
	buf.WriteString(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + html.EscapeString(pageTitle) + `</h1>`)
	if err := p.T.t.ExecuteTemplate(&buf, ContentTemplateFor(page), data); err != nil {
		p.renderTemplateError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	HTMX(w).Trigger("nav:activate", map[string]string{"path": r.URL.Path})
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error answers with status: JSON for API clients, an error page otherwise.
func (p *PageRenderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	if !IsBrowserRequest(r) || p == nil || p.T == nil {
		WriteError(w, ErrorParams{Code: status, ErrCode: errCodeForStatus(status), Err: errors.New(message)})
		return
	}
	data := basePageData(r, PageMeta{Title: http.StatusText(status), CurrentPage: PageError})
	data["Status"] = status
	data["Message"] = message
	p.Page(w, r, status, data)
}

func (p *PageRenderer) renderTemplateError(w http.ResponseWriter, r *http.Request, err error) {
	p.logger().Error("template rendering failed", "error", err, "path", r.URL.Path, "method", r.Method)
	if p.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<pre>` + html.EscapeString(err.Error()) + `</pre>`))
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
